package material

import (
	"errors"
	"math"
	"testing"

	"github.com/paulromano/ecp-benchmarks/pkg/registry"
)

func sumPercent(m *Material) float64 {
	total := 0.0
	for _, n := range m.Nuclides() {
		total += n.Percent
	}
	return total
}

func TestUO2WeightFractions(t *testing.T) {
	m := UO2("fuel", 3.1, 10.3)
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := sumPercent(m); math.Abs(got-100) > 1e-9 {
		t.Errorf("weight percents sum to %v, want 100", got)
	}
	var u235, uTotal float64
	for _, n := range m.Nuclides() {
		switch n.Name {
		case "U235":
			u235 = n.Percent
			uTotal += n.Percent
		case "U234", "U238":
			uTotal += n.Percent
		}
	}
	if enr := 100 * u235 / uTotal; math.Abs(enr-3.1) > 1e-9 {
		t.Errorf("enrichment = %v, want 3.1", enr)
	}
	if !m.Fissionable() {
		t.Error("UO2 should be fissionable")
	}
}

func TestDepletedUO2CarriesActinides(t *testing.T) {
	m := DepletedUO2("fuel", 3.1, 10.3)
	names := map[string]bool{}
	for _, n := range m.NuclideNames() {
		names[n] = true
	}
	for _, want := range []string{"Pu239", "Xe135", "Sm149", "U235"} {
		if !names[want] {
			t.Errorf("depleted fuel missing %s", want)
		}
	}
	if got := sumPercent(m); math.Abs(got-100) > 1e-9 {
		t.Errorf("weight percents sum to %v, want 100", got)
	}
}

func TestAddElementExpandsIsotopes(t *testing.T) {
	m := New("zr", 6.5, GramsPerCC)
	if err := m.AddElement("Zr", 100, AtomPercent); err != nil {
		t.Fatal(err)
	}
	if len(m.Nuclides()) != 5 {
		t.Errorf("Zr isotopes = %d, want 5", len(m.Nuclides()))
	}
	if got := sumPercent(m); math.Abs(got-100) > 1e-9 {
		t.Errorf("atom percents sum to %v, want 100", got)
	}
	if err := m.AddElement("Xx", 1, AtomPercent); !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown element, got %v", err)
	}
}

func TestCloneSharesComposition(t *testing.T) {
	m := UO2("fuel", 1.6, 10.3)
	m.ID = 4
	c := m.Clone()
	if c.ID != 0 {
		t.Errorf("clone id = %d, want 0", c.ID)
	}
	if !c.SharesComposition(m) {
		t.Error("clone should share the nuclide table")
	}
	d := m.DeepCopy()
	if d.SharesComposition(m) {
		t.Error("deep copy should not share the nuclide table")
	}
	d.AddNuclide("Xe135", 1e-6, WeightPercent)
	if len(m.Nuclides()) == len(d.Nuclides()) {
		t.Error("mutating a deep copy changed the template")
	}
}

func TestValidateRejects(t *testing.T) {
	empty := New("void", 1, GramsPerCC)
	if err := empty.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("empty material: expected ErrInvalid, got %v", err)
	}

	mixed := New("mixed", 1, GramsPerCC)
	mixed.AddNuclide("H1", 1, AtomPercent).AddNuclide("O16", 1, WeightPercent)
	if err := mixed.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("mixed basis: expected ErrInvalid, got %v", err)
	}

	dep := UO2("fuel", 3.1, 10.3)
	dep.Depletable = true
	if err := dep.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("depletable without volume: expected ErrInvalid, got %v", err)
	}
	dep.Volume = 1.2
	if err := dep.Validate(); err != nil {
		t.Errorf("depletable with volume: %v", err)
	}
}

func TestLibrary(t *testing.T) {
	reg, err := Library(false)
	if err != nil {
		t.Fatalf("Library: %v", err)
	}
	if reg.Len() != len(Enrichments)+1+len(structural) {
		t.Errorf("library size = %d", reg.Len())
	}
	seen := map[int]bool{}
	for _, m := range reg.All() {
		if seen[m.ID] {
			t.Errorf("duplicate material id %d", m.ID)
		}
		seen[m.ID] = true
		if err := m.Validate(); err != nil {
			t.Errorf("library material invalid: %v", err)
		}
	}
	water, err := reg.Get(Water)
	if err != nil {
		t.Fatal(err)
	}
	if sab := water.SAlphaBeta(); len(sab) != 1 || sab[0] != "c_H_in_H2O" {
		t.Errorf("water S(a,b) = %v", sab)
	}
	if water.Fissionable() {
		t.Error("water should not be fissionable")
	}
	if _, err := reg.Get(FuelName(2.4)); err != nil {
		t.Errorf("missing 2.4%% fuel: %v", err)
	}
}

package analytics

import (
	"math"
	"testing"

	"github.com/paulromano/ecp-benchmarks/pkg/csg"
	"github.com/paulromano/ecp-benchmarks/pkg/deck"
	"github.com/paulromano/ecp-benchmarks/pkg/differentiate"
	"github.com/paulromano/ecp-benchmarks/pkg/geo"
	"github.com/paulromano/ecp-benchmarks/pkg/material"
	"github.com/paulromano/ecp-benchmarks/pkg/validation"
)

// pinDeck is a 3x3 lattice of one fuel pin in a reflective box.
func pinDeck(t *testing.T, deplete bool) *deck.Deck {
	t.Helper()
	fuel := material.UO2(material.FuelName(2.4), 2.4, 10.3)
	water, err := material.BoratedWater(material.Water, 975, 0.74)
	if err != nil {
		t.Fatal(err)
	}
	pellet := csg.NewZCylinder(0, 0, 0.39218)
	pin := csg.NewUniverse("pin",
		csg.NewCell("Fuel (2.4%) (0)", pellet.Neg()).FillMaterial(fuel),
		csg.NewCell("water", pellet.Pos()).FillMaterial(water))
	rows := [][]*csg.Universe{{pin, pin, pin}, {pin, pin, pin}, {pin, pin, pin}}
	lat, err := csg.NewRectLattice("pins", [2]float64{-1.89, -1.89}, [2]float64{1.26, 1.26}, rows)
	if err != nil {
		t.Fatal(err)
	}
	box := csg.NewPrism(3.78, 3.78, 0, 0, csg.Reflective)
	g := csg.NewGeometry(csg.NewUniverse("root", csg.NewCell("root", box.Inside()).FillLattice(lat)))

	opts := differentiate.Options{Mode: differentiate.Shared}
	if deplete {
		opts = differentiate.Options{Mode: differentiate.Deep, Volume: 0.5, Depletable: true}
	}
	if _, err := differentiate.Differentiate(g, differentiate.ByMaterialName("UO2 Fuel", csg.NameMatch{}), opts, nil); err != nil {
		t.Fatal(err)
	}

	d := &deck.Deck{Name: "pins", Geometry: g, Settings: &deck.Settings{
		Batches: 10, Inactive: 5, Particles: 100, Source: deck.BoxSource(geo.CenteredSquare(3.78, -1, 1)),
	}}
	d.Tallies, err = deck.DepletionTallies(g, deck.ModeMaterial)
	if err != nil {
		t.Fatal(err)
	}
	d.Plots = &deck.Plots{}
	d.Plots.Add(&deck.Plot{Name: "radial", Basis: deck.BasisXY, Width: [2]float64{3.78, 3.78}, Pixels: [2]int{10, 10},
		Colors: deck.Palette{material.Water: deck.White}.Colors(g.Materials())})
	return d
}

func TestSummarizeCounts(t *testing.T) {
	s, report := Summarize(pinDeck(t, true))
	if !report.Valid {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}

	if s.Counts.Cells != 3 {
		t.Errorf("cells = %d, want 3", s.Counts.Cells)
	}
	if s.Counts.Universes != 2 || s.Counts.Lattices != 1 {
		t.Errorf("universes = %d, lattices = %d, want 2 and 1", s.Counts.Universes, s.Counts.Lattices)
	}
	if s.Counts.Surfaces != 5 {
		t.Errorf("surfaces = %d, want 5", s.Counts.Surfaces)
	}
	if s.Surfaces.ByBoundary["reflective"] != 4 || s.Surfaces.ByKind["z-cylinder"] != 1 {
		t.Errorf("surface kinds = %+v", s.Surfaces)
	}
	// Nine fuel instances plus nine water instances.
	if s.Counts.Instances != 18 {
		t.Errorf("instances = %d, want 18", s.Counts.Instances)
	}
	if s.Counts.Materials != 10 {
		t.Errorf("materials = %d, want 9 fuel and 1 water", s.Counts.Materials)
	}
	if s.MaterialIDs.Min < 1 || s.MaterialIDs.Max-s.MaterialIDs.Min < 9 {
		t.Errorf("material ids = %+v, want 10 distinct", s.MaterialIDs)
	}
	if len(s.Lattices) != 1 || s.Lattices[0].Distinct != 1 {
		t.Errorf("lattices = %+v", s.Lattices)
	}
}

func TestSummarizeBurnable(t *testing.T) {
	s, _ := Summarize(pinDeck(t, true))
	if s.Depletable != 9 {
		t.Errorf("depletable = %d, want 9", s.Depletable)
	}
	if math.Abs(s.BurnableVolume-4.5) > 1e-9 {
		t.Errorf("burnable volume = %v, want 4.5", s.BurnableVolume)
	}
	if s.Materials[0].Name != material.FuelName(2.4) || s.Materials[0].Count != 9 {
		t.Errorf("largest group = %+v", s.Materials[0])
	}
}

func TestSummarizeTallies(t *testing.T) {
	s, _ := Summarize(pinDeck(t, false))
	if s.Tallies.Tallies != 1 {
		t.Errorf("tallies = %d, want 1", s.Tallies.Tallies)
	}
	if s.Tallies.Filters["material"] != 1 || s.Tallies.Bins != 9 {
		t.Errorf("tally info = %+v", s.Tallies)
	}
	if s.Plots != 1 {
		t.Errorf("plots = %d, want 1", s.Plots)
	}
}

func TestSummarizeFindings(t *testing.T) {
	_, report := Summarize(pinDeck(t, false))
	if !hasInfo(report.Info, "no depletable materials") {
		t.Errorf("expected no-depletable info, got %v", report.Info)
	}
	if !hasInfo(report.Info, `plot "radial" has no colour for 9 materials`) {
		t.Errorf("expected plot colour info, got %v", report.Info)
	}

	d := pinDeck(t, true)
	flipped := false
	for _, m := range d.Materials() {
		m.Volume = 0
		if m.Depletable && !flipped {
			m.Depletable = false
			flipped = true
		}
	}
	_, report = Summarize(d)
	if report.Valid {
		t.Error("expected invalid report for depletable materials without volume")
	}
	if len(report.Warnings) != 1 {
		t.Errorf("warnings = %v, want the partly depletable group", report.Warnings)
	}
}

func TestSummarizeInstanceMismatch(t *testing.T) {
	d := pinDeck(t, false)
	for _, c := range d.Geometry.CellsByName("Fuel", csg.NameMatch{}) {
		c.FillMaterials(c.Materials()[:3])
	}
	_, report := Summarize(d)
	if report.Valid {
		t.Fatal("expected invalid report")
	}
	if report.Errors[0].Level != "geometry" {
		t.Errorf("level = %s, want geometry", report.Errors[0].Level)
	}
}

func TestSummarizeNoGeometry(t *testing.T) {
	_, report := Summarize(&deck.Deck{Name: "empty"})
	if report.Valid {
		t.Error("expected invalid report for a deck without geometry")
	}
}

func hasInfo(rs []validation.Result, msg string) bool {
	for _, r := range rs {
		if r.Message == msg {
			return true
		}
	}
	return false
}

package csg

import (
	"errors"
	"strings"
	"testing"

	"github.com/paulromano/ecp-benchmarks/pkg/material"
	"github.com/paulromano/ecp-benchmarks/pkg/registry"
	"github.com/paulromano/ecp-benchmarks/pkg/validation"
)

type testModel struct {
	geom  *Geometry
	fuel  *Cell
	water *Cell
	pin   *Universe
	lat   *RectLattice
	mats  []*material.Material
}

func water() *material.Material {
	return material.New("water", 0.74, material.GramsPerCC).
		AddNuclide("H1", 2, material.AtomPercent).
		AddNuclide("O16", 1, material.AtomPercent)
}

// newTestModel builds a 2x2 lattice of one pin inside a reflective box.
func newTestModel(t *testing.T) testModel {
	t.Helper()
	uo2 := material.UO2("fuel", 3.1, 10.3)
	h2o := water()

	cyl := NewZCylinder(0, 0, 0.4)
	fuel := NewCell("fuel", cyl.Neg()).FillMaterial(uo2)
	mod := NewCell("water", cyl.Pos()).FillMaterial(h2o)
	pin := NewUniverse("pin", fuel, mod)

	lat, err := NewRectLattice("lattice", [2]float64{-1.26, -1.26}, [2]float64{1.26, 1.26},
		[][]*Universe{{pin, pin}, {pin, pin}})
	if err != nil {
		t.Fatalf("NewRectLattice: %v", err)
	}

	box := NewPrism(2.52, 2.52, 0, 0, Reflective)
	root := NewUniverse("root", NewCell("root", box.Inside()).FillLattice(lat))
	return testModel{
		geom:  NewGeometry(root),
		fuel:  fuel,
		water: mod,
		pin:   pin,
		lat:   lat,
		mats:  []*material.Material{uo2, h2o},
	}
}

func TestCountInstancesLattice(t *testing.T) {
	m := newTestModel(t)
	m.geom.CountInstances()

	if m.fuel.NumInstances != 4 {
		t.Errorf("fuel instances = %d, want 4", m.fuel.NumInstances)
	}
	if m.water.NumInstances != 4 {
		t.Errorf("water instances = %d, want 4", m.water.NumInstances)
	}
	if root := m.geom.Root.Cells[0]; root.NumInstances != 1 {
		t.Errorf("root cell instances = %d, want 1", root.NumInstances)
	}
}

func TestCountInstancesNested(t *testing.T) {
	m := newTestModel(t)
	lower := NewZPlane(0)
	// Two cells of the root both fill the same lattice; a third fills the
	// pin universe directly.
	m.geom.Root = NewUniverse("root",
		NewCell("below", lower.Neg()).FillLattice(m.lat),
		NewCell("above", And(lower.Pos(), NewZPlane(10).Neg())).FillLattice(m.lat),
		NewCell("cap", NewZPlane(10).Pos()).FillUniverse(m.pin),
	)
	m.geom.CountInstances()
	if m.fuel.NumInstances != 9 {
		t.Errorf("fuel instances = %d, want 9", m.fuel.NumInstances)
	}

	// Recounting must not accumulate.
	m.geom.CountInstances()
	if m.fuel.NumInstances != 9 {
		t.Errorf("fuel instances after recount = %d, want 9", m.fuel.NumInstances)
	}
}

func TestCountInstancesOuter(t *testing.T) {
	m := newTestModel(t)
	outerCell := NewCell("outer water", nil).FillMaterial(water())
	m.lat.Outer = NewUniverse("outer", outerCell)
	if err := m.geom.CountInstances(); err != nil {
		t.Fatalf("CountInstances: %v", err)
	}
	if outerCell.NumInstances != 1 {
		t.Errorf("outer cell instances = %d, want one per lattice instance", outerCell.NumInstances)
	}

	// Filling the lattice twice doubles the outer universe too.
	lower := NewZPlane(0)
	m.geom.Root = NewUniverse("root",
		NewCell("below", lower.Neg()).FillLattice(m.lat),
		NewCell("above", lower.Pos()).FillLattice(m.lat),
	)
	if err := m.geom.CountInstances(); err != nil {
		t.Fatalf("CountInstances: %v", err)
	}
	if outerCell.NumInstances != 2 {
		t.Errorf("outer cell instances = %d, want 2", outerCell.NumInstances)
	}
	if m.fuel.NumInstances != 8 {
		t.Errorf("fuel instances = %d, want 8", m.fuel.NumInstances)
	}
}

// loopModel nests inner in root and fills root back from inner.
func loopModel() (*Geometry, *Cell) {
	root := NewUniverse("root")
	inner := NewUniverse("inner")
	loop := NewCell("loop", NewZPlane(1).Pos()).FillUniverse(root)
	inner.AddCell(NewCell("water", NewZPlane(1).Neg()).FillMaterial(water()), loop)
	root.AddCell(NewCell("in", NewSphere(0, 0, 0, 10).Neg()).FillUniverse(inner))
	return NewGeometry(root), loop
}

func TestFillCycle(t *testing.T) {
	g, _ := loopModel()
	if err := g.CountInstances(); !errors.Is(err, ErrFillCycle) {
		t.Fatalf("CountInstances: err = %v, want ErrFillCycle", err)
	}
	if err := g.AssignIDs(); !errors.Is(err, ErrFillCycle) {
		t.Fatalf("AssignIDs: err = %v, want ErrFillCycle", err)
	}
	if got := len(g.Universes()); got != 2 {
		t.Errorf("universes = %d, want 2 even with a cycle", got)
	}

	r := ValidateGeometry(g)
	if r.Valid {
		t.Fatal("cyclic geometry should be invalid")
	}
	msg := r.Errors[0].Message
	if !strings.Contains(msg, "universe root") || !strings.Contains(msg, "universe inner") {
		t.Errorf("cycle message should name both universes: %q", msg)
	}
}

func TestFillCycleSelf(t *testing.T) {
	u := NewUniverse("self")
	u.AddCell(NewCell("me", nil).FillUniverse(u))
	g := NewGeometry(u)
	if err := g.CountInstances(); !errors.Is(err, ErrFillCycle) {
		t.Fatalf("err = %v, want ErrFillCycle", err)
	}
}

func TestSharedUniverseIsNotACycle(t *testing.T) {
	m := newTestModel(t)
	// The pin is placed by the lattice and by a cell of the root.
	m.geom.Root.AddCell(NewCell("cap", NewZPlane(10).Pos()).FillUniverse(m.pin))
	if err := m.geom.CountInstances(); err != nil {
		t.Fatalf("CountInstances: %v", err)
	}
	if m.fuel.NumInstances != 5 {
		t.Errorf("fuel instances = %d, want 5", m.fuel.NumInstances)
	}
}

func TestTraversal(t *testing.T) {
	m := newTestModel(t)
	if got := len(m.geom.Universes()); got != 2 {
		t.Errorf("universes = %d, want 2", got)
	}
	if got := len(m.geom.Lattices()); got != 1 {
		t.Errorf("lattices = %d, want 1", got)
	}
	if got := len(m.geom.Cells()); got != 3 {
		t.Errorf("cells = %d, want 3", got)
	}
	if got := len(m.geom.Materials()); got != 2 {
		t.Errorf("materials = %d, want 2", got)
	}
	if got := len(m.geom.Surfaces()); got != 5 {
		t.Errorf("surfaces = %d, want 5", got)
	}
	if got := len(m.geom.BoundarySurfaces()); got != 4 {
		t.Errorf("boundary surfaces = %d, want 4", got)
	}
	if m.geom.Universes()[0] != m.geom.Root {
		t.Error("root universe should come first")
	}
}

func TestLookupByName(t *testing.T) {
	m := newTestModel(t)

	if got := m.geom.CellsByName("FUEL", NameMatch{}); len(got) != 1 || got[0] != m.fuel {
		t.Errorf("case-insensitive lookup = %v", got)
	}
	if got := m.geom.CellsByName("FUEL", NameMatch{CaseSensitive: true}); len(got) != 0 {
		t.Errorf("case-sensitive lookup should miss, got %v", got)
	}
	if got := m.geom.CellsByName("wat", NameMatch{Exact: true}); len(got) != 0 {
		t.Errorf("exact lookup should miss, got %v", got)
	}
	if got := m.geom.MaterialsByName("fu", NameMatch{}); len(got) != 1 {
		t.Errorf("material lookup = %v", got)
	}
}

func TestAssignIDs(t *testing.T) {
	m := newTestModel(t)
	m.pin.ID = 7
	if err := m.geom.AssignIDs(); err != nil {
		t.Fatalf("AssignIDs: %v", err)
	}
	if m.pin.ID != 7 {
		t.Errorf("preset universe id changed to %d", m.pin.ID)
	}
	if m.lat.ID <= 7 {
		t.Errorf("lattice id %d should follow the reserved universe id", m.lat.ID)
	}
	if m.geom.Root.ID == 0 || m.fuel.ID == 0 || m.mats[0].ID == 0 {
		t.Error("every object should have an id")
	}
	r := ValidateGeometry(m.geom)
	if !r.Valid {
		t.Errorf("expected valid geometry: %+v", r.Errors)
	}
}

func TestAssignIDsDuplicate(t *testing.T) {
	m := newTestModel(t)
	m.pin.ID = 3
	m.lat.ID = 3
	err := m.geom.AssignIDs()
	if !errors.Is(err, registry.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestValidateGeometryDistribMismatch(t *testing.T) {
	m := newTestModel(t)
	m.fuel.FillMaterials([]*material.Material{m.mats[0], m.mats[0].Clone()})
	if err := m.geom.AssignIDs(); err != nil {
		t.Fatalf("AssignIDs: %v", err)
	}

	r := ValidateGeometry(m.geom)
	if r.Valid {
		t.Fatal("distributed fill with 2 materials for 4 instances should be invalid")
	}
	found := false
	for _, e := range r.Errors {
		if e.Level == validation.LevelGeometry && strings.Contains(e.Message, "2 materials for 4 instances") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing instance mismatch error: %+v", r.Errors)
	}
}

func TestValidateGeometryRegionless(t *testing.T) {
	m := newTestModel(t)
	m.fuel.Region = nil
	if err := m.geom.AssignIDs(); err != nil {
		t.Fatalf("AssignIDs: %v", err)
	}
	if r := ValidateGeometry(m.geom); r.Valid {
		t.Error("region-less cell sharing a universe should be invalid")
	}
}

func TestValidateGeometryWarnsWithoutBoundary(t *testing.T) {
	m := newTestModel(t)
	m.geom.Root.Cells[0].Region = nil
	if err := m.geom.AssignIDs(); err != nil {
		t.Fatalf("AssignIDs: %v", err)
	}
	r := ValidateGeometry(m.geom)
	if !r.Valid {
		t.Fatalf("unexpected errors: %+v", r.Errors)
	}
	if len(r.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %d", len(r.Warnings))
	}
}

func TestValidateGeometryNil(t *testing.T) {
	if r := ValidateGeometry(nil); r.Valid {
		t.Error("nil geometry should be invalid")
	}
}

func TestFillExclusive(t *testing.T) {
	m := newTestModel(t)
	c := NewCell("c", nil).FillMaterial(m.mats[0]).FillUniverse(m.pin)
	if c.Fill() != FillUniverse || c.Material() != nil {
		t.Errorf("fill = %v, material = %v; want universe fill only", c.Fill(), c.Material())
	}
	c.FillMaterial(nil)
	if c.Fill() != FillVoid || c.Universe() != nil {
		t.Errorf("nil material should leave a void cell, got %v", c.Fill())
	}
}

func TestCopySurface(t *testing.T) {
	reg := NewSurfaces()
	orig, err := reg.Add("grid bottom", NewZPlane(12.5).WithBoundary(Vacuum).Named("grid bottom"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	cp, err := CopySurface(reg, "grid bottom", "grid bottom copy")
	if err != nil {
		t.Fatalf("CopySurface: %v", err)
	}
	if cp == orig || cp.ID == orig.ID {
		t.Errorf("copy shares identity with original: ids %d, %d", cp.ID, orig.ID)
	}
	if cp.Kind != orig.Kind || cp.CoeffString() != orig.CoeffString() || cp.Boundary != orig.Boundary {
		t.Errorf("copy = %+v, want equation of %+v", cp, orig)
	}
	if cp.Name != "grid bottom copy" || orig.Name != "grid bottom" {
		t.Errorf("names = %q, %q", cp.Name, orig.Name)
	}
	if _, err := CopySurface(reg, "missing", "x"); !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("missing source: err = %v, want ErrNotFound", err)
	}
	if _, err := CopySurface(reg, "grid bottom", "grid bottom copy"); !errors.Is(err, registry.ErrDuplicate) {
		t.Errorf("duplicate target: err = %v, want ErrDuplicate", err)
	}
}

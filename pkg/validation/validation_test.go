package validation_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/paulromano/ecp-benchmarks/pkg/csg"
	"github.com/paulromano/ecp-benchmarks/pkg/material"
	"github.com/paulromano/ecp-benchmarks/pkg/validation"
)

// pinDeck is one fuel pin in a box. The fuel cell holds a distributed fill
// sized for two instances although the pin appears once.
func pinDeck(t *testing.T, b csg.Boundary) (*csg.Geometry, *csg.Cell) {
	t.Helper()
	fuel := material.UO2("fuel", 3.1, 10.3)
	water := material.New("water", 0.74, material.GramsPerCC).
		AddNuclide("H1", 2, material.AtomPercent).
		AddNuclide("O16", 1, material.AtomPercent)

	cyl := csg.NewZCylinder(0, 0, 0.4)
	pellet := csg.NewCell("pellet", cyl.Neg()).
		FillMaterials([]*material.Material{fuel, fuel.Clone()})
	box := csg.NewPrism(1.26, 1.26, 0, 0, b)
	root := csg.NewUniverse("root",
		pellet,
		csg.NewCell("moderator", csg.And(cyl.Pos(), box.Inside())).FillMaterial(water),
	)
	g := csg.NewGeometry(root)
	if err := g.AssignIDs(); err != nil {
		t.Fatalf("AssignIDs: %v", err)
	}
	return g, pellet
}

func TestGeometryFindingPaths(t *testing.T) {
	g, _ := pinDeck(t, csg.Vacuum)
	r := csg.ValidateGeometry(g)
	if r.Valid {
		t.Fatal("distributed fill with too many materials should be invalid")
	}

	at := r.At(validation.CellPath("pellet"))
	if len(at) != 1 {
		t.Fatalf("findings at pellet = %d, want 1: %+v", len(at), r.All())
	}
	f := at[0]
	if f.Severity != validation.SeverityError || f.Level != validation.LevelGeometry {
		t.Errorf("finding = %s/%s, want error/geometry", f.Severity, f.Level)
	}
	if f.ActualValue != 2 || f.Expected != "1" {
		t.Errorf("actual/expected = %v/%q, want 2/\"1\"", f.ActualValue, f.Expected)
	}
	if kind := validation.PathKind(f.Path); kind != "cells" {
		t.Errorf("PathKind(%q) = %q, want cells", f.Path, kind)
	}
	if len(r.At(validation.CellPath("moderator"))) != 0 {
		t.Error("moderator should have no findings")
	}
}

func TestGeometryBoundaryWarning(t *testing.T) {
	g, pellet := pinDeck(t, csg.Transmission)
	pellet.FillMaterial(pellet.Materials()[0])

	r := csg.ValidateGeometry(g)
	if !r.Valid {
		t.Fatalf("pin without boundaries should still be valid: %v", r.Err())
	}
	if len(r.Warnings) != 1 {
		t.Fatalf("warnings = %d, want 1", len(r.Warnings))
	}
	if got := validation.PathKind(r.Warnings[0].Path); got != "surfaces" {
		t.Errorf("warning kind = %q, want surfaces", got)
	}
	if len(r.Warnings[0].Suggestions) == 0 {
		t.Error("boundary warning should suggest a fix")
	}
	if r.Err() != nil {
		t.Errorf("warnings alone should not produce an error: %v", r.Err())
	}
}

func TestGeometryCycleFinding(t *testing.T) {
	root := csg.NewUniverse("core")
	assembly := csg.NewUniverse("assembly",
		csg.NewCell("back", nil).FillUniverse(root))
	root.AddCell(csg.NewCell("assembly", csg.NewSphere(0, 0, 0, 10).Neg()).FillUniverse(assembly))

	r := csg.ValidateGeometry(csg.NewGeometry(root))
	err := r.Err()
	if !errors.Is(err, validation.ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
	if !strings.Contains(err.Error(), validation.UniversePath("core")) {
		t.Errorf("error should locate the root universe: %v", err)
	}
	if !strings.Contains(err.Error(), "1 errors") {
		t.Errorf("error should carry the summary: %v", err)
	}
}

func TestMergeStages(t *testing.T) {
	g, _ := pinDeck(t, csg.Vacuum)
	r := validation.NewReport()
	r.AddInfo(validation.Result{
		Level:   validation.LevelSchema,
		Message: "model smr-assembly",
		Path:    "model",
	})
	r.Merge(csg.ValidateGeometry(g))
	r.Merge(nil)

	dep := validation.NewReport()
	dep.AddWarning(validation.Result{
		Level:   validation.LevelDepletion,
		Message: "material has no volume",
		Path:    validation.IDPath("materials", 12),
	})
	r.Merge(dep)

	if r.Valid {
		t.Error("merged report should stay invalid")
	}
	if r.Summary != "1 errors, 1 warnings, 1 info" {
		t.Errorf("summary = %q", r.Summary)
	}
	if got := len(r.ByLevel(validation.LevelGeometry)); got != 1 {
		t.Errorf("geometry findings = %d, want 1", got)
	}
	if got := r.ByLevel(validation.LevelDepletion); len(got) != 1 || got[0].Path != "materials[12]" {
		t.Errorf("depletion findings = %+v", got)
	}
	all := r.All()
	if len(all) != 3 || all[0].Severity != validation.SeverityError {
		t.Errorf("All should list the error first: %+v", all)
	}
}

func TestPathKind(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{validation.CellPath("Fuel (0)"), "cells"},
		{validation.LatticePath("assembly.lattice"), "lattices"},
		{validation.MaterialPath("UO2 Fuel 3.1%"), "materials"},
		{"settings.batches", "settings"},
		{"surfaces", "surfaces"},
	}
	for _, tt := range tests {
		if got := validation.PathKind(tt.path); got != tt.want {
			t.Errorf("PathKind(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

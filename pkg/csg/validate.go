package csg

import (
	"fmt"

	"github.com/paulromano/ecp-benchmarks/pkg/validation"
)

// ValidateGeometry performs structural validation on a geometry tree. It
// recounts cell instances first, so distributed fills are checked against
// the current tree.
func ValidateGeometry(g *Geometry) *validation.Report {
	r := validation.NewReport()

	if g == nil || g.Root == nil {
		r.AddError(validation.Result{
			Level:   validation.LevelGeometry,
			Message: "geometry has no root universe",
		})
		return r
	}

	if err := g.CountInstances(); err != nil {
		r.AddError(validation.Result{
			Level:    validation.LevelGeometry,
			Message:  err.Error(),
			Path:     validation.UniversePath(g.Root.Name),
			Expected: "universes and lattices never fill themselves",
		})
		return r
	}

	validateIDs(g, r)
	validateFills(g, r)
	validateLattices(g, r)
	validateMaterials(g, r)
	validateBoundaries(g, r)

	return r
}

func validateIDs(g *Geometry, r *validation.Report) {
	check := func(kind string, pathOf func(string) string, id int, name string, seen map[int]string) {
		path := pathOf(name)
		if id <= 0 {
			r.AddError(validation.Result{
				Level:       validation.LevelGeometry,
				Message:     fmt.Sprintf("%s %q has no id", kind, name),
				Path:        path,
				ActualValue: id,
				Expected:    "> 0",
			})
			return
		}
		if prev, ok := seen[id]; ok {
			r.AddError(validation.Result{
				Level:        validation.LevelGeometry,
				Message:      fmt.Sprintf("duplicate %s id %d", kind, id),
				Path:         path,
				ActualValue:  id,
				ConflictWith: prev,
			})
			return
		}
		seen[id] = name
	}

	surfaces := make(map[int]string)
	for _, s := range g.Surfaces() {
		check("surface", validation.SurfacePath, s.ID, s.Name, surfaces)
	}
	cells := make(map[int]string)
	for _, c := range g.Cells() {
		check("cell", validation.CellPath, c.ID, c.Name, cells)
	}
	// Universes and lattices share an id space.
	universes := make(map[int]string)
	for _, u := range g.Universes() {
		check("universe", validation.UniversePath, u.ID, u.Name, universes)
	}
	for _, l := range g.Lattices() {
		check("lattice", validation.LatticePath, l.ID, l.Name, universes)
	}
	materials := make(map[int]string)
	for _, m := range g.Materials() {
		check("material", validation.MaterialPath, m.ID, m.Name, materials)
	}
}

func validateFills(g *Geometry, r *validation.Report) {
	for _, u := range g.Universes() {
		for _, c := range u.Cells {
			path := validation.CellPath(c.Name)
			if c.Region == nil && len(u.Cells) > 1 {
				r.AddError(validation.Result{
					Level:    validation.LevelGeometry,
					Message:  fmt.Sprintf("cell %q has no region but shares universe %q", c.Name, u.Name),
					Path:     path,
					Expected: "region-less cells fill their universe alone",
				})
			}
			switch c.kind {
			case FillUniverse:
				if c.universe == nil {
					r.AddError(validation.Result{
						Level:   validation.LevelGeometry,
						Message: fmt.Sprintf("cell %q is filled with a nil universe", c.Name),
						Path:    path,
					})
				}
			case FillLattice:
				if c.lattice == nil {
					r.AddError(validation.Result{
						Level:   validation.LevelGeometry,
						Message: fmt.Sprintf("cell %q is filled with a nil lattice", c.Name),
						Path:    path,
					})
				}
			case FillDistribMaterial:
				if len(c.materials) != c.NumInstances {
					r.AddError(validation.Result{
						Level:       validation.LevelGeometry,
						Message:     fmt.Sprintf("cell %q has %d materials for %d instances", c.Name, len(c.materials), c.NumInstances),
						Path:        path,
						ActualValue: len(c.materials),
						Expected:    fmt.Sprintf("%d", c.NumInstances),
					})
				}
				for i, m := range c.materials {
					if m == nil {
						r.AddError(validation.Result{
							Level:   validation.LevelGeometry,
							Message: fmt.Sprintf("cell %q instance %d has no material", c.Name, i),
							Path:    path,
						})
					}
				}
			}
		}
	}
}

func validateLattices(g *Geometry, r *validation.Report) {
	for _, l := range g.Lattices() {
		if err := l.Validate(); err != nil {
			r.AddError(validation.Result{
				Level:   validation.LevelGeometry,
				Message: err.Error(),
				Path:    validation.LatticePath(l.Name),
			})
		}
	}
}

func validateMaterials(g *Geometry, r *validation.Report) {
	for _, m := range g.Materials() {
		if err := m.Validate(); err != nil {
			r.AddError(validation.Result{
				Level:   validation.LevelGeometry,
				Message: err.Error(),
				Path:    validation.MaterialPath(m.Name),
			})
		}
	}
}

func validateBoundaries(g *Geometry, r *validation.Report) {
	if len(g.BoundarySurfaces()) == 0 {
		r.AddWarning(validation.Result{
			Level:       validation.LevelGeometry,
			Message:     "no surface carries a boundary condition; particles can leave the model",
			Path:        "surfaces",
			Suggestions: []string{"set vacuum or reflective boundaries on the outermost surfaces"},
		})
	}
}

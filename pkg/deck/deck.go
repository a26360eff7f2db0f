// Package deck holds a complete solver input: geometry, settings, tallies
// and plots.
package deck

import (
	"fmt"

	"github.com/paulromano/ecp-benchmarks/pkg/csg"
	"github.com/paulromano/ecp-benchmarks/pkg/material"
	"github.com/paulromano/ecp-benchmarks/pkg/validation"
)

// Deck is everything needed to write one set of input files.
type Deck struct {
	Name     string
	Geometry *csg.Geometry
	Settings *Settings
	Tallies  *Tallies
	Plots    *Plots
}

// Materials returns every material reachable from the geometry in
// first-use order. These are the materials that get exported.
func (d *Deck) Materials() []*material.Material {
	if d.Geometry == nil {
		return nil
	}
	return d.Geometry.Materials()
}

// Finalize assigns ids to everything still at zero and counts cell
// instances. It is safe to call more than once.
func (d *Deck) Finalize() error {
	if d.Geometry == nil || d.Geometry.Root == nil {
		return fmt.Errorf("deck %q: no geometry", d.Name)
	}
	if err := d.Geometry.AssignIDs(); err != nil {
		return fmt.Errorf("deck %q: %w", d.Name, err)
	}
	if err := d.Geometry.CountInstances(); err != nil {
		return fmt.Errorf("deck %q: %w", d.Name, err)
	}
	if d.Tallies != nil {
		d.Tallies.assignIDs()
	}
	if d.Plots != nil {
		d.Plots.assignIDs()
	}
	return nil
}

// Validate runs the geometry and settings checks and the tally and plot
// reference checks, merging them into one report.
func (d *Deck) Validate() *validation.Report {
	r := csg.ValidateGeometry(d.Geometry)

	if d.Settings == nil {
		r.AddError(validation.Result{
			Level:   validation.LevelSchema,
			Message: "deck has no settings",
			Path:    "settings",
		})
	} else {
		r.Merge(d.Settings.Validate())
	}

	if d.Geometry != nil && d.Geometry.Root != nil {
		d.validateTallies(r)
	}
	if d.Plots != nil {
		for _, p := range d.Plots.Plots {
			if err := p.Validate(); err != nil {
				r.AddError(validation.Result{
					Level:   validation.LevelSchema,
					Message: err.Error(),
					Path:    fmt.Sprintf("plots[%s]", p.Name),
				})
			}
		}
	}
	return r
}

// validateTallies checks that every filter bin refers to an object in the
// geometry.
func (d *Deck) validateTallies(r *validation.Report) {
	if d.Tallies == nil {
		return
	}
	mats := make(map[*material.Material]bool)
	for _, m := range d.Geometry.Materials() {
		mats[m] = true
	}
	cells := make(map[*csg.Cell]bool)
	for _, c := range d.Geometry.Cells() {
		cells[c] = true
	}

	for _, t := range d.Tallies.Tallies {
		path := fmt.Sprintf("tallies[%s]", t.Name)
		if len(t.Scores) == 0 {
			r.AddError(validation.Result{
				Level:   validation.LevelSchema,
				Message: fmt.Sprintf("tally %q has no scores", t.Name),
				Path:    path,
			})
		}
		for _, f := range t.Filters {
			switch f.Kind {
			case FilterMaterial:
				for _, m := range f.Materials {
					if !mats[m] {
						r.AddError(validation.Result{
							Level:   validation.LevelGeometry,
							Message: fmt.Sprintf("tally %q filters on material %q, which is not in the geometry", t.Name, m.Name),
							Path:    path,
						})
					}
				}
			case FilterCell, FilterDistribcell:
				for _, c := range f.Cells {
					if !cells[c] {
						r.AddError(validation.Result{
							Level:   validation.LevelGeometry,
							Message: fmt.Sprintf("tally %q filters on cell %q, which is not in the geometry", t.Name, c.Name),
							Path:    path,
						})
					}
				}
			case FilterMesh:
				if f.Mesh == nil || len(f.Mesh.Dimension) == 0 || len(f.Mesh.Dimension) != len(f.Mesh.Width) {
					r.AddError(validation.Result{
						Level:   validation.LevelSchema,
						Message: fmt.Sprintf("tally %q has a malformed mesh filter", t.Name),
						Path:    path,
					})
				}
			}
		}
	}
}

package analytics

import (
	"fmt"

	"github.com/paulromano/ecp-benchmarks/pkg/csg"
	"github.com/paulromano/ecp-benchmarks/pkg/deck"
	"github.com/paulromano/ecp-benchmarks/pkg/validation"
)

// validateSummary runs the consistency checks on a summarised deck.
func validateSummary(d *deck.Deck, s *Summary, report *validation.Report) {
	validateInstances(d.Geometry, report)
	validateBurnable(s, report)
	validateUniqueIDs(d, report)
	validatePlotColors(d, report)
}

// validateInstances checks that every per-instance fill has exactly one
// material per instance.
func validateInstances(g *csg.Geometry, report *validation.Report) {
	for _, c := range g.MaterialCells() {
		if c.Fill() != csg.FillDistribMaterial {
			continue
		}
		if n := len(c.Materials()); n != c.NumInstances {
			report.AddError(validation.Result{
				Level:       validation.LevelGeometry,
				Message:     fmt.Sprintf("cell %q has %d materials for %d instances", c.Name, n, c.NumInstances),
				Path:        validation.IDPath("cells", c.ID),
				ActualValue: n,
				Expected:    fmt.Sprintf("%d", c.NumInstances),
				Suggestions: []string{"Differentiate the cell again after changing the geometry"},
			})
		}
	}
}

func validateBurnable(s *Summary, report *validation.Report) {
	for _, grp := range s.Materials {
		if grp.Depletable > 0 && grp.Depletable < grp.Count {
			report.AddWarning(validation.Result{
				Level:       validation.LevelDepletion,
				Message:     fmt.Sprintf("%d of %d %q materials are depletable", grp.Depletable, grp.Count, grp.Name),
				Path:        "materials",
				ActualValue: grp.Depletable,
				Expected:    fmt.Sprintf("0 or %d", grp.Count),
			})
		}
	}
	if s.Depletable > 0 && s.BurnableVolume <= 0 {
		report.AddError(validation.Result{
			Level:       validation.LevelDepletion,
			Message:     "depletable materials have no volume",
			Path:        "materials",
			ActualValue: s.BurnableVolume,
			Expected:    "> 0 cm³",
		})
	}
	if s.Depletable == 0 {
		report.AddInfo(validation.Result{
			Level:   validation.LevelDepletion,
			Message: "no depletable materials",
			Path:    "materials",
		})
	}
}

// validateUniqueIDs checks material ids after finalisation.
func validateUniqueIDs(d *deck.Deck, report *validation.Report) {
	seen := make(map[int]string)
	for _, m := range d.Materials() {
		if prev, dup := seen[m.ID]; dup {
			report.AddError(validation.Result{
				Level:        validation.LevelGeometry,
				Message:      fmt.Sprintf("material id %d is used by %q and %q", m.ID, prev, m.Name),
				Path:         "materials",
				ActualValue:  m.ID,
				ConflictWith: prev,
			})
			continue
		}
		seen[m.ID] = m.Name
	}
}

// validatePlotColors notes materials that plots leave to the solver's
// colouring.
func validatePlotColors(d *deck.Deck, report *validation.Report) {
	if d.Plots == nil || len(d.Plots.Plots) == 0 {
		return
	}
	for _, p := range d.Plots.Plots {
		colored := make(map[int]bool, len(p.Colors))
		for _, c := range p.Colors {
			colored[c.Material.ID] = true
		}
		missing := 0
		for _, m := range d.Materials() {
			if !colored[m.ID] {
				missing++
			}
		}
		if missing > 0 {
			report.AddInfo(validation.Result{
				Level:       validation.LevelGeometry,
				Message:     fmt.Sprintf("plot %q has no colour for %d materials", p.Name, missing),
				Path:        fmt.Sprintf("plots[%d]", p.ID),
				ActualValue: missing,
			})
		}
	}
}

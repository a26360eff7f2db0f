// Package analytics summarises a built deck: object counts, id ranges,
// burnable inventory and tallies, with consistency checks on the result.
package analytics

import (
	"github.com/paulromano/ecp-benchmarks/pkg/deck"
	"github.com/paulromano/ecp-benchmarks/pkg/validation"
)

// Summary holds the computed description of a deck.
type Summary struct {
	Deck   string `json:"deck"`
	Counts Counts `json:"counts"`

	SurfaceIDs  IDRange `json:"surface_ids"`
	CellIDs     IDRange `json:"cell_ids"`
	UniverseIDs IDRange `json:"universe_ids"`
	MaterialIDs IDRange `json:"material_ids"`

	Surfaces  SurfaceKinds    `json:"surfaces"`
	Lattices  []LatticeInfo   `json:"lattices"`
	Materials []MaterialGroup `json:"materials"`

	Depletable     int     `json:"depletable_materials"`
	BurnableVolume float64 `json:"burnable_volume_cc"`

	Tallies TallyInfo `json:"tallies"`
	Plots   int       `json:"plots"`
}

// Summarize finalizes d and computes its summary. Returns the summary and
// a report of consistency findings.
func Summarize(d *deck.Deck) (*Summary, *validation.Report) {
	report := validation.NewReport()
	if err := d.Finalize(); err != nil {
		report.AddError(validation.Result{
			Level:   validation.LevelGeometry,
			Message: err.Error(),
			Path:    "geometry",
		})
		return &Summary{Deck: d.Name}, report
	}
	g := d.Geometry

	// 1. Geometry
	s := &Summary{Deck: d.Name}
	s.Counts, s.SurfaceIDs, s.CellIDs, s.UniverseIDs = countGeometry(g)
	s.Surfaces = surfaceKinds(g)
	s.Lattices = latticeInfo(g)

	// 2. Materials
	mats := g.Materials()
	s.Counts.Materials = len(mats)
	s.MaterialIDs = materialIDs(mats)
	s.Materials = groupMaterials(mats)
	for _, grp := range s.Materials {
		s.Depletable += grp.Depletable
	}
	s.BurnableVolume = burnableVolume(mats)

	// 3. Tallies and plots
	s.Tallies = tallyInfo(d.Tallies)
	if d.Plots != nil {
		s.Plots = len(d.Plots.Plots)
	}

	// 4. Consistency
	validateSummary(d, s, report)
	return s, report
}

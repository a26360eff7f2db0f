package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/paulromano/ecp-benchmarks/pkg/analytics"
	"github.com/paulromano/ecp-benchmarks/pkg/depletion"
	"github.com/paulromano/ecp-benchmarks/pkg/models"
	"github.com/paulromano/ecp-benchmarks/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Printf("  [%s] %s\n", e.Level, e.Message)
			if e.Path != "" {
				fmt.Printf("    -> %s = %v\n", e.Path, e.ActualValue)
			}
			if e.Expected != "" {
				fmt.Printf("    expected: %s\n", e.Expected)
			}
			if e.ConflictWith != "" {
				fmt.Printf("    conflicts with: %s\n", e.ConflictWith)
			}
			for _, s := range e.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Printf("  [%s] %s\n", w.Level, w.Message)
			if w.Path != "" {
				fmt.Printf("    -> %s = %v\n", w.Path, w.ActualValue)
			}
			if w.Expected != "" {
				fmt.Printf("    expected: %s\n", w.Expected)
			}
			for _, s := range w.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printSummary(s *analytics.Summary) {
	fmt.Printf("Deck %s\n", s.Deck)
	fmt.Println("===================================")
	fmt.Println()

	c := s.Counts
	fmt.Printf("%-18s %10s %18s\n", "Object", "Count", "Ids")
	fmt.Printf("%-18s %10s %18s\n", "------------------", "----------", "------------------")
	rows := []struct {
		label string
		n     int
		ids   analytics.IDRange
	}{
		{"Surfaces", c.Surfaces, s.SurfaceIDs},
		{"Cells", c.Cells, s.CellIDs},
		{"Universes", c.Universes + c.Lattices, s.UniverseIDs},
		{"Materials", c.Materials, s.MaterialIDs},
	}
	for _, row := range rows {
		fmt.Printf("%-18s %10d %18s\n", row.label, row.n, fmt.Sprintf("%d-%d", row.ids.Min, row.ids.Max))
	}
	fmt.Printf("%-18s %10d\n", "Lattices", c.Lattices)
	fmt.Printf("%-18s %10d\n", "Cell instances", c.Instances)

	fmt.Println()
	fmt.Println("Materials")
	fmt.Println("---------")
	for _, g := range s.Materials {
		fmt.Printf("  %-28s %8d", g.Name, g.Count)
		if g.Depletable > 0 {
			fmt.Printf("  depletable %d, %s cm³", g.Depletable, formatVolume(g.VolumeCC))
		}
		fmt.Println()
	}
	if s.Depletable > 0 {
		fmt.Printf("  Burnable volume:             %s cm³\n", formatVolume(s.BurnableVolume))
	}

	fmt.Println()
	fmt.Printf("Tallies: %d (%d meshes, %d filter bins)", s.Tallies.Tallies, s.Tallies.Meshes, s.Tallies.Bins)
	kinds := make([]string, 0, len(s.Tallies.Filters))
	for k := range s.Tallies.Filters {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Printf(" %s=%d", k, s.Tallies.Filters[k])
	}
	fmt.Println()
	fmt.Printf("Plots:   %d\n", s.Plots)
}

func printManifest(m *depletion.Manifest) {
	fmt.Printf("Depletion run %s (%s)\n", m.RunID, m.Deck)
	fmt.Printf("  command: %v, power %.4g MeV/s\n", m.Command, m.Power)
	for i, st := range m.Steps {
		fmt.Printf("  step %3d  %-8s %12s", i, st.Status, st.Length)
		if st.Error != "" {
			fmt.Printf("  %s", st.Error)
		}
		fmt.Println()
	}
	if !m.Finished.IsZero() {
		fmt.Printf("  finished in %s\n", m.Finished.Sub(m.Started).Round(time.Millisecond))
	}
}

func printModels() {
	fmt.Printf("%-16s %-10s %s\n", "Model", "Depletion", "Description")
	fmt.Printf("%-16s %-10s %s\n", "----------------", "----------", "-----------")
	for _, m := range models.All() {
		dep := "-"
		if m.Depletable() {
			dep = "yes"
		}
		fmt.Printf("%-16s %-10s %s\n", m.Name, dep, m.Description)
	}
}

func formatVolume(v float64) string {
	if v >= 1_000_000 {
		return fmt.Sprintf("%.2fM", v/1_000_000)
	}
	if v >= 1_000 {
		return fmt.Sprintf("%.1fK", v/1_000)
	}
	return fmt.Sprintf("%.3f", v)
}

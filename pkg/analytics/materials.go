package analytics

import (
	"sort"

	"github.com/paulromano/ecp-benchmarks/pkg/material"
)

func materialIDs(mats []*material.Material) IDRange {
	var r IDRange
	for _, m := range mats {
		r.span(m.ID)
	}
	return r
}

// groupMaterials aggregates materials by name, largest groups first.
func groupMaterials(mats []*material.Material) []MaterialGroup {
	idx := make(map[string]int)
	var out []MaterialGroup
	for _, m := range mats {
		i, ok := idx[m.Name]
		if !ok {
			i = len(out)
			idx[m.Name] = i
			out = append(out, MaterialGroup{Name: m.Name, Temperature: m.Temperature})
		}
		g := &out[i]
		g.Count++
		g.VolumeCC += m.Volume
		if m.Depletable {
			g.Depletable++
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// burnableVolume sums the volume of depletable materials.
func burnableVolume(mats []*material.Material) float64 {
	total := 0.0
	for _, m := range mats {
		if m.Depletable {
			total += m.Volume
		}
	}
	return total
}

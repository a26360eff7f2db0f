package analytics

import (
	"github.com/paulromano/ecp-benchmarks/pkg/csg"
)

// span widens r to include id.
func (r *IDRange) span(id int) {
	if r.Min == 0 || id < r.Min {
		r.Min = id
	}
	if id > r.Max {
		r.Max = id
	}
}

func countGeometry(g *csg.Geometry) (Counts, IDRange, IDRange, IDRange) {
	var c Counts
	var surfs, cells, univs IDRange

	for _, s := range g.Surfaces() {
		c.Surfaces++
		surfs.span(s.ID)
	}
	for _, cell := range g.Cells() {
		c.Cells++
		cells.span(cell.ID)
		if cell.Fill() == csg.FillMaterial || cell.Fill() == csg.FillDistribMaterial {
			c.Instances += cell.NumInstances
		}
	}
	// Universes and lattices share an id space.
	for _, u := range g.Universes() {
		c.Universes++
		univs.span(u.ID)
	}
	for _, l := range g.Lattices() {
		c.Lattices++
		univs.span(l.ID)
	}
	return c, surfs, cells, univs
}

func surfaceKinds(g *csg.Geometry) SurfaceKinds {
	k := SurfaceKinds{ByKind: map[string]int{}, ByBoundary: map[string]int{}}
	for _, s := range g.Surfaces() {
		k.ByKind[string(s.Kind)]++
		b := s.Boundary
		if b == "" {
			b = csg.Transmission
		}
		k.ByBoundary[string(b)]++
	}
	return k
}

func latticeInfo(g *csg.Geometry) []LatticeInfo {
	var out []LatticeInfo
	for _, l := range g.Lattices() {
		distinct := make(map[*csg.Universe]bool)
		for _, u := range l.Universes {
			distinct[u] = true
		}
		out = append(out, LatticeInfo{
			Name:      l.Name,
			Dimension: append([]int(nil), l.Dimension...),
			Pitch:     append([]float64(nil), l.Pitch...),
			Distinct:  len(distinct),
		})
	}
	return out
}

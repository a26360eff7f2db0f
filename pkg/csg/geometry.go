package csg

import (
	"fmt"
	"sort"
	"strings"

	"github.com/paulromano/ecp-benchmarks/pkg/material"
	"github.com/paulromano/ecp-benchmarks/pkg/registry"
)

// Geometry is the fill graph rooted at Root. Universes and lattices may be
// shared, so the graph is a DAG; fill cycles are rejected by CountInstances
// and AssignIDs.
type Geometry struct {
	Root *Universe
}

// NewGeometry wraps a root universe.
func NewGeometry(root *Universe) *Geometry {
	return &Geometry{Root: root}
}

// Universes returns every reachable universe, root first.
func (g *Geometry) Universes() []*Universe {
	var out []*Universe
	for _, n := range g.reachable() {
		if n.u != nil {
			out = append(out, n.u)
		}
	}
	return out
}

// Lattices returns every reachable lattice.
func (g *Geometry) Lattices() []*RectLattice {
	var out []*RectLattice
	for _, n := range g.reachable() {
		if n.l != nil {
			out = append(out, n.l)
		}
	}
	return out
}

// Cells returns every reachable cell once.
func (g *Geometry) Cells() []*Cell {
	seen := make(map[*Cell]bool)
	var out []*Cell
	for _, u := range g.Universes() {
		for _, c := range u.Cells {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

// MaterialCells returns cells filled by a material or a material list.
func (g *Geometry) MaterialCells() []*Cell {
	var out []*Cell
	for _, c := range g.Cells() {
		if c.kind == FillMaterial || c.kind == FillDistribMaterial {
			out = append(out, c)
		}
	}
	return out
}

// Materials returns every material used by a cell, once each, in
// first-use order.
func (g *Geometry) Materials() []*material.Material {
	seen := make(map[*material.Material]bool)
	var out []*material.Material
	add := func(m *material.Material) {
		if m != nil && !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	for _, c := range g.MaterialCells() {
		add(c.material)
		for _, m := range c.materials {
			add(m)
		}
	}
	return out
}

// Surfaces returns every surface referenced by a cell region, ordered by id.
func (g *Geometry) Surfaces() []*Surface {
	seen := make(map[*Surface]bool)
	var out []*Surface
	for _, c := range g.Cells() {
		for _, s := range SurfacesOf(c.Region) {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// BoundarySurfaces returns surfaces with a non-transmission boundary.
func (g *Geometry) BoundarySurfaces() []*Surface {
	var out []*Surface
	for _, s := range g.Surfaces() {
		if s.Boundary != "" && s.Boundary != Transmission {
			out = append(out, s)
		}
	}
	return out
}

// NameMatch controls name lookups. By default matching is a
// case-insensitive substring test.
type NameMatch struct {
	CaseSensitive bool
	Exact         bool
}

// Matches reports whether candidate matches name.
func (nm NameMatch) Matches(candidate, name string) bool {
	if !nm.CaseSensitive {
		candidate, name = strings.ToLower(candidate), strings.ToLower(name)
	}
	if nm.Exact {
		return candidate == name
	}
	return strings.Contains(candidate, name)
}

// CellsByName returns cells whose name matches.
func (g *Geometry) CellsByName(name string, nm NameMatch) []*Cell {
	var out []*Cell
	for _, c := range g.Cells() {
		if nm.Matches(c.Name, name) {
			out = append(out, c)
		}
	}
	return out
}

// MaterialsByName returns materials whose name matches.
func (g *Geometry) MaterialsByName(name string, nm NameMatch) []*material.Material {
	var out []*material.Material
	for _, m := range g.Materials() {
		if nm.Matches(m.Name, name) {
			out = append(out, m)
		}
	}
	return out
}

// CountInstances sets NumInstances on every reachable cell: the number of
// distinct paths from the root to the cell through universe and lattice
// fills. A lattice's outer universe counts once per lattice instance.
func (g *Geometry) CountInstances() error {
	if g.Root == nil {
		return nil
	}
	order, err := g.fillOrder()
	if err != nil {
		return err
	}
	for _, n := range order {
		if n.u != nil {
			for _, c := range n.u.Cells {
				c.NumInstances = 0
			}
		}
	}

	ucount := map[*Universe]int{g.Root: 1}
	lcount := make(map[*RectLattice]int)
	for _, n := range order {
		if n.l != nil {
			k := lcount[n.l]
			for _, u := range n.l.Universes {
				ucount[u] += k
			}
			if n.l.Outer != nil {
				ucount[n.l.Outer] += k
			}
			continue
		}
		k := ucount[n.u]
		for _, c := range n.u.Cells {
			c.NumInstances += k
			switch c.kind {
			case FillUniverse:
				ucount[c.universe] += k
			case FillLattice:
				lcount[c.lattice] += k
			}
		}
	}
	return nil
}

// MaxMaterialID returns the largest material id in use.
func (g *Geometry) MaxMaterialID() int {
	max := 0
	for _, m := range g.Materials() {
		if m.ID > max {
			max = m.ID
		}
	}
	return max
}

// AssignIDs gives every object still at id zero a fresh id. Existing ids are
// kept; two distinct objects sharing an id is an error. Universes and
// lattices share one id space.
func (g *Geometry) AssignIDs() error {
	surfIDs := registry.NewIDs("surface")
	matIDs := registry.NewIDs("material")
	cellIDs := registry.NewIDs("cell")
	univIDs := registry.NewIDs("universe")

	order, err := g.fillOrder()
	if err != nil {
		return err
	}
	surfaces := g.Surfaces()
	materials := g.Materials()
	cells := g.Cells()

	var pending []func()
	claim := func(ids *registry.IDs, item registry.Item, label string) error {
		if item.ItemID() == 0 {
			pending = append(pending, func() { item.AssignID(ids.Next()) })
			return nil
		}
		if err := ids.Reserve(item.ItemID()); err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
		return nil
	}

	for _, s := range surfaces {
		if err := claim(surfIDs, s, "surface "+s.Name); err != nil {
			return err
		}
	}
	for _, m := range materials {
		if err := claim(matIDs, m, "material "+m.Name); err != nil {
			return err
		}
	}
	for _, c := range cells {
		if err := claim(cellIDs, c, "cell "+c.Name); err != nil {
			return err
		}
	}
	for _, n := range order {
		var err error
		if n.l != nil {
			err = claim(univIDs, n.l, "lattice "+n.l.Name)
		} else {
			err = claim(univIDs, n.u, "universe "+n.u.Name)
		}
		if err != nil {
			return err
		}
	}
	for _, assign := range pending {
		assign()
	}
	return nil
}

package assembly

import (
	"errors"
	"fmt"

	"github.com/paulromano/ecp-benchmarks/pkg/csg"
	"github.com/paulromano/ecp-benchmarks/pkg/material"
)

var (
	// ErrMissingParam is returned when a required assembly parameter is unset.
	ErrMissingParam = errors.New("missing assembly parameter")
	// ErrGridOrder is returned when grid surfaces are not increasing z-planes
	// in bottom/top pairs.
	ErrGridOrder = errors.New("grid surfaces out of order")
)

// Sleeves are the grid sleeve materials. The first and last grids use
// TopBottom, the others Intermediate.
type Sleeves struct {
	TopBottom    *material.Material
	Intermediate *material.Material
}

// Params describes a pin lattice and the structure wrapped around it.
type Params struct {
	Name string

	// Dimension is the number of pins per side.
	Dimension int
	LowerLeft []float64
	Pitch     float64
	// Rows is the pin map expanded to lattice rows, top row first.
	Rows      [][]*csg.Universe

	// LatticeBox bounds the pin lattice; GridBox is the outside of the grid
	// sleeves and must enclose LatticeBox.
	LatticeBox csg.Prism
	GridBox    csg.Prism

	// GridPlanes are the bottom and top z-planes of each grid, bottom first.
	GridPlanes []*csg.Surface
	Sleeves    Sleeves
	Water      *material.Material
}

// Assembly is a built assembly.
type Assembly struct {
	Name     string
	Lattice  *csg.RectLattice
	Universe *csg.Universe
	// Bounding is the cell holding the lattice.
	Bounding *csg.Cell
	// Outer are the water and sleeve cells around the lattice box.
	Outer    []*csg.Cell
}

func (p *Params) missing() string {
	switch {
	case p.Dimension <= 0:
		return "dimension"
	case len(p.LowerLeft) != 2:
		return "lower_left"
	case p.Pitch <= 0:
		return "pitch"
	case len(p.Rows) == 0:
		return "pin map"
	case p.LatticeBox.XMin == nil || p.LatticeBox.XMax == nil || p.LatticeBox.YMin == nil || p.LatticeBox.YMax == nil:
		return "lattice box"
	case p.GridBox.XMin == nil || p.GridBox.XMax == nil || p.GridBox.YMin == nil || p.GridBox.YMax == nil:
		return "grid box"
	case len(p.GridPlanes) == 0:
		return "grid surfaces"
	case p.Sleeves.TopBottom == nil || p.Sleeves.Intermediate == nil:
		return "sleeve materials"
	case p.Water == nil:
		return "water"
	}
	return ""
}

// checkGrids enforces that grid planes are z-planes in strictly increasing
// order forming bottom/top pairs.
func (p *Params) checkGrids() error {
	if len(p.GridPlanes)%2 != 0 {
		return fmt.Errorf("assembly %q: %d grid surfaces do not form bottom/top pairs: %w", p.Name, len(p.GridPlanes), ErrGridOrder)
	}
	prev := 0.0
	for i, s := range p.GridPlanes {
		if s == nil || s.Kind != csg.ZPlane {
			return fmt.Errorf("assembly %q: grid surface %d is not a z-plane: %w", p.Name, i, ErrGridOrder)
		}
		z, _ := s.Offset()
		if i > 0 && z <= prev {
			return fmt.Errorf("assembly %q: grid surface %d at z=%g is not above z=%g: %w", p.Name, i, z, prev, ErrGridOrder)
		}
		prev = z
	}
	return nil
}

func (p *Params) checkBoxes() error {
	off := func(s *csg.Surface) float64 {
		v, _ := s.Offset()
		return v
	}
	lat, grid := p.LatticeBox, p.GridBox
	if off(grid.XMin) > off(lat.XMin) || off(grid.XMax) < off(lat.XMax) ||
		off(grid.YMin) > off(lat.YMin) || off(grid.YMax) < off(lat.YMax) {
		return fmt.Errorf("assembly %q: grid box does not enclose the lattice box", p.Name)
	}
	return nil
}

// Build creates the lattice, the bounding cell and the outer cells. The
// space outside the lattice box is split at every grid plane: grid sleeves
// and water inside each grid, water between grids, and water below the
// first and above the last grid plane.
func Build(p Params) (*Assembly, error) {
	if m := p.missing(); m != "" {
		return nil, fmt.Errorf("assembly %q requires %s: %w", p.Name, m, ErrMissingParam)
	}
	if err := p.checkGrids(); err != nil {
		return nil, err
	}
	if err := p.checkBoxes(); err != nil {
		return nil, err
	}
	if len(p.Rows) != p.Dimension {
		return nil, fmt.Errorf("assembly %q: pin map has %d rows for dimension %d: %w", p.Name, len(p.Rows), p.Dimension, csg.ErrDimension)
	}

	lat, err := csg.NewRectLattice(p.Name,
		[2]float64{p.LowerLeft[0], p.LowerLeft[1]},
		[2]float64{p.Pitch, p.Pitch}, p.Rows)
	if err != nil {
		return nil, fmt.Errorf("assembly %q: %w", p.Name, err)
	}
	if lat.Dimension[0] != p.Dimension {
		return nil, fmt.Errorf("assembly %q: pin map has %d columns for dimension %d: %w", p.Name, lat.Dimension[0], p.Dimension, csg.ErrDimension)
	}

	a := &Assembly{Name: p.Name, Lattice: lat}
	a.Bounding = csg.NewCell(p.Name+" lattice", p.LatticeBox.Inside()).FillLattice(lat)
	a.Universe = csg.NewUniverse(p.Name+" lattice", a.Bounding)

	add := func(label string, m *material.Material, r csg.Region) {
		c := csg.NewCell(p.Name+" "+label, r).FillMaterial(m)
		a.Outer = append(a.Outer, c)
		a.Universe.AddCell(c)
	}
	// surround adds four water cells outside box within the slab.
	surround := func(label string, box csg.Prism, slab csg.Region) {
		add(label+" south", p.Water, csg.And(box.YMin.Neg(), slab))
		add(label+" north", p.Water, csg.And(box.YMax.Pos(), slab))
		add(label+" east", p.Water, csg.And(box.XMax.Pos(), box.YMax.Neg(), box.YMin.Pos(), slab))
		add(label+" west", p.Water, csg.And(box.XMin.Neg(), box.YMax.Neg(), box.YMin.Pos(), slab))
	}

	planes := p.GridPlanes
	lb, gb := p.LatticeBox, p.GridBox

	// 1. Water below the first grid.
	surround("below grids", lb, planes[0].Neg())

	// 2. Segments between consecutive grid planes.
	ngrids := len(planes) / 2
	for i := 0; i+1 < len(planes); i++ {
		slab := csg.And(planes[i].Pos(), planes[i+1].Neg())
		if i%2 == 1 {
			surround(fmt.Sprintf("between grids %d", i/2+1), lb, slab)
			continue
		}
		grid := i/2 + 1
		sleeve := p.Sleeves.Intermediate
		if grid == 1 || grid == ngrids {
			sleeve = p.Sleeves.TopBottom
		}
		label := fmt.Sprintf("grid %d", grid)
		add(label+" sleeve south", sleeve, csg.And(lb.YMin.Neg(), gb.YMin.Pos(), gb.XMin.Pos(), gb.XMax.Neg(), slab))
		add(label+" sleeve north", sleeve, csg.And(gb.YMax.Neg(), lb.YMax.Pos(), gb.XMin.Pos(), gb.XMax.Neg(), slab))
		add(label+" sleeve west", sleeve, csg.And(lb.XMin.Neg(), gb.XMin.Pos(), lb.YMin.Pos(), lb.YMax.Neg(), slab))
		add(label+" sleeve east", sleeve, csg.And(gb.XMax.Neg(), lb.XMax.Pos(), lb.YMin.Pos(), lb.YMax.Neg(), slab))
		surround(label, gb, slab)
	}

	// 3. Water above the last grid.
	surround("above grids", lb, planes[len(planes)-1].Pos())

	return a, nil
}

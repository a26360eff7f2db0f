package csg

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulromano/ecp-benchmarks/pkg/geo"
)

// ErrDimension is returned when a lattice's universe array does not match
// its declared dimension.
var ErrDimension = errors.New("lattice dimension mismatch")

// RectLattice is a rectangular grid of universes. Universes are stored in
// solver order: z layers bottom to top, rows top to bottom, columns left to
// right.
type RectLattice struct {
	ID        int
	Name      string
	Pitch     []float64
	LowerLeft []float64
	Dimension []int // [nx, ny] or [nx, ny, nz]
	Universes []*Universe
	Outer     *Universe
}

// NewRectLattice builds a 2-D lattice from rows listed top to bottom.
func NewRectLattice(name string, lowerLeft, pitch [2]float64, rows [][]*Universe) (*RectLattice, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("lattice %q: no rows: %w", name, ErrDimension)
	}
	nx := len(rows[0])
	l := &RectLattice{
		Name:      name,
		Pitch:     pitch[:],
		LowerLeft: lowerLeft[:],
		Dimension: []int{nx, len(rows)},
	}
	for i, row := range rows {
		if len(row) != nx {
			return nil, fmt.Errorf("lattice %q: row %d has %d universes, want %d: %w", name, i, len(row), nx, ErrDimension)
		}
		l.Universes = append(l.Universes, row...)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// NewRectLattice3D builds a 3-D lattice from layers listed bottom to top,
// each with rows listed top to bottom.
func NewRectLattice3D(name string, lowerLeft, pitch [3]float64, layers [][][]*Universe) (*RectLattice, error) {
	if len(layers) == 0 || len(layers[0]) == 0 {
		return nil, fmt.Errorf("lattice %q: no layers: %w", name, ErrDimension)
	}
	ny, nx := len(layers[0]), len(layers[0][0])
	l := &RectLattice{
		Name:      name,
		Pitch:     pitch[:],
		LowerLeft: lowerLeft[:],
		Dimension: []int{nx, ny, len(layers)},
	}
	for k, layer := range layers {
		if len(layer) != ny {
			return nil, fmt.Errorf("lattice %q: layer %d has %d rows, want %d: %w", name, k, len(layer), ny, ErrDimension)
		}
		for i, row := range layer {
			if len(row) != nx {
				return nil, fmt.Errorf("lattice %q: layer %d row %d has %d universes, want %d: %w", name, k, i, len(row), nx, ErrDimension)
			}
			l.Universes = append(l.Universes, row...)
		}
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// ItemID implements registry.Item.
func (l *RectLattice) ItemID() int { return l.ID }

// AssignID implements registry.Item.
func (l *RectLattice) AssignID(id int) { l.ID = id }

// Size is the product of the dimension.
func (l *RectLattice) Size() int {
	n := 1
	for _, d := range l.Dimension {
		n *= d
	}
	return n
}

// Validate checks that the universe array matches the dimension.
func (l *RectLattice) Validate() error {
	nd := len(l.Dimension)
	if nd != 2 && nd != 3 {
		return fmt.Errorf("lattice %q: %d-D lattices are not supported: %w", l.Name, nd, ErrDimension)
	}
	if len(l.Pitch) != nd || len(l.LowerLeft) != nd {
		return fmt.Errorf("lattice %q: pitch and lower_left must have %d entries: %w", l.Name, nd, ErrDimension)
	}
	for _, d := range l.Dimension {
		if d <= 0 {
			return fmt.Errorf("lattice %q: dimension %v must be positive: %w", l.Name, l.Dimension, ErrDimension)
		}
	}
	if got := len(l.Universes); got != l.Size() {
		return fmt.Errorf("lattice %q: %d universes for dimension %v: %w", l.Name, got, l.Dimension, ErrDimension)
	}
	for i, u := range l.Universes {
		if u == nil {
			return fmt.Errorf("lattice %q: no universe at position %d: %w", l.Name, i, ErrDimension)
		}
	}
	return nil
}

// At returns the universe at column ix, row iy counted from the bottom, and
// layer iz.
func (l *RectLattice) At(ix, iy, iz int) *Universe {
	nx, ny := l.Dimension[0], l.Dimension[1]
	return l.Universes[iz*nx*ny+(ny-1-iy)*nx+ix]
}

// Bounds returns the box the lattice occupies. 2-D lattices are unbounded
// in z.
func (l *RectLattice) Bounds() geo.Box {
	b := geo.Box{
		Min: geo.V(l.LowerLeft[0], l.LowerLeft[1], math.Inf(-1)),
		Max: geo.V(
			l.LowerLeft[0]+float64(l.Dimension[0])*l.Pitch[0],
			l.LowerLeft[1]+float64(l.Dimension[1])*l.Pitch[1],
			math.Inf(1)),
	}
	if len(l.Dimension) == 3 {
		b.Min.Z = l.LowerLeft[2]
		b.Max.Z = l.LowerLeft[2] + float64(l.Dimension[2])*l.Pitch[2]
	}
	return b
}

// distinctUniverses returns the universes used by the lattice, including the
// outer universe, in first-use order.
func (l *RectLattice) distinctUniverses() []*Universe {
	seen := make(map[*Universe]bool)
	var out []*Universe
	for _, u := range l.Universes {
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	if l.Outer != nil && !seen[l.Outer] {
		out = append(out, l.Outer)
	}
	return out
}

package assembly

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/paulromano/ecp-benchmarks/pkg/csg"
)

// ErrStackOrder is returned for axial planes that are not distinct z-planes.
var ErrStackOrder = errors.New("axial stack planes out of order")

const planeTol = 1e-9

type level struct {
	plane *csg.Surface
	z     float64
	fill  *csg.Universe
	split bool
}

// Stack is an axial column of radial universes separated by z-planes.
type Stack struct {
	Name   string
	bottom *csg.Universe
	levels []level
}

// NewStack starts a stack whose lowest segment is filled with bottom.
func NewStack(name string, bottom *csg.Universe) *Stack {
	return &Stack{Name: name, bottom: bottom}
}

// Add fills the space above plane, up to the next plane, with u.
func (s *Stack) Add(plane *csg.Surface, u *csg.Universe) *Stack {
	s.levels = append(s.levels, level{plane: plane, fill: u})
	return s
}

// Split cuts the segments containing the given planes without changing their
// fill. Planes that coincide with a plane already in the stack are ignored.
func (s *Stack) Split(planes ...*csg.Surface) *Stack {
	for _, p := range planes {
		s.levels = append(s.levels, level{plane: p, split: true})
	}
	return s
}

// Build sorts the planes and returns a universe with one cell per segment.
func (s *Stack) Build() (*csg.Universe, error) {
	if s.bottom == nil {
		return nil, fmt.Errorf("stack %q: no bottom fill", s.Name)
	}

	primary := make([]level, 0, len(s.levels))
	var splits []level
	for _, l := range s.levels {
		z, ok := l.plane.Offset()
		if !ok || l.plane.Kind != csg.ZPlane {
			return nil, fmt.Errorf("stack %q: surface %q is a %s: %w", s.Name, l.plane.Name, l.plane.Kind, ErrStackOrder)
		}
		l.z = z
		if l.split {
			splits = append(splits, l)
			continue
		}
		if l.fill == nil {
			return nil, fmt.Errorf("stack %q: no fill above %q", s.Name, l.plane.Name)
		}
		primary = append(primary, l)
	}
	sort.SliceStable(primary, func(i, j int) bool { return primary[i].z < primary[j].z })
	for i := 1; i < len(primary); i++ {
		if primary[i].z-primary[i-1].z < planeTol {
			return nil, fmt.Errorf("stack %q: planes %q and %q coincide at z=%g: %w",
				s.Name, primary[i-1].plane.Name, primary[i].plane.Name, primary[i].z, ErrStackOrder)
		}
	}

	all := primary
	for _, sp := range splits {
		if !coincides(all, sp.z) {
			all = append(all, sp)
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].z < all[j].z })

	u := csg.NewUniverse(s.Name)
	fill := s.bottom
	var below *csg.Surface
	for i := 0; i <= len(all); i++ {
		var region csg.Region
		if below != nil {
			region = below.Pos()
		}
		if i < len(all) {
			region = csg.And(region, all[i].plane.Neg())
		}
		u.AddCell(csg.NewCell(fmt.Sprintf("%s axial %d", s.Name, i), region).FillUniverse(fill))
		if i < len(all) {
			below = all[i].plane
			if !all[i].split {
				fill = all[i].fill
			}
		}
	}
	return u, nil
}

func coincides(levels []level, z float64) bool {
	for _, l := range levels {
		if math.Abs(l.z-z) < planeTol {
			return true
		}
	}
	return false
}

// Subdivide registers n-1 z-planes splitting [lo, hi] into n equal slices.
// Planes are named prefix followed by their index.
func Subdivide(reg *csg.Surfaces, prefix string, lo, hi float64, n int) ([]*csg.Surface, error) {
	if n < 1 || hi <= lo {
		return nil, fmt.Errorf("subdivide %q: need n >= 1 and hi > lo, got n=%d [%g, %g]", prefix, n, lo, hi)
	}
	dz := (hi - lo) / float64(n)
	out := make([]*csg.Surface, 0, n-1)
	for i := 1; i < n; i++ {
		name := fmt.Sprintf("%s %d", prefix, i)
		s, err := reg.Get(name)
		if err != nil {
			if s, err = reg.Add(name, csg.NewZPlane(lo+float64(i)*dz).Named(name)); err != nil {
				return nil, err
			}
		}
		out = append(out, s)
	}
	return out, nil
}

package csg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulromano/ecp-benchmarks/pkg/registry"
)

// Kind identifies the surface equation.
type Kind string

const (
	XPlane    Kind = "x-plane"
	YPlane    Kind = "y-plane"
	ZPlane    Kind = "z-plane"
	Plane     Kind = "plane"
	XCylinder Kind = "x-cylinder"
	YCylinder Kind = "y-cylinder"
	ZCylinder Kind = "z-cylinder"
	Sphere    Kind = "sphere"
)

// coeffCount is the number of coefficients each kind takes.
var coeffCount = map[Kind]int{
	XPlane: 1, YPlane: 1, ZPlane: 1, Plane: 4,
	XCylinder: 3, YCylinder: 3, ZCylinder: 3, Sphere: 4,
}

// Boundary is the condition applied to particles crossing a surface.
type Boundary string

const (
	Transmission Boundary = "transmission"
	Reflective   Boundary = "reflective"
	Vacuum       Boundary = "vacuum"
	Periodic     Boundary = "periodic"
)

// Surface is a quadric surface. It is immutable once registered.
type Surface struct {
	ID       int       `json:"id"`
	Name     string    `json:"name,omitempty"`
	Kind     Kind      `json:"kind"`
	Coeffs   []float64 `json:"coeffs"`
	Boundary Boundary  `json:"boundary"`
}

func newSurface(kind Kind, coeffs ...float64) *Surface {
	return &Surface{Kind: kind, Coeffs: coeffs, Boundary: Transmission}
}

// NewXPlane returns the plane x = x0.
func NewXPlane(x0 float64) *Surface { return newSurface(XPlane, x0) }

// NewYPlane returns the plane y = y0.
func NewYPlane(y0 float64) *Surface { return newSurface(YPlane, y0) }

// NewZPlane returns the plane z = z0.
func NewZPlane(z0 float64) *Surface { return newSurface(ZPlane, z0) }

// NewPlane returns the plane Ax + By + Cz = D.
func NewPlane(a, b, c, d float64) *Surface { return newSurface(Plane, a, b, c, d) }

// NewZCylinder returns the infinite cylinder parallel to z centered on
// (x0, y0).
func NewZCylinder(x0, y0, r float64) *Surface { return newSurface(ZCylinder, x0, y0, r) }

// NewSphere returns the sphere of radius r centered on (x0, y0, z0).
func NewSphere(x0, y0, z0, r float64) *Surface { return newSurface(Sphere, x0, y0, z0, r) }

// NewSurface builds a surface from a kind and raw coefficients.
func NewSurface(kind Kind, coeffs []float64) (*Surface, error) {
	n, ok := coeffCount[kind]
	if !ok {
		return nil, fmt.Errorf("surface kind %q: %w", kind, registry.ErrNotFound)
	}
	if len(coeffs) != n {
		return nil, fmt.Errorf("surface kind %s takes %d coefficients, got %d", kind, n, len(coeffs))
	}
	return newSurface(kind, coeffs...), nil
}

// Named sets the surface name.
func (s *Surface) Named(name string) *Surface {
	s.Name = name
	return s
}

// WithBoundary sets the boundary condition.
func (s *Surface) WithBoundary(b Boundary) *Surface {
	s.Boundary = b
	return s
}

// ItemID implements registry.Item.
func (s *Surface) ItemID() int { return s.ID }

// AssignID implements registry.Item.
func (s *Surface) AssignID(id int) { s.ID = id }

// Pos is the positive half-space of s.
func (s *Surface) Pos() Halfspace { return Halfspace{Surface: s, Side: Positive} }

// Neg is the negative half-space of s.
func (s *Surface) Neg() Halfspace { return Halfspace{Surface: s, Side: Negative} }

// Offset returns the position of an axis-aligned plane and false for any
// other kind.
func (s *Surface) Offset() (float64, bool) {
	switch s.Kind {
	case XPlane, YPlane, ZPlane:
		return s.Coeffs[0], true
	}
	return 0, false
}

// Copy returns a surface with the same equation and no id.
func (s *Surface) Copy() *Surface {
	c := *s
	c.ID = 0
	c.Coeffs = append([]float64(nil), s.Coeffs...)
	return &c
}

// CoeffString formats the coefficients as the solver expects them.
func (s *Surface) CoeffString() string {
	parts := make([]string, len(s.Coeffs))
	for i, c := range s.Coeffs {
		parts[i] = strconv.FormatFloat(c, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

// Surfaces is the named surface registry.
type Surfaces = registry.Registry[*Surface]

// NewSurfaces creates a surface registry with its own id space.
func NewSurfaces() *Surfaces {
	return registry.New[*Surface]("surface", registry.NewIDs("surface"))
}

// CopySurface registers a copy of the surface named from under the name to.
func CopySurface(reg *Surfaces, from, to string) (*Surface, error) {
	src, err := reg.Get(from)
	if err != nil {
		return nil, err
	}
	return reg.Add(to, src.Copy().Named(to))
}

// Prism is the four planes bounding an axis-aligned rectangle in xy.
type Prism struct {
	XMin, XMax, YMin, YMax *Surface
}

// NewPrism builds a rectangle of the given width and height centered on
// (x0, y0). Each plane gets boundary b.
func NewPrism(width, height, x0, y0 float64, b Boundary) Prism {
	return Prism{
		XMin: NewXPlane(x0 - width/2).WithBoundary(b),
		XMax: NewXPlane(x0 + width/2).WithBoundary(b),
		YMin: NewYPlane(y0 - height/2).WithBoundary(b),
		YMax: NewYPlane(y0 + height/2).WithBoundary(b),
	}
}

// Inside is the region bounded by the prism.
func (p Prism) Inside() Region {
	return And(p.XMin.Pos(), p.XMax.Neg(), p.YMin.Pos(), p.YMax.Neg())
}

// Register adds the four planes to reg under prefix + " xmin" and so on.
func (p Prism) Register(reg *Surfaces, prefix string) error {
	for _, e := range []struct {
		suffix string
		s      *Surface
	}{{"xmin", p.XMin}, {"xmax", p.XMax}, {"ymin", p.YMin}, {"ymax", p.YMax}} {
		name := prefix + " " + e.suffix
		if _, err := reg.Add(name, e.s.Named(name)); err != nil {
			return err
		}
	}
	return nil
}

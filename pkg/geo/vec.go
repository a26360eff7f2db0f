package geo

import "math"

// Vec3 is a point or displacement in problem coordinates (cm).
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// V is a shorthand constructor for Vec3.
func V(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns p + q.
func (p Vec3) Add(q Vec3) Vec3 {
	return Vec3{p.X + q.X, p.Y + q.Y, p.Z + q.Z}
}

// Sub returns p - q.
func (p Vec3) Sub(q Vec3) Vec3 {
	return Vec3{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// Scale returns p * s.
func (p Vec3) Scale(s float64) Vec3 {
	return Vec3{p.X * s, p.Y * s, p.Z * s}
}

// Slice returns the coordinates as [x, y, z].
func (p Vec3) Slice() []float64 {
	return []float64{p.X, p.Y, p.Z}
}

// MidPoint returns the midpoint between p and q.
func MidPoint(p, q Vec3) Vec3 {
	return p.Add(q).Scale(0.5)
}

// Box is an axis-aligned box. Infinite extents are allowed.
type Box struct {
	Min Vec3 `json:"min" yaml:"min"`
	Max Vec3 `json:"max" yaml:"max"`
}

// InfiniteBox returns a box covering all of space.
func InfiniteBox() Box {
	inf := math.Inf(1)
	return Box{Min: V(-inf, -inf, -inf), Max: V(inf, inf, inf)}
}

// CenteredSquare returns a box of side width centered on the z axis between
// zlo and zhi.
func CenteredSquare(width, zlo, zhi float64) Box {
	h := width / 2
	return Box{Min: V(-h, -h, zlo), Max: V(h, h, zhi)}
}

// Width returns the extent along each axis.
func (b Box) Width() Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the box center.
func (b Box) Center() Vec3 {
	return MidPoint(b.Min, b.Max)
}

// Finite reports whether every bound is finite.
func (b Box) Finite() bool {
	for _, v := range append(b.Min.Slice(), b.Max.Slice()...) {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// Empty reports whether the box has no volume along some axis.
func (b Box) Empty() bool {
	return b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y || b.Max.Z <= b.Min.Z
}

// Intersect returns the overlap of b and o.
func (b Box) Intersect(o Box) Box {
	return Box{
		Min: V(math.Max(b.Min.X, o.Min.X), math.Max(b.Min.Y, o.Min.Y), math.Max(b.Min.Z, o.Min.Z)),
		Max: V(math.Min(b.Max.X, o.Max.X), math.Min(b.Max.Y, o.Max.Y), math.Min(b.Max.Z, o.Max.Z)),
	}
}

// Contains reports whether p lies inside b within tol.
func (b Box) Contains(p Vec3, tol float64) bool {
	return p.X >= b.Min.X-tol && p.X <= b.Max.X+tol &&
		p.Y >= b.Min.Y-tol && p.Y <= b.Max.Y+tol &&
		p.Z >= b.Min.Z-tol && p.Z <= b.Max.Z+tol
}

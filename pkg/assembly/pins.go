package assembly

import (
	"fmt"
	"math"

	"github.com/paulromano/ecp-benchmarks/pkg/csg"
	"github.com/paulromano/ecp-benchmarks/pkg/material"
)

// Layer is one annulus of a pin. It extends from the previous layer's outer
// surface to Outer; the last layer of a pin has no Outer.
type Layer struct {
	Name     string
	Outer    *csg.Surface
	Material *material.Material
}

// Grid is a spacer grid strap around a pin: everything outside Box is
// filled with Material.
type Grid struct {
	Label    string
	Box      csg.Prism
	Material *material.Material
}

// Pin builds a universe of concentric layers, innermost first. Each cell is
// named after the pin and its layer. With a grid, the outermost layer is
// clipped to the grid box and a strap cell fills the rest.
func Pin(name string, layers []Layer, grid *Grid) (*csg.Universe, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("pin %q: no layers", name)
	}
	u := csg.NewUniverse(name)
	var inner *csg.Surface
	for i, l := range layers {
		last := i == len(layers)-1
		if !last && l.Outer == nil {
			return nil, fmt.Errorf("pin %q: layer %q has no outer surface", name, l.Name)
		}
		if last && l.Outer != nil {
			return nil, fmt.Errorf("pin %q: outermost layer %q must be unbounded", name, l.Name)
		}

		var region csg.Region
		if inner != nil {
			region = inner.Pos()
		}
		if l.Outer != nil {
			region = csg.And(region, l.Outer.Neg())
		}
		if last && grid != nil {
			region = csg.And(region, grid.Box.Inside())
		}
		u.AddCell(csg.NewCell(name+" "+l.Name, region).FillMaterial(l.Material))
		inner = l.Outer
	}
	if grid != nil {
		u.AddCell(csg.NewCell(name+" "+grid.Label, csg.Not(grid.Box.Inside())).FillMaterial(grid.Material))
	}
	return u, nil
}

// RingRadii returns the n-1 inner boundaries that split a disc of radius r
// into n rings of equal area.
func RingRadii(r float64, n int) []float64 {
	out := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		out = append(out, r*math.Sqrt(float64(i)/float64(n)))
	}
	return out
}

// FuelRod describes a fuel rod: pellet, gas gap, and cladding in
// moderator.
type FuelRod struct {
	Pellet, CladIR, CladOR *csg.Surface
	Fuel, Gap, Clad, Water *material.Material

	// Rings is the number of equal-area fuel rings.
	Rings     int
	// RingLabel formats the layer name of ring i; the default is "(%d)".
	RingLabel string
}

// Layers returns the rod's layers, registering ring surfaces in reg the
// first time a ring count is used for a pellet radius.
func (f FuelRod) Layers(reg *csg.Surfaces) ([]Layer, error) {
	if f.Pellet == nil || f.CladIR == nil || f.CladOR == nil {
		return nil, fmt.Errorf("fuel rod: pellet, clad IR and clad OR surfaces are required")
	}
	if f.Rings < 1 {
		return nil, fmt.Errorf("fuel rod: rings must be at least 1, got %d", f.Rings)
	}
	label := f.RingLabel
	if label == "" {
		label = "(%d)"
	}
	r := f.Pellet.Coeffs[len(f.Pellet.Coeffs)-1]

	var layers []Layer
	for i, ri := range RingRadii(r, f.Rings) {
		name := fmt.Sprintf("%s ring %d/%d", f.Pellet.Name, i+1, f.Rings)
		s, err := reg.Get(name)
		if err != nil {
			s, err = reg.Add(name, csg.NewZCylinder(0, 0, ri).Named(name))
			if err != nil {
				return nil, err
			}
		}
		layers = append(layers, Layer{Name: fmt.Sprintf(label, i), Outer: s, Material: f.Fuel})
	}
	layers = append(layers,
		Layer{Name: fmt.Sprintf(label, f.Rings-1), Outer: f.Pellet, Material: f.Fuel},
		Layer{Name: "gap", Outer: f.CladIR, Material: f.Gap},
		Layer{Name: "clad", Outer: f.CladOR, Material: f.Clad},
		Layer{Name: "water", Material: f.Water},
	)
	return layers, nil
}

// Build returns the rod as a pin universe.
func (f FuelRod) Build(name string, reg *csg.Surfaces, grid *Grid) (*csg.Universe, error) {
	layers, err := f.Layers(reg)
	if err != nil {
		return nil, fmt.Errorf("pin %q: %w", name, err)
	}
	return Pin(name, layers, grid)
}

// Tube is a hollow tube filled and surrounded by Water.
func Tube(inner, outer *csg.Surface, water, wall *material.Material) []Layer {
	return []Layer{
		{Name: "inner water", Outer: inner, Material: water},
		{Name: "tube", Outer: outer, Material: wall},
		{Name: "outer water", Material: water},
	}
}

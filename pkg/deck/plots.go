package deck

import (
	"fmt"

	"github.com/paulromano/ecp-benchmarks/pkg/geo"
	"github.com/paulromano/ecp-benchmarks/pkg/material"
)

// Basis is the plane of a slice plot.
type Basis string

const (
	BasisXY Basis = "xy"
	BasisXZ Basis = "xz"
	BasisYZ Basis = "yz"
)

// RGB is a plot colour.
type RGB [3]int

func (c RGB) String() string { return fmt.Sprintf("%d %d %d", c[0], c[1], c[2]) }

// White is the default plot background.
var White = RGB{255, 255, 255}

// Color assigns a colour to a material.
type Color struct {
	Material *material.Material
	RGB      RGB
}

// Plot is a slice plot coloured by material.
type Plot struct {
	ID         int
	Name       string
	Filename   string
	Basis      Basis
	Origin     geo.Vec3
	Width      [2]float64
	Pixels     [2]int
	Background RGB
	Colors     []Color
}

// Validate checks the plot extents.
func (p *Plot) Validate() error {
	switch p.Basis {
	case BasisXY, BasisXZ, BasisYZ:
	default:
		return fmt.Errorf("plot %q: unknown basis %q", p.Name, p.Basis)
	}
	if p.Width[0] <= 0 || p.Width[1] <= 0 {
		return fmt.Errorf("plot %q: width %v must be positive", p.Name, p.Width)
	}
	if p.Pixels[0] <= 0 || p.Pixels[1] <= 0 {
		return fmt.Errorf("plot %q: pixels %v must be positive", p.Name, p.Pixels)
	}
	return nil
}

// Palette maps library material names to plot colours.
type Palette map[string]RGB

// Colors resolves the palette against materials by name. Differentiated
// copies keep their template's name and get its colour. Materials with no
// entry are coloured by the solver.
func (p Palette) Colors(mats []*material.Material) []Color {
	var out []Color
	for _, m := range mats {
		if c, ok := p[m.Name]; ok {
			out = append(out, Color{Material: m, RGB: c})
		}
	}
	return out
}

// MaterialPalette is the material colour table of the benchmark plots.
var MaterialPalette = Palette{
	material.Water:        {198, 226, 255},
	material.Inconel:      {101, 101, 101},
	material.CarbonSteel:  {0, 0, 0},
	material.Zircaloy:     {201, 201, 201},
	material.SS304:        {0, 0, 0},
	material.Air:          {255, 255, 255},
	material.Helium:       {255, 218, 185},
	material.Borosilicate: {0, 255, 0},
	material.AgInCd:       {255, 0, 0},

	material.FuelName(1.6): {142, 35, 35},
	material.FuelName(2.4): {255, 215, 0},
	material.FuelName(3.1): {0, 0, 128},
}

// Plots is the contents of plots.xml.
type Plots struct {
	Plots []*Plot
}

// Add appends plots.
func (p *Plots) Add(ps ...*Plot) {
	p.Plots = append(p.Plots, ps...)
}

func (p *Plots) assignIDs() {
	used := make(map[int]bool)
	for _, pl := range p.Plots {
		if pl.ID > 0 {
			used[pl.ID] = true
		}
	}
	n := 0
	for _, pl := range p.Plots {
		if pl.ID != 0 {
			continue
		}
		for n++; used[n]; n++ {
		}
		pl.ID = n
		used[n] = true
	}
}

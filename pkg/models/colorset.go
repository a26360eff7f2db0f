package models

import (
	"github.com/paulromano/ecp-benchmarks/pkg/csg"
	"github.com/paulromano/ecp-benchmarks/pkg/deck"
	"github.com/paulromano/ecp-benchmarks/pkg/depletion"
	"github.com/paulromano/ecp-benchmarks/pkg/differentiate"
	"github.com/paulromano/ecp-benchmarks/pkg/geo"
	"github.com/paulromano/ecp-benchmarks/pkg/material"
)

// Colorset assemblies: a low enrichment instrumented assembly diagonal to
// a high enrichment one with 20 burnable absorbers.
var (
	ColorsetLow  = Variant{Enrichment: 1.6, Instr: true}
	ColorsetHigh = Variant{Enrichment: 3.1, Instr: true, BA: "20BA"}
)

// Axial extent of the colorset slice (cm).
const (
	ColorsetBottom = 192.5
	ColorsetTop    = 197.5
	colorsetHeight = ColorsetTop - ColorsetBottom
)

func init() {
	register(Model{
		Name:        "2x2-periodic",
		Description: "2x2 assembly colorset slice, reflective on every side",
		geometry:    periodicGeometry,
		finish:      periodicFinish,
		preset: &preset{
			selector: func(*builder) differentiate.Selector {
				return differentiate.ByMaterialName("UO2 Fuel", csg.NameMatch{})
			},
			height: colorsetHeight,
			plan: depletion.Plan{
				Command:          []string{"mpirun", "openmc"},
				Particles:        120000,
				Batches:          20,
				Inactive:         10,
				Bounds:           geo.CenteredSquare(2*LatticeWidth, ColorsetBottom, ColorsetTop),
				EntropyDimension: [3]int{34, 34, 1},
				Power:            depletion.LinearPower(depletion.CASMORate, 17*17*2, 1.5, colorsetHeight),
				Steps:            depletion.UniformSteps(5*depletion.Day, 30*depletion.Day),
				OutputDir:        "depleted",
			},
		},
	})
	register(Model{
		Name:        "2x2-reflector",
		Description: "2x2 assembly colorset slice with a water reflector on two sides",
		geometry:    reflectorGeometry,
		finish:      reflectorFinish,
	})
}

// colorsetRows are the two assemblies on the diagonal, top row first.
func (b *builder) colorsetRows() ([][]*csg.Universe, error) {
	low, err := b.assembly2D(ColorsetLow)
	if err != nil {
		return nil, err
	}
	high, err := b.assembly2D(ColorsetHigh)
	if err != nil {
		return nil, err
	}
	return [][]*csg.Universe{{low, high}, {high, low}}, nil
}

// colorsetRoot bounds lat by a box with the given side boundaries and
// reflective z planes.
func colorsetRoot(b *builder, lat *csg.RectLattice, box csg.Prism) (*csg.Geometry, error) {
	if err := box.Register(b.surfs, "colorset box"); err != nil {
		return nil, err
	}
	bottom := csg.NewZPlane(ColorsetBottom).WithBoundary(csg.Reflective).Named("colorset bottom")
	top := csg.NewZPlane(ColorsetTop).WithBoundary(csg.Reflective).Named("colorset top")
	for _, s := range []*csg.Surface{bottom, top} {
		if _, err := b.surfs.Add(s.Name, s); err != nil {
			return nil, err
		}
	}
	root := csg.NewUniverse("root",
		csg.NewCell("colorset", csg.And(box.Inside(), bottom.Pos(), top.Neg())).FillLattice(lat))
	return csg.NewGeometry(root), nil
}

func periodicGeometry(b *builder) (*csg.Geometry, error) {
	rows, err := b.colorsetRows()
	if err != nil {
		return nil, err
	}
	lat, err := csg.NewRectLattice("colorset lattice",
		[2]float64{-LatticeWidth, -LatticeWidth},
		[2]float64{LatticeWidth, LatticeWidth}, rows)
	if err != nil {
		return nil, err
	}
	return colorsetRoot(b, lat, csg.NewPrism(2*LatticeWidth, 2*LatticeWidth, 0, 0, csg.Reflective))
}

// reflectorGeometry puts water below and to the right of the colorset.
// The fuel faces are reflective and the water faces vacuum.
func reflectorGeometry(b *builder) (*csg.Geometry, error) {
	rows, err := b.colorsetRows()
	if err != nil {
		return nil, err
	}
	w := b.solid("water", material.Water)
	rows = [][]*csg.Universe{
		append(rows[0], w),
		append(rows[1], w),
		{w, w, w},
	}
	side := 3 * LatticeWidth
	lat, err := csg.NewRectLattice("colorset lattice",
		[2]float64{-side / 2, -side / 2},
		[2]float64{LatticeWidth, LatticeWidth}, rows)
	if err != nil {
		return nil, err
	}

	box := csg.NewPrism(side, side, 0, 0, csg.Vacuum)
	box.XMin = box.XMin.WithBoundary(csg.Reflective)
	box.YMax = box.YMax.WithBoundary(csg.Reflective)
	return colorsetRoot(b, lat, box)
}

func colorsetSettings(b *builder, bounds geo.Box) *deck.Settings {
	return &deck.Settings{
		Batches:          100,
		Inactive:         10,
		Particles:        100000,
		Source:           deck.BoxSource(bounds),
		Output:           deck.Output{Tallies: deck.Bool(false)},
		Temperature:      b.temperature(),
		SourcePointWrite: deck.Bool(false),
		PTables:          true,
	}
}

func colorsetPlot(d *deck.Deck, bounds geo.Box) {
	w := bounds.Width()
	d.Plots = &deck.Plots{}
	d.Plots.Add(&deck.Plot{
		Name:       "colorset radial",
		Filename:   "colorset_radial",
		Basis:      deck.BasisXY,
		Origin:     bounds.Center(),
		Width:      [2]float64{w.X, w.Y},
		Pixels:     [2]int{2000, 2000},
		Background: deck.White,
		Colors:     deck.MaterialPalette.Colors(d.Geometry.Materials()),
	})
}

func periodicFinish(b *builder, d *deck.Deck) error {
	tallies, err := depletionTallies(b, d.Geometry)
	if err != nil {
		return err
	}
	d.Tallies = tallies
	bounds := geo.CenteredSquare(2*LatticeWidth, ColorsetBottom, ColorsetTop)
	d.Settings = colorsetSettings(b, bounds)
	colorsetPlot(d, bounds)
	return nil
}

// reflectorFinish adds pin-wise mesh tallies over the fuel quadrants and
// multigroup cross section libraries by fuel cell instance and by
// material.
func reflectorFinish(b *builder, d *deck.Deck) error {
	side := 3 * LatticeWidth
	bounds := geo.CenteredSquare(side, ColorsetBottom, ColorsetTop)
	d.Settings = colorsetSettings(b, bounds)

	d.Tallies = deck.MeshTallies(deck.PinMesh("assembly mesh",
		[3]float64{bounds.Min.X, bounds.Min.Y + LatticeWidth, ColorsetBottom},
		LatticeWidth/17, colorsetHeight, 34, 34))

	cells := deck.FuelCells(d.Geometry)
	for _, lib := range []deck.MGXSLibrary{
		{Domain: deck.DomainDistribcell, Cells: cells, Edges: deck.CASMO70},
		{Domain: deck.DomainMaterial, Edges: deck.CASMO70},
	} {
		t, err := lib.Tallies(d.Geometry)
		if err != nil {
			return err
		}
		d.Tallies.Merge(t)
	}
	colorsetPlot(d, bounds)
	return nil
}

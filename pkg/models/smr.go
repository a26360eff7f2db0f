package models

import (
	"fmt"
	"strings"

	"github.com/paulromano/ecp-benchmarks/pkg/csg"
	"github.com/paulromano/ecp-benchmarks/pkg/deck"
	"github.com/paulromano/ecp-benchmarks/pkg/depletion"
	"github.com/paulromano/ecp-benchmarks/pkg/differentiate"
	"github.com/paulromano/ecp-benchmarks/pkg/geo"
	"github.com/paulromano/ecp-benchmarks/pkg/material"
)

// SingleAssembly is the assembly of the single-assembly benchmark.
var SingleAssembly = Variant{Enrichment: 3.1, BA: "16BA"}

// coreLayout is the SMR loading pattern, top row first. Dots are water.
var coreLayout = []string{
	".........",
	"...aba...",
	"..abcba..",
	".abcdcba.",
	".bcdedcb.",
	".abcdcba.",
	"..abcba..",
	"...aba...",
	".........",
}

var coreVariants = map[byte]Variant{
	'a': {Enrichment: 3.1, Instr: true},
	'b': {Enrichment: 1.6, Bank: "SB"},
	'c': {Enrichment: 3.1, BA: "16BA"},
	'd': {Enrichment: 2.4, Bank: "D"},
	'e': {Enrichment: 1.6, Instr: true},
}

// CoreAssemblies is the number of fuel assemblies in the core.
const CoreAssemblies = 37

func init() {
	register(Model{
		Name:        "smr-assembly",
		Description: "single 3.1% SMR assembly with 16 burnable absorbers, reflective sides",
		geometry:    singleAssemblyGeometry,
		finish:      singleAssemblyFinish,
	})
	register(Model{
		Name:        "smr-core",
		Description: "37-assembly SMR core with barrel, neutron shield and pressure vessel",
		geometry:    coreGeometry,
		finish:      coreFinish,
		preset: &preset{
			selector: coreFuelCells,
			height:   200,
			axial:    true,
			plan: depletion.Plan{
				Command:          []string{"mpirun", "openmc"},
				Particles:        1000000,
				Batches:          200,
				Inactive:         100,
				Bounds:           activeBox(7 * LatticePitch),
				EntropyDimension: [3]int{15, 15, 1},
				Power:            depletion.LinearPower(depletion.CASMORate, 17*17*CoreAssemblies, 1.5, 200),
				Steps:            depletion.UniformSteps(5*depletion.Day, 30*depletion.Day),
				OutputDir:        "depleted",
			},
		},
	})
}

// activeBox is a square of the given width around the axis over the
// active fuel.
func activeBox(width float64) geo.Box {
	return geo.CenteredSquare(width, BottomFuelStack, TopActiveCore)
}

func (b *builder) bounds() (lower, upper *csg.Surface, err error) {
	lower, upper = b.s.Get("lower bound"), b.s.Get("upper bound")
	return lower, upper, b.err()
}

func singleAssemblyGeometry(b *builder) (*csg.Geometry, error) {
	a, err := b.assembly3D(SingleAssembly)
	if err != nil {
		return nil, err
	}
	box := csg.NewPrism(LatticePitch, LatticePitch, 0, 0, csg.Reflective)
	if err := box.Register(b.surfs, "assembly box"); err != nil {
		return nil, err
	}
	lower, upper, err := b.bounds()
	if err != nil {
		return nil, err
	}
	root := csg.NewUniverse("root",
		csg.NewCell("assembly", csg.And(box.Inside(), lower.Pos(), upper.Neg())).FillUniverse(a.Universe))
	return csg.NewGeometry(root), nil
}

func singleAssemblyFinish(b *builder, d *deck.Deck) error {
	tallies, err := depletionTallies(b, d.Geometry)
	if err != nil {
		return err
	}
	d.Tallies = tallies
	d.Settings = &deck.Settings{
		Batches:          200,
		Inactive:         100,
		Particles:        10000,
		Source:           deck.BoxSource(activeBox(LatticePitch)),
		Output:           deck.Output{Tallies: deck.Bool(false), Summary: deck.Bool(false)},
		Temperature:      b.temperature(),
		SourcePointWrite: deck.Bool(false),
	}

	colors := deck.MaterialPalette.Colors(d.Geometry.Materials())
	height := HighestExtent - LowestExtent
	d.Plots = &deck.Plots{}
	d.Plots.Add(
		&deck.Plot{
			Name:       "assembly radial",
			Filename:   "assembly_radial",
			Basis:      deck.BasisXY,
			Origin:     geo.V(0, 0, (BottomFuelStack+TopActiveCore)/2),
			Width:      [2]float64{LatticePitch, LatticePitch},
			Pixels:     [2]int{2000, 2000},
			Background: deck.White,
			Colors:     colors,
		},
		&deck.Plot{
			Name:       "assembly axial",
			Filename:   "assembly_axial",
			Basis:      deck.BasisXZ,
			Origin:     geo.V(0, 0, LowestExtent+height/2),
			Width:      [2]float64{LatticePitch, height},
			Pixels:     [2]int{500, int(500 * height / LatticePitch)},
			Background: deck.White,
			Colors:     colors,
		},
	)
	return nil
}

// coreLattice places the assemblies of the loading pattern at the
// assembly pitch, surrounded by water.
func (b *builder) coreLattice() (*csg.RectLattice, error) {
	water := b.solid("water", material.Water)
	rows := make([][]*csg.Universe, len(coreLayout))
	for i, line := range coreLayout {
		rows[i] = make([]*csg.Universe, len(line))
		for j := 0; j < len(line); j++ {
			if line[j] == '.' {
				rows[i][j] = water
				continue
			}
			v, ok := coreVariants[line[j]]
			if !ok {
				return nil, fmt.Errorf("core position (%d, %d): unknown assembly %q", i, j, line[j])
			}
			a, err := b.assembly3D(v)
			if err != nil {
				return nil, err
			}
			rows[i][j] = a.Universe
		}
	}
	n := float64(len(coreLayout))
	lat, err := csg.NewRectLattice("core lattice",
		[2]float64{-n * LatticePitch / 2, -n * LatticePitch / 2},
		[2]float64{LatticePitch, LatticePitch}, rows)
	if err != nil {
		return nil, err
	}
	lat.Outer = water
	return lat, nil
}

// shieldPanel is one of the eight 45 degree sectors between the barrel
// and the neutron shield outer radius.
type shieldPanel struct {
	name   string
	mat    string
	planes [2]string
	// pos gives the sense of each plane.
	pos [2]bool
}

const (
	shieldL1 = "neutron shield NWbot SEtop"
	shieldL2 = "neutron shield NWtop SEbot"
	shieldL3 = "neutron shield NEbot SWtop"
	shieldL4 = "neutron shield NEtop SWbot"
)

var shieldPanels = []shieldPanel{
	{"neutron shield panel NW", material.SS304, [2]string{shieldL1, shieldL2}, [2]bool{true, false}},
	{"neutron shield panel N", material.Water, [2]string{shieldL2, shieldL4}, [2]bool{true, false}},
	{"neutron shield panel SE", material.SS304, [2]string{shieldL1, shieldL2}, [2]bool{false, true}},
	{"neutron shield panel E", material.Water, [2]string{shieldL1, shieldL3}, [2]bool{true, true}},
	{"neutron shield panel NE", material.SS304, [2]string{shieldL3, shieldL4}, [2]bool{true, false}},
	{"neutron shield panel S", material.Water, [2]string{shieldL2, shieldL4}, [2]bool{false, true}},
	{"neutron shield panel SW", material.SS304, [2]string{shieldL3, shieldL4}, [2]bool{false, true}},
	{"neutron shield panel W", material.Water, [2]string{shieldL1, shieldL3}, [2]bool{false, false}},
}

func halfspace(s *csg.Surface, pos bool) csg.Region {
	if pos {
		return s.Pos()
	}
	return s.Neg()
}

func coreGeometry(b *builder) (*csg.Geometry, error) {
	lat, err := b.coreLattice()
	if err != nil {
		return nil, err
	}
	lower, upper, err := b.bounds()
	if err != nil {
		return nil, err
	}
	s := b.s.Get
	barrelIR, barrelOR := s("core barrel IR"), s("core barrel OR")
	shieldOR, rpvIR, rpvOR := s("neutron shield OR"), s("RPV IR"), s("RPV OR")
	if err := b.err(); err != nil {
		return nil, err
	}
	axial := func(r ...csg.Region) csg.Region {
		return csg.And(append(r, lower.Pos(), upper.Neg())...)
	}

	root := csg.NewUniverse("root",
		csg.NewCell("inside core barrel", axial(barrelIR.Neg())).FillLattice(lat),
		csg.NewCell("core barrel", axial(barrelIR.Pos(), barrelOR.Neg())).FillMaterial(b.m.Get(material.SS304)),
	)
	for _, p := range shieldPanels {
		a, c := s(p.planes[0]), s(p.planes[1])
		root.AddCell(csg.NewCell(p.name,
			axial(halfspace(a, p.pos[0]), halfspace(c, p.pos[1]), barrelOR.Pos(), shieldOR.Neg())).
			FillMaterial(b.m.Get(p.mat)))
	}
	root.AddCell(
		csg.NewCell("downcomer", axial(shieldOR.Pos(), rpvIR.Neg())).FillMaterial(b.water()),
		csg.NewCell("rpv", axial(rpvIR.Pos(), rpvOR.Neg())).FillMaterial(b.m.Get(material.CarbonSteel)),
	)
	if err := b.err(); err != nil {
		return nil, err
	}
	return csg.NewGeometry(root), nil
}

func coreFinish(b *builder, d *deck.Deck) error {
	box := activeBox(8 * LatticePitch)
	d.Settings = &deck.Settings{
		Batches:     350,
		Inactive:    250,
		Particles:   40000,
		Source:      deck.BoxSource(box),
		Entropy:     &deck.Entropy{Box: box, Dimension: [3]int{15 * 17, 15 * 17, 100}},
		Temperature: b.temperature(),
		Verbosity:   7,
	}

	width := 7 * LatticePitch
	d.Tallies = deck.MeshTallies(deck.PinMesh("core mesh",
		[3]float64{-width / 2, -width / 2, BottomFuelStack},
		LatticePitch/17, ActiveCoreHeight, 7*17, 7*17))

	d.Plots = &deck.Plots{}
	d.Plots.Add(corePlots(deck.MaterialPalette.Colors(d.Geometry.Materials()))...)
	return nil
}

// corePlots are a full-height slice through the central row and close-ups
// of the J8 and H8 assembly ends.
func corePlots(colors []deck.Color) []*deck.Plot {
	height := HighestExtent - LowestExtent
	window := 2.1 * (TopLowerNozzle - BottomSupportPlate)
	axialPixels := [2]int{4000, int(4000 * window / LatticePitch)}
	j8 := LatticePitch

	plot := func(name, file string, basis deck.Basis, origin geo.Vec3, width [2]float64, px [2]int) *deck.Plot {
		return &deck.Plot{
			Name: name, Filename: file, Basis: basis, Origin: origin,
			Width: width, Pixels: px, Background: deck.White, Colors: colors,
		}
	}
	return []*deck.Plot{
		plot("row 8 axial", "row_8_mats_axial", deck.BasisXZ,
			geo.V(0, 0, (HighestExtent-LowestExtent)/2), [2]float64{height, height}, [2]int{6000, 6000}),
		plot("mats J8 ax bot", "J8_mats_ax_bot", deck.BasisYZ,
			geo.V(0, j8, LowestExtent+window/2), [2]float64{LatticePitch, window}, axialPixels),
		plot("mats J8 ax top", "J8_mats_ax_top", deck.BasisYZ,
			geo.V(0, j8, HighestExtent-window/2), [2]float64{LatticePitch, window}, axialPixels),
		plot("mats J8 nozzle", "J8_mats_nozzle", deck.BasisXY,
			geo.V(0, j8, BottomSupportPlate+2), [2]float64{LatticePitch, LatticePitch}, [2]int{4000, 4000}),
		plot("mats H8 ax top", "H8_mats_ax_top", deck.BasisYZ,
			geo.V(0, 0, HighestExtent-window/2), [2]float64{LatticePitch, window}, axialPixels),
	}
}

// coreFuelCells selects every fuel ring cell of the core, strapped or
// not, by exact name.
func coreFuelCells(b *builder) differentiate.Selector {
	var names []string
	for _, enr := range material.Enrichments {
		for _, g := range []gridKind{noGrid, bottomGrid, intermediateGrid} {
			for i := 0; i < b.opts.Rings; i++ {
				names = append(names, fmt.Sprintf("%s%s (%d)", FuelPin(enr), gridSuffix[g], i))
			}
		}
	}
	b.logger.Sugar().Debugf("Depleting fuel cells %s", strings.Join(names, ", "))
	return differentiate.ByCellNames(csg.NameMatch{CaseSensitive: true, Exact: true}, names...)
}

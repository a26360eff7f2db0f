package models

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/paulromano/ecp-benchmarks/pkg/assembly"
	"github.com/paulromano/ecp-benchmarks/pkg/csg"
	"github.com/paulromano/ecp-benchmarks/pkg/material"
	"github.com/paulromano/ecp-benchmarks/pkg/registry"
)

// gridKind selects the spacer grid strap around a pin.
type gridKind int

const (
	noGrid gridKind = iota
	bottomGrid
	intermediateGrid
)

var gridSuffix = map[gridKind]string{
	noGrid:           "",
	bottomGrid:       " grid (bottom)",
	intermediateGrid: " grid (intermediate)",
}

// gridOf returns the strap of grid n, counted from 1 at the bottom.
func gridOf(n int) gridKind {
	if n == 1 {
		return bottomGrid
	}
	return intermediateGrid
}

// Radial pin names.
const (
	pinPlenum    = "plenum"
	pinEndPlug   = "end plug"
	pinGT        = "GT"
	pinGTDashpot = "GT dashpot"
	pinIT        = "GT instr"
	pinBA        = "burn abs"
	pinCR        = "control rod"
)

// FuelPin returns the radial pin name of a fuel rod. Its ring cells are
// named after it, so "Fuel (3.1%) (0)" is the innermost ring.
func FuelPin(enr float64) string {
	return fmt.Sprintf("Fuel (%.1f%%)", enr)
}

// builder holds the registries of one model build and caches every pin,
// column and assembly it creates so repeated references share universes.
type builder struct {
	opts   Options
	logger *zap.Logger

	surfs *csg.Surfaces
	mats  *material.Registry
	s     *registry.Resolver[*csg.Surface]
	m     *registry.Resolver[*material.Material]

	grids      map[gridKind]*assembly.Grid
	fuelSplits []*csg.Surface

	pins       map[string]*csg.Universe
	solids     map[string]*csg.Universe
	columns    map[string]*csg.Universe
	assemblies map[string]*assembly.Assembly
	lattices   map[string]*csg.Universe
}

func newBuilder(opts Options, logger *zap.Logger) (*builder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.normalize()
	surfs, err := smrSurfaces()
	if err != nil {
		return nil, fmt.Errorf("surfaces: %w", err)
	}
	mats, err := material.Library(opts.Depleted)
	if err != nil {
		return nil, fmt.Errorf("materials: %w", err)
	}
	b := &builder{
		opts:       opts,
		logger:     logger,
		surfs:      surfs,
		mats:       mats,
		s:          surfs.Resolver(),
		m:          mats.Resolver(),
		pins:       make(map[string]*csg.Universe),
		solids:     make(map[string]*csg.Universe),
		columns:    make(map[string]*csg.Universe),
		assemblies: make(map[string]*assembly.Assembly),
		lattices:   make(map[string]*csg.Universe),
	}

	tb, err := prism(surfs, "rod grid box tb")
	if err != nil {
		return nil, err
	}
	inter, err := prism(surfs, "rod grid box i")
	if err != nil {
		return nil, err
	}
	b.grids = map[gridKind]*assembly.Grid{
		bottomGrid:       {Label: "grid", Box: tb, Material: b.m.Get(material.Inconel)},
		intermediateGrid: {Label: "grid", Box: inter, Material: b.m.Get(material.Zircaloy)},
	}

	b.fuelSplits, err = assembly.Subdivide(surfs, "fuel axial", BottomFuelStack, TopActiveCore, opts.Axial)
	if err != nil {
		return nil, err
	}
	return b, b.err()
}

// err reports the first failed registry lookup.
func (b *builder) err() error {
	if err := b.s.Err(); err != nil {
		return err
	}
	return b.m.Err()
}

func (b *builder) water() *material.Material { return b.m.Get(material.Water) }

// layers returns the radial layers of a named pin.
func (b *builder) layers(name string) ([]assembly.Layer, error) {
	s, m := b.s.Get, b.m.Get
	water, zirc := b.water(), m(material.Zircaloy)

	var layers []assembly.Layer
	switch name {
	case pinPlenum:
		layers = []assembly.Layer{
			{Name: "spring", Outer: s("plenum spring OR"), Material: m(material.Inconel)},
			{Name: "gap", Outer: s("clad IR"), Material: m(material.Helium)},
			{Name: "clad", Outer: s("clad OR"), Material: zirc},
			{Name: "water", Material: water},
		}
	case pinEndPlug:
		layers = []assembly.Layer{
			{Name: "plug", Outer: s("clad OR"), Material: zirc},
			{Name: "water", Material: water},
		}
	case pinGT:
		layers = assembly.Tube(s("GT IR"), s("GT OR"), water, zirc)
	case pinGTDashpot:
		layers = assembly.Tube(s("GT dashpot IR"), s("GT dashpot OR"), water, zirc)
	case pinIT:
		layers = []assembly.Layer{
			{Name: "air", Outer: s("IT IR"), Material: m(material.Air)},
			{Name: "instr tube", Outer: s("IT OR"), Material: zirc},
			{Name: "inner water", Outer: s("GT IR"), Material: water},
			{Name: "tube", Outer: s("GT OR"), Material: zirc},
			{Name: "outer water", Material: water},
		}
	case pinBA:
		air, ss := m(material.Air), m(material.SS304)
		layers = []assembly.Layer{
			{Name: "air 1", Outer: s("BA IR 1"), Material: air},
			{Name: "inner clad", Outer: s("BA IR 2"), Material: ss},
			{Name: "air 2", Outer: s("BA IR 3"), Material: air},
			{Name: "absorber", Outer: s("BA IR 4"), Material: m(material.Borosilicate)},
			{Name: "air 3", Outer: s("BA IR 5"), Material: air},
			{Name: "outer clad", Outer: s("BA IR 6"), Material: ss},
			{Name: "inner water", Outer: s("BA IR 7"), Material: water},
			{Name: "tube", Outer: s("BA IR 8"), Material: zirc},
			{Name: "outer water", Material: water},
		}
	case pinCR:
		layers = []assembly.Layer{
			{Name: "poison", Outer: s("CP OR"), Material: m(material.AgInCd)},
			{Name: "gap", Outer: s("CR IR"), Material: m(material.Helium)},
			{Name: "clad", Outer: s("CR OR"), Material: m(material.SS304)},
			{Name: "inner water", Outer: s("GT IR"), Material: water},
			{Name: "tube", Outer: s("GT OR"), Material: zirc},
			{Name: "outer water", Material: water},
		}
	default:
		enr, ok := fuelEnrichment(name)
		if !ok {
			return nil, fmt.Errorf("pin %q: %w", name, registry.ErrNotFound)
		}
		rod := assembly.FuelRod{
			Pellet: s("pellet OR"),
			CladIR: s("clad IR"),
			CladOR: s("clad OR"),
			Fuel:   m(material.FuelName(enr)),
			Gap:    m(material.Helium),
			Clad:   zirc,
			Water:  water,
			Rings:  b.opts.Rings,
		}
		if err := b.err(); err != nil {
			return nil, err
		}
		return rod.Layers(b.surfs)
	}
	return layers, b.err()
}

func fuelEnrichment(name string) (float64, bool) {
	for _, enr := range material.Enrichments {
		if name == FuelPin(enr) {
			return enr, true
		}
	}
	return 0, false
}

// pin returns the radial universe of a pin, strapped by grid g.
func (b *builder) pin(name string, g gridKind) (*csg.Universe, error) {
	key := name + gridSuffix[g]
	if u, ok := b.pins[key]; ok {
		return u, nil
	}
	layers, err := b.layers(name)
	if err != nil {
		return nil, err
	}
	u, err := assembly.Pin(key, layers, b.grids[g])
	if err != nil {
		return nil, err
	}
	b.pins[key] = u
	return u, nil
}

// solid returns a universe filled entirely by the named library material.
func (b *builder) solid(name, mat string) *csg.Universe {
	if u, ok := b.solids[name]; ok {
		return u
	}
	u := csg.FilledWith(name, b.m.Get(mat))
	b.solids[name] = u
	return u
}

// segment is the fill above an axial plane: either a radial pin, which is
// strapped inside grids, or a solid.
type segment struct {
	plane string
	pin   string
	solid *csg.Universe
}

func (b *builder) lowerStructure() []segment {
	return []segment{
		{plane: "bot support plate", solid: b.solid("support plate", material.SS304)},
		{plane: "top support plate", solid: b.solid("lower nozzle", material.SS304)},
	}
}

func (b *builder) upperStructure() []segment {
	return []segment{
		{plane: "bot upper nozzle", solid: b.solid("upper nozzle", material.SS304)},
		{plane: "top upper nozzle", solid: b.solid("water", material.Water)},
	}
}

type event struct {
	plane *csg.Surface
	z     float64
	seg   *segment
	grid  gridKind
	// inGrid is the strap state after a grid plane.
	inGrid bool
}

// column builds an axial stack over water. Grid planes are added to every
// column and replace the pin in force by its strapped variant.
func (b *builder) column(name string, segs []segment, splits []*csg.Surface) (*csg.Universe, error) {
	if u, ok := b.columns[name]; ok {
		return u, nil
	}

	var events []event
	for i := range segs {
		p := b.s.Get(segs[i].plane)
		if p == nil {
			return nil, fmt.Errorf("column %q: %w", name, b.err())
		}
		z, _ := p.Offset()
		events = append(events, event{plane: p, z: z, seg: &segs[i]})
	}
	for i := range gridPlanes {
		n := i/2 + 1
		side := "bot"
		if i%2 == 1 {
			side = "top"
		}
		p := b.s.Get(gridName(n, side))
		if p == nil {
			return nil, fmt.Errorf("column %q: %w", name, b.err())
		}
		events = append(events, event{plane: p, z: gridPlanes[i], grid: gridOf(n), inGrid: side == "bot"})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].z < events[j].z })

	water := b.solid("water", material.Water)
	stack := assembly.NewStack(name, water)
	var cur *segment
	grid := noGrid
	for _, e := range events {
		if e.seg != nil {
			cur = e.seg
		} else if e.inGrid {
			grid = e.grid
		} else {
			grid = noGrid
		}

		fill := water
		switch {
		case cur == nil:
		case cur.solid != nil:
			fill = cur.solid
		default:
			u, err := b.pin(cur.pin, grid)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", name, err)
			}
			fill = u
		}
		stack.Add(e.plane, fill)
	}
	stack.Split(splits...)

	u, err := stack.Build()
	if err != nil {
		return nil, err
	}
	b.columns[name] = u
	return u, nil
}

func (b *builder) tubeColumn(name string, active ...segment) (*csg.Universe, error) {
	segs := append(b.lowerStructure(), active...)
	return b.column(name, append(segs, b.upperStructure()...), nil)
}

// fuelColumn is a fuel rod from the support plate to above the upper
// nozzle. The active fuel is cut at the axial subdivision planes.
func (b *builder) fuelColumn(enr float64) (*csg.Universe, error) {
	segs := append(b.lowerStructure(),
		segment{plane: "top lower nozzle", pin: pinEndPlug},
		segment{plane: "bot active core", pin: FuelPin(enr)},
		segment{plane: "top active core", pin: pinPlenum},
		segment{plane: "top pin plenum", pin: pinEndPlug},
		segment{plane: "top fuel rod", solid: b.solid("water", material.Water)},
	)
	segs = append(segs, b.upperStructure()...)
	return b.column(FuelPin(enr)+" stack", segs, b.fuelSplits)
}

// emptyTube is a guide tube with a dashpot at the bottom.
func (b *builder) emptyTube() (*csg.Universe, error) {
	return b.tubeColumn("GT empty stack",
		segment{plane: "top lower nozzle", pin: pinGTDashpot},
		segment{plane: "dashpot top", pin: pinGT})
}

// emptyInstrumentTube is the centre tube with no instrument.
func (b *builder) emptyInstrumentTube() (*csg.Universe, error) {
	return b.tubeColumn("GT empty stack instr",
		segment{plane: "top lower nozzle", pin: pinGT})
}

func (b *builder) instrumentTube() (*csg.Universe, error) {
	return b.tubeColumn("GT instr stack",
		segment{plane: "top lower nozzle", pin: pinIT})
}

// burnableAbsorber fills a guide tube with an absorber rod over the active
// fuel.
func (b *builder) burnableAbsorber() (*csg.Universe, error) {
	return b.tubeColumn("burn abs stack",
		segment{plane: "top lower nozzle", pin: pinGTDashpot},
		segment{plane: "burn abs bot", pin: pinBA},
		segment{plane: "top active core", pin: pinGT})
}

// controlRod is a guide tube with bank's rods inserted down to the bank
// position.
func (b *builder) controlRod(bank string) (*csg.Universe, error) {
	return b.tubeColumn("GT CR bank "+bank,
		segment{plane: "top lower nozzle", pin: pinGTDashpot},
		segment{plane: "dashpot top", pin: pinGT},
		segment{plane: "bank" + bank + " bot", pin: pinCR})
}

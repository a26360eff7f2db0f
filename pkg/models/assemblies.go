package models

import (
	"fmt"
	"strings"

	"github.com/paulromano/ecp-benchmarks/pkg/assembly"
	"github.com/paulromano/ecp-benchmarks/pkg/csg"
	"github.com/paulromano/ecp-benchmarks/pkg/material"
)

// Variant is one assembly type: its fuel, what sits in the guide tubes and
// what sits in the centre position.
type Variant struct {
	Enrichment float64
	// BA names a layout in assembly.BALayouts; empty for none.
	BA string
	// Bank inserts the named control rod bank into every guide tube that
	// holds no absorber.
	Bank  string
	Instr bool
}

// Name is the assembly name, e.g. "Assembly (3.1%) instr 16BA".
func (v Variant) Name() string {
	parts := []string{fmt.Sprintf("Assembly (%.1f%%)", v.Enrichment)}
	if v.Instr {
		parts = append(parts, "instr")
	}
	if v.BA != "" {
		parts = append(parts, v.BA)
	}
	if v.Bank != "" {
		if strings.HasPrefix(v.Bank, "S") {
			parts = append(parts, "shut"+v.Bank[1:])
		} else {
			parts = append(parts, "CR"+v.Bank)
		}
	}
	return strings.Join(parts, " ")
}

func (v Variant) check() error {
	if _, ok := fuelEnrichment(FuelPin(v.Enrichment)); !ok {
		return fmt.Errorf("assembly %q: no fuel at %.1f%%: %w", v.Name(), v.Enrichment, material.ErrInvalid)
	}
	if v.BA != "" {
		if _, ok := assembly.BALayouts[v.BA]; !ok {
			return fmt.Errorf("assembly %q: unknown BA layout %q", v.Name(), v.BA)
		}
	}
	return nil
}

// pinRows lays out the 17x17 map from the given fuel, tube, centre and
// absorber universes.
func (v Variant) pinRows(fuel, tube, center, ba *csg.Universe) ([][]*csg.Universe, error) {
	pm := assembly.Uniform(tube, center)
	if v.BA != "" {
		pm = pm.With(assembly.BALayouts[v.BA], ba)
	}
	return pm.Rows(fuel)
}

// assembly3D builds the full-height assembly with grids and the structure
// around the lattice box.
func (b *builder) assembly3D(v Variant) (*assembly.Assembly, error) {
	name := v.Name()
	if a, ok := b.assemblies[name]; ok {
		return a, nil
	}
	if err := v.check(); err != nil {
		return nil, err
	}

	fuel, err := b.fuelColumn(v.Enrichment)
	if err != nil {
		return nil, err
	}
	var tube, center, ba *csg.Universe
	if v.Bank != "" {
		tube, err = b.controlRod(v.Bank)
	} else {
		tube, err = b.emptyTube()
	}
	if err != nil {
		return nil, err
	}
	if v.Instr {
		center, err = b.instrumentTube()
	} else {
		center, err = b.emptyInstrumentTube()
	}
	if err != nil {
		return nil, err
	}
	if v.BA != "" {
		if ba, err = b.burnableAbsorber(); err != nil {
			return nil, err
		}
	}
	rows, err := v.pinRows(fuel, tube, center, ba)
	if err != nil {
		return nil, fmt.Errorf("assembly %q: %w", name, err)
	}

	latBox, err := prism(b.surfs, "lat box")
	if err != nil {
		return nil, err
	}
	gridBox, err := prism(b.surfs, "lat grid box")
	if err != nil {
		return nil, err
	}
	var planes []*csg.Surface
	for n := 1; n <= len(gridPlanes)/2; n++ {
		planes = append(planes, b.s.Get(gridName(n, "bot")), b.s.Get(gridName(n, "top")))
	}
	if err := b.err(); err != nil {
		return nil, err
	}

	a, err := assembly.Build(assembly.Params{
		Name:       name,
		Dimension:  assembly.Size,
		LowerLeft:  []float64{-LatticeWidth / 2, -LatticeWidth / 2},
		Pitch:      PinPitch,
		Rows:       rows,
		LatticeBox: latBox,
		GridBox:    gridBox,
		GridPlanes: planes,
		Sleeves: assembly.Sleeves{
			TopBottom:    b.m.Get(material.SS304),
			Intermediate: b.m.Get(material.Zircaloy),
		},
		Water: b.water(),
	})
	if err != nil {
		return nil, err
	}
	b.assemblies[name] = a
	return a, nil
}

// assembly2D builds a radial slice of the assembly between grids: a 17x17
// lattice of unstrapped pins wrapped in a universe, with no structure
// around it.
func (b *builder) assembly2D(v Variant) (*csg.Universe, error) {
	name := v.Name()
	if u, ok := b.lattices[name]; ok {
		return u, nil
	}
	if err := v.check(); err != nil {
		return nil, err
	}

	fuel, err := b.pin(FuelPin(v.Enrichment), noGrid)
	if err != nil {
		return nil, err
	}
	tubeName, centerName := pinGT, pinGT
	if v.Bank != "" {
		tubeName = pinCR
	}
	if v.Instr {
		centerName = pinIT
	}
	tube, err := b.pin(tubeName, noGrid)
	if err != nil {
		return nil, err
	}
	center, err := b.pin(centerName, noGrid)
	if err != nil {
		return nil, err
	}
	var ba *csg.Universe
	if v.BA != "" {
		if ba, err = b.pin(pinBA, noGrid); err != nil {
			return nil, err
		}
	}
	rows, err := v.pinRows(fuel, tube, center, ba)
	if err != nil {
		return nil, fmt.Errorf("assembly %q: %w", name, err)
	}

	lat, err := csg.NewRectLattice(name,
		[2]float64{-LatticeWidth / 2, -LatticeWidth / 2},
		[2]float64{PinPitch, PinPitch}, rows)
	if err != nil {
		return nil, err
	}
	u := csg.NewUniverse(name+" universe", csg.NewCell(name+" cell", nil).FillLattice(lat))
	b.lattices[name] = u
	return u, nil
}

package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/paulromano/ecp-benchmarks/pkg/csg"
	"github.com/paulromano/ecp-benchmarks/pkg/deck"
	"github.com/paulromano/ecp-benchmarks/pkg/geo"
	"github.com/paulromano/ecp-benchmarks/pkg/material"
)

// testDeck is a 2x2 pin lattice with per-instance fuel, an outer universe
// and a complemented region, so every fill kind is written.
func testDeck(t *testing.T) *deck.Deck {
	t.Helper()
	fuel := material.UO2(material.FuelName(3.1), 3.1, 10.30166)
	water, err := material.BoratedWater(material.Water, 975, 0.740582)
	require.NoError(t, err)
	clad := material.New("clad", 6.55, material.GramsPerCC).AddNuclide("Zr90", 100, material.AtomPercent)

	pellet := csg.NewZCylinder(0, 0, 0.39218).Named("pellet")
	cladOR := csg.NewZCylinder(0, 0, 0.4572).Named("clad OR")
	fuelCell := csg.NewCell("fuel", pellet.Neg()).FillMaterial(fuel)
	pin := csg.NewUniverse("pin",
		fuelCell,
		csg.NewCell("gap", csg.And(pellet.Pos(), csg.NewZCylinder(0, 0, 0.40005).Neg())),
		csg.NewCell("clad", csg.And(csg.NewZCylinder(0, 0, 0.40005).Pos(), cladOR.Neg())).FillMaterial(clad),
		csg.NewCell("water", csg.Not(cladOR.Neg())).FillMaterial(water),
	)
	outer := csg.FilledWith("outer water", water)

	lat, err := csg.NewRectLattice("lattice", [2]float64{-1.25984, -1.25984}, [2]float64{1.25984, 1.25984},
		[][]*csg.Universe{{pin, pin}, {pin, pin}})
	require.NoError(t, err)
	lat.Outer = outer

	box := csg.NewPrism(2*1.25984, 2*1.25984, 0, 0, csg.Reflective)
	lower := csg.NewZPlane(0).WithBoundary(csg.Vacuum)
	upper := csg.NewZPlane(10).WithBoundary(csg.Vacuum)
	root := csg.NewUniverse("root", csg.NewCell("root", csg.And(box.Inside(), lower.Pos(), upper.Neg())).FillLattice(lat))
	g := csg.NewGeometry(root)

	g.CountInstances()
	clones := make([]*material.Material, fuelCell.NumInstances)
	for i := range clones {
		clones[i] = fuel.Clone()
		clones[i].Volume = 0.48
		clones[i].Depletable = true
		clones[i].Temperature = 300
	}
	fuelCell.FillMaterials(clones)

	tallies, err := deck.DepletionTallies(g, deck.ModeMaterial)
	require.NoError(t, err)
	tallies.Merge(deck.MeshTallies(deck.PinMesh("mesh", [3]float64{-1.25984, -1.25984, 0}, 1.25984, 10, 2, 2)))

	plots := &deck.Plots{}
	plots.Add(&deck.Plot{
		Name: "xy", Filename: "xy", Basis: deck.BasisXY, Origin: geo.V(0, 0, 5),
		Width: [2]float64{2.52, 2.52}, Pixels: [2]int{100, 100},
		Colors: deck.MaterialPalette.Colors(g.Materials()),
	})

	return &deck.Deck{
		Name:     "pins",
		Geometry: g,
		Settings: &deck.Settings{
			Batches:          20,
			Inactive:         10,
			Particles:        1000,
			Source:           deck.BoxSource(geo.CenteredSquare(2.52, 0, 10)),
			Entropy:          &deck.Entropy{Box: geo.CenteredSquare(2.52, 0, 10), Dimension: [3]int{2, 2, 1}},
			Output:           deck.Output{Tallies: deck.Bool(false), Summary: deck.Bool(false)},
			Temperature:      deck.Multipole(1000),
			SourcePointWrite: deck.Bool(false),
		},
		Tallies: tallies,
		Plots:   plots,
	}
}

type matDef struct {
	Name        string
	Density     float64
	Units       material.DensityUnits
	Volume      float64
	Temperature float64
	Depletable  bool
	Nuclides    []material.Nuclide
	SAB         []string
}

func matDefs(ms []*material.Material) map[int]matDef {
	out := make(map[int]matDef, len(ms))
	for _, m := range ms {
		out[m.ID] = matDef{
			Name: m.Name, Density: m.Density, Units: m.Units,
			Volume: m.Volume, Temperature: m.Temperature, Depletable: m.Depletable,
			Nuclides: m.Nuclides(), SAB: m.SAlphaBeta(),
		}
	}
	return out
}

type geomDef struct {
	Surfaces map[int]string
	Cells    map[int]string
	Lattices map[int]string
}

// geomDefs flattens a geometry into id-keyed descriptions. Universe names
// are not part of the file format and are left out.
func geomDefs(g *csg.Geometry) geomDef {
	d := geomDef{Surfaces: map[int]string{}, Cells: map[int]string{}, Lattices: map[int]string{}}
	for _, s := range g.Surfaces() {
		d.Surfaces[s.ID] = fmt.Sprintf("%s %s %s [%s]", s.Name, s.Kind, s.Boundary, s.CoeffString())
	}
	for _, u := range g.Universes() {
		for _, c := range u.Cells {
			fill := c.Fill().String()
			switch c.Fill() {
			case csg.FillMaterial:
				fill += fmt.Sprint(" ", c.Material().ID)
			case csg.FillDistribMaterial:
				for _, m := range c.Materials() {
					fill += fmt.Sprint(" ", m.ID)
				}
			case csg.FillUniverse:
				fill += fmt.Sprint(" ", c.Universe().ID)
			case csg.FillLattice:
				fill += fmt.Sprint(" ", c.Lattice().ID)
			}
			region := ""
			if c.Region != nil {
				region = c.Region.String()
			}
			d.Cells[c.ID] = fmt.Sprintf("%s u=%d fill=%s region=%q", c.Name, u.ID, fill, region)
		}
	}
	for _, l := range g.Lattices() {
		ids := make([]int, len(l.Universes))
		for i, u := range l.Universes {
			ids[i] = u.ID
		}
		outer := 0
		if l.Outer != nil {
			outer = l.Outer.ID
		}
		d.Lattices[l.ID] = fmt.Sprintf("%s %v %v %v %v outer=%d", l.Name, l.Dimension, l.Pitch, l.LowerLeft, ids, outer)
	}
	return d
}

func TestRoundTrip(t *testing.T) {
	d := testDeck(t)
	files, err := Render(d)
	require.NoError(t, err)

	mats, err := ReadMaterials(bytes.NewReader(files[MaterialsFile]))
	require.NoError(t, err)
	if diff := cmp.Diff(matDefs(d.Materials()), matDefs(mats)); diff != "" {
		t.Errorf("materials mismatch (-want +got):\n%s", diff)
	}

	g, err := ReadGeometry(bytes.NewReader(files[GeometryFile]), mats)
	require.NoError(t, err)
	if diff := cmp.Diff(geomDefs(d.Geometry), geomDefs(g)); diff != "" {
		t.Errorf("geometry mismatch (-want +got):\n%s", diff)
	}

	g.CountInstances()
	fuel := g.CellsByName("fuel", csg.NameMatch{Exact: true})
	require.Len(t, fuel, 1)
	assert.Equal(t, 4, fuel[0].NumInstances)
	assert.Len(t, fuel[0].Materials(), 4)
}

func TestGeometryXML(t *testing.T) {
	d := testDeck(t)
	files, err := Render(d)
	require.NoError(t, err)
	geom := string(files[GeometryFile])

	assert.Contains(t, geom, `boundary="reflective"`)
	assert.Contains(t, geom, `boundary="vacuum"`)
	assert.NotContains(t, geom, `boundary="transmission"`)
	assert.Contains(t, geom, `material="void"`)
	assert.Contains(t, geom, "<outer>")

	// The distributed fill lists one material id per instance.
	fuel := d.Geometry.CellsByName("fuel", csg.NameMatch{Exact: true})[0]
	var ids []string
	for _, m := range fuel.Materials() {
		ids = append(ids, fmt.Sprint(m.ID))
	}
	assert.Contains(t, geom, fmt.Sprintf(`material="%s"`, strings.Join(ids, " ")))
}

func TestSettingsXML(t *testing.T) {
	files, err := Render(testDeck(t))
	require.NoError(t, err)
	s := string(files[SettingsFile])

	for _, want := range []string{
		"<run_mode>eigenvalue</run_mode>",
		"<particles>1000</particles>",
		"<batches>20</batches>",
		"<inactive>10</inactive>",
		`<space type="fission">`,
		"<parameters>-1.26 -1.26 0 1.26 1.26 10</parameters>",
		"<tallies>false</tallies>",
		"<summary>false</summary>",
		"<write>false</write>",
		"<temperature_multipole>true</temperature_multipole>",
		"<temperature_tolerance>1000</temperature_tolerance>",
		"<entropy_mesh>1</entropy_mesh>",
		"<dimension>2 2 1</dimension>",
	} {
		assert.Contains(t, s, want)
	}
	assert.NotContains(t, s, "<ptables>")
}

func TestTalliesXML(t *testing.T) {
	files, err := Render(testDeck(t))
	require.NoError(t, err)
	tl := string(files[TalliesFile])

	assert.Contains(t, tl, `<tally id="1" name="depletion tally">`)
	assert.Contains(t, tl, "<scores>(n,p) (n,a) (n,gamma) fission (n,2n) (n,3n) (n,4n)</scores>")
	assert.Contains(t, tl, `<filter id="1" type="material">`)
	assert.Contains(t, tl, `<mesh id="1" name="mesh" type="regular">`)
	assert.Contains(t, tl, "<width>1.25984 1.25984 10</width>")
	// The mesh filter is shared by both mesh tallies.
	assert.Equal(t, 1, strings.Count(tl, `type="mesh"`))
	assert.Equal(t, 2, strings.Count(tl, "<filters>2</filters>"))
}

func TestPlotsXML(t *testing.T) {
	files, err := Render(testDeck(t))
	require.NoError(t, err)
	p := string(files[PlotsFile])

	assert.Contains(t, p, `basis="xy"`)
	assert.Contains(t, p, `color_by="material"`)
	assert.Contains(t, p, "<background>255 255 255</background>")
	assert.Contains(t, p, `rgb="198 226 255"`)
	assert.Contains(t, p, `rgb="0 0 128"`)
}

func TestWrite(t *testing.T) {
	defer goleak.VerifyNone(t)
	dir := filepath.Join(t.TempDir(), "deck")
	paths, err := Write(context.Background(), dir, testDeck(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Len(t, paths, 5)

	for _, p := range paths {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "<?xml"), p)
	}
}

func TestWriteSkipsEmptyParts(t *testing.T) {
	d := testDeck(t)
	d.Tallies = nil
	d.Plots = &deck.Plots{}
	paths, err := Write(context.Background(), t.TempDir(), d, nil)
	require.NoError(t, err)
	assert.Len(t, paths, 3)
}

func TestWriteCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Write(ctx, t.TempDir(), testDeck(t), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadGeometryErrors(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{"unknown surface kind", `<geometry><surface id="1" type="torus" coeffs="1"/></geometry>`},
		{"bad region", `<geometry><cell id="1" universe="1" material="void" region="-7"/></geometry>`},
		{"unknown material", `<geometry><cell id="1" universe="1" material="9"/></geometry>`},
		{"fill conflict", `<geometry><cell id="1" universe="1" material="1" fill="2"/><cell id="2" universe="2" material="void"/></geometry>`},
		{"two roots", `<geometry><cell id="1" universe="1" material="void"/><cell id="2" universe="2" material="void"/></geometry>`},
		{"lattice size", `<geometry><cell id="1" universe="1" fill="3"/><cell id="2" universe="2" material="void"/>` +
			`<lattice id="3"><pitch>1 1</pitch><dimension>2 2</dimension><lower_left>0 0</lower_left><universes>2 2 2</universes></lattice></geometry>`},
	}
	mats := []*material.Material{{ID: 1, Name: "m"}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGeometry(strings.NewReader(tt.xml), mats)
			assert.Error(t, err)
		})
	}
}

func TestReadGeometryRoot(t *testing.T) {
	_, err := ReadGeometry(strings.NewReader(`<geometry><cell id="1" universe="1" material="void"/><cell id="2" universe="2" material="void"/></geometry>`), nil)
	assert.ErrorIs(t, err, ErrRoot)
}

func TestReadSingleInstanceList(t *testing.T) {
	fuel := material.UO2(material.FuelName(1.6), 1.6, 10.31)
	sphere := csg.NewSphere(0, 0, 0, 1).WithBoundary(csg.Vacuum)
	cell := csg.NewCell("pellet", sphere.Neg()).FillMaterials([]*material.Material{fuel})
	g := csg.NewGeometry(csg.NewUniverse("root", cell))
	require.NoError(t, g.AssignIDs())

	var buf bytes.Buffer
	require.NoError(t, WriteGeometry(&buf, g))
	assert.Contains(t, buf.String(), fmt.Sprintf(`material="%d"`, fuel.ID))

	read, err := ReadGeometry(&buf, []*material.Material{fuel})
	require.NoError(t, err)
	require.NoError(t, read.CountInstances())
	cells := read.CellsByName("pellet", csg.NameMatch{Exact: true})
	require.Len(t, cells, 1)
	assert.Equal(t, csg.FillMaterial, cells[0].Fill())
	assert.Same(t, fuel, cells[0].Material())
	assert.Equal(t, 1, cells[0].NumInstances)
}

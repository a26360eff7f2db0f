package deck

import (
	"errors"
	"fmt"

	"github.com/paulromano/ecp-benchmarks/pkg/csg"
	"github.com/paulromano/ecp-benchmarks/pkg/material"
)

// ErrNoFuel is returned when a tally needs fuel and the geometry has none.
var ErrNoFuel = errors.New("geometry has no fuel")

// TallyMode selects how depletion reaction rates are resolved per instance.
type TallyMode string

const (
	// ModeMaterial differentiates fuel into one material per instance and
	// tallies with a material filter.
	ModeMaterial TallyMode = "mat"
	// ModeCell keeps shared fuel materials and tallies each fuel cell with a
	// distribcell filter.
	ModeCell TallyMode = "cell"
)

// ParseTallyMode accepts "mat" or "cell".
func ParseTallyMode(s string) (TallyMode, error) {
	switch TallyMode(s) {
	case ModeMaterial, ModeCell:
		return TallyMode(s), nil
	}
	return "", fmt.Errorf("tally mode %q: want %q or %q", s, ModeMaterial, ModeCell)
}

// FilterKind is the kind of a tally filter.
type FilterKind string

const (
	FilterMaterial    FilterKind = "material"
	FilterCell        FilterKind = "cell"
	FilterDistribcell FilterKind = "distribcell"
	FilterMesh        FilterKind = "mesh"
	FilterEnergy      FilterKind = "energy"
	FilterEnergyOut   FilterKind = "energyout"
)

// Filter restricts a tally to part of phase space. Which field is used
// depends on Kind.
type Filter struct {
	ID   int
	Kind FilterKind

	Materials []*material.Material
	Cells     []*csg.Cell
	Mesh      *Mesh
	// Energies are group edges in eV, ascending.
	Energies []float64
}

// Bins returns the filter bins as solver ids or values.
func (f *Filter) Bins() []float64 {
	var out []float64
	switch f.Kind {
	case FilterMaterial:
		for _, m := range f.Materials {
			out = append(out, float64(m.ID))
		}
	case FilterCell, FilterDistribcell:
		for _, c := range f.Cells {
			out = append(out, float64(c.ID))
		}
	case FilterMesh:
		if f.Mesh != nil {
			out = append(out, float64(f.Mesh.ID))
		}
	case FilterEnergy, FilterEnergyOut:
		out = append(out, f.Energies...)
	}
	return out
}

// Mesh is a regular Cartesian tally mesh.
type Mesh struct {
	ID        int
	Name      string
	Dimension []int
	LowerLeft []float64
	Width     []float64
}

// Tally is a set of scores accumulated over the product of its filters.
type Tally struct {
	ID       int
	Name     string
	Filters  []*Filter
	Nuclides []string
	Scores   []string
}

// Tallies is the contents of tallies.xml.
type Tallies struct {
	Tallies []*Tally
}

// Add appends tallies.
func (t *Tallies) Add(ts ...*Tally) {
	t.Tallies = append(t.Tallies, ts...)
}

// Merge appends the tallies of o.
func (t *Tallies) Merge(o *Tallies) {
	if o != nil {
		t.Add(o.Tallies...)
	}
}

// Filters returns every distinct filter in tally order.
func (t *Tallies) Filters() []*Filter {
	seen := make(map[*Filter]bool)
	var out []*Filter
	for _, tl := range t.Tallies {
		for _, f := range tl.Filters {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}

// Meshes returns every distinct mesh referenced by a filter.
func (t *Tallies) Meshes() []*Mesh {
	seen := make(map[*Mesh]bool)
	var out []*Mesh
	for _, f := range t.Filters() {
		if f.Mesh != nil && !seen[f.Mesh] {
			seen[f.Mesh] = true
			out = append(out, f.Mesh)
		}
	}
	return out
}

// assignIDs numbers tallies, filters and meshes from 1 in order, keeping
// ids already set.
func (t *Tallies) assignIDs() {
	next := func(used map[int]bool) func() int {
		n := 0
		return func() int {
			for {
				n++
				if !used[n] {
					used[n] = true
					return n
				}
			}
		}
	}

	meshes := t.Meshes()
	usedMesh := map[int]bool{}
	for _, m := range meshes {
		usedMesh[m.ID] = m.ID > 0
	}
	nm := next(usedMesh)
	for _, m := range meshes {
		if m.ID == 0 {
			m.ID = nm()
		}
	}

	filters := t.Filters()
	usedFilter := map[int]bool{}
	for _, f := range filters {
		usedFilter[f.ID] = f.ID > 0
	}
	nf := next(usedFilter)
	for _, f := range filters {
		if f.ID == 0 {
			f.ID = nf()
		}
	}

	usedTally := map[int]bool{}
	for _, tl := range t.Tallies {
		usedTally[tl.ID] = tl.ID > 0
	}
	nt := next(usedTally)
	for _, tl := range t.Tallies {
		if tl.ID == 0 {
			tl.ID = nt()
		}
	}
}

// DepletionScores are the reaction rates a depletion solver needs.
var DepletionScores = []string{"(n,p)", "(n,a)", "(n,gamma)", "fission", "(n,2n)", "(n,3n)", "(n,4n)"}

// fuelName is the substring that marks a fuel material.
const fuelName = "Fuel"

// FuelMaterials returns the materials whose name contains "Fuel",
// ignoring case.
func FuelMaterials(g *csg.Geometry) []*material.Material {
	return g.MaterialsByName(fuelName, csg.NameMatch{})
}

// FuelCells returns the cells filled by a fuel material, including cells
// with per-instance fuel fills.
func FuelCells(g *csg.Geometry) []*csg.Cell {
	fuel := make(map[*material.Material]bool)
	for _, m := range FuelMaterials(g) {
		fuel[m] = true
	}
	var out []*csg.Cell
	for _, c := range g.MaterialCells() {
		switch c.Fill() {
		case csg.FillMaterial:
			if fuel[c.Material()] {
				out = append(out, c)
			}
		case csg.FillDistribMaterial:
			if ms := c.Materials(); len(ms) > 0 && fuel[ms[0]] {
				out = append(out, c)
			}
		}
	}
	return out
}

// DepletionTallies builds the tallies a depletion step reads. In material
// mode there is one tally over every fuel material; in cell mode one
// distribcell tally per fuel cell. Nuclides come from the first fuel
// material in material mode and from the cell's fill in cell mode.
func DepletionTallies(g *csg.Geometry, mode TallyMode) (*Tallies, error) {
	fuel := FuelMaterials(g)
	if len(fuel) == 0 {
		return nil, fmt.Errorf("depletion tallies: %w", ErrNoFuel)
	}

	t := &Tallies{}
	switch mode {
	case ModeMaterial:
		t.Add(&Tally{
			Name:     "depletion tally",
			Filters:  []*Filter{{Kind: FilterMaterial, Materials: fuel}},
			Nuclides: fuel[0].NuclideNames(),
			Scores:   DepletionScores,
		})
	case ModeCell:
		for _, c := range FuelCells(g) {
			m := c.Material()
			if m == nil {
				m = c.Materials()[0]
			}
			t.Add(&Tally{
				Name:     "depletion tally",
				Filters:  []*Filter{{Kind: FilterDistribcell, Cells: []*csg.Cell{c}}},
				Nuclides: m.NuclideNames(),
				Scores:   DepletionScores,
			})
		}
	default:
		return nil, fmt.Errorf("depletion tallies: unknown mode %q", mode)
	}
	return t, nil
}

// PinMesh returns a mesh with one cell per pin over a region of nx by ny
// pins of the given pitch.
func PinMesh(name string, lowerLeft [3]float64, pitch, height float64, nx, ny int) *Mesh {
	return &Mesh{
		Name:      name,
		Dimension: []int{nx, ny, 1},
		LowerLeft: lowerLeft[:],
		Width:     []float64{pitch, pitch, height},
	}
}

// MeshTallies returns the pin-wise fission rate and the energy integrated
// U-238 absorption and fission rates over mesh.
func MeshTallies(mesh *Mesh) *Tallies {
	f := &Filter{Kind: FilterMesh, Mesh: mesh}
	t := &Tallies{}
	t.Add(
		&Tally{Name: "fission rates", Filters: []*Filter{f}, Scores: []string{"fission"}},
		&Tally{Name: "u-238 capture", Filters: []*Filter{f}, Nuclides: []string{"U238"}, Scores: []string{"absorption", "fission"}},
	)
	return t
}

// CASMO70 are the CASMO 70-group energy edges in eV.
var CASMO70 = []float64{
	0, 0.005, 0.01, 0.015, 0.02, 0.025, 0.03, 0.035, 0.042, 0.05, 0.058, 0.067,
	0.08, 0.1, 0.14, 0.18, 0.22, 0.25, 0.28, 0.3, 0.32, 0.35, 0.4, 0.5, 0.625,
	0.78, 0.85, 0.91, 0.95, 0.972, 0.996, 1.02, 1.045, 1.071, 1.097, 1.123,
	1.15, 1.3, 1.5, 1.855, 2.1, 2.6, 3.3, 4., 9.877, 15.968, 27.7, 48.052,
	75.501, 148.73, 367.26001, 906.90002, 1.4251e3, 2.2395e3, 3.5191e3, 5.53e3,
	9.118e3, 15.03e3, 24.78e3, 40.85e3, 67.34e3, 111.e3, 183e3, 302.5e3, 500e3,
	821e3, 1.353e6, 2.231e6, 3.679e6, 6.0655e6, 2e7,
}

// MGXSTypes are the multigroup cross sections tallied for each domain.
var MGXSTypes = []string{"total", "nu-fission", "nu-scatter matrix", "chi"}

// Domain is the spatial domain of a multigroup library.
type Domain string

const (
	DomainMaterial    Domain = "material"
	DomainDistribcell Domain = "distribcell"
)

// MGXSLibrary describes a by-nuclide multigroup cross section library.
type MGXSLibrary struct {
	Domain Domain
	// Cells are the distribcell domains. Material domains use every
	// material in the geometry.
	Cells []*csg.Cell
	Edges []float64
}

// mgxsTally returns the filters and scores of one cross section type,
// apart from the domain filter.
func mgxsTally(kind string, energy, energyOut *Filter) ([]*Filter, []string, error) {
	switch kind {
	case "total":
		return []*Filter{energy}, []string{"flux", "total"}, nil
	case "nu-fission":
		return []*Filter{energy}, []string{"flux", "nu-fission"}, nil
	case "nu-scatter matrix":
		return []*Filter{energy, energyOut}, []string{"nu-scatter"}, nil
	case "chi":
		return []*Filter{energyOut}, []string{"nu-fission"}, nil
	}
	return nil, nil, fmt.Errorf("unknown multigroup cross section %q", kind)
}

// Tallies builds one tally per domain and cross section type.
func (lib MGXSLibrary) Tallies(g *csg.Geometry) (*Tallies, error) {
	if len(lib.Edges) < 2 {
		return nil, fmt.Errorf("mgxs %s: need at least two energy edges", lib.Domain)
	}
	for i := 1; i < len(lib.Edges); i++ {
		if lib.Edges[i] <= lib.Edges[i-1] {
			return nil, fmt.Errorf("mgxs %s: energy edges must increase at index %d", lib.Domain, i)
		}
	}
	energy := &Filter{Kind: FilterEnergy, Energies: lib.Edges}
	energyOut := &Filter{Kind: FilterEnergyOut, Energies: lib.Edges}

	type domain struct {
		label    string
		filter   *Filter
		nuclides []string
	}
	var domains []domain
	switch lib.Domain {
	case DomainMaterial:
		mats := g.Materials()
		if len(mats) == 0 {
			return nil, fmt.Errorf("mgxs material: geometry has no materials")
		}
		for _, m := range mats {
			domains = append(domains, domain{
				label:    m.Name,
				filter:   &Filter{Kind: FilterMaterial, Materials: []*material.Material{m}},
				nuclides: append(m.NuclideNames(), "total"),
			})
		}
	case DomainDistribcell:
		if len(lib.Cells) == 0 {
			return nil, fmt.Errorf("mgxs distribcell: %w", ErrNoFuel)
		}
		for _, c := range lib.Cells {
			m := c.Material()
			if m == nil && len(c.Materials()) > 0 {
				m = c.Materials()[0]
			}
			if m == nil {
				return nil, fmt.Errorf("mgxs distribcell: cell %q is not filled with a material", c.Name)
			}
			domains = append(domains, domain{
				label:    c.Name,
				filter:   &Filter{Kind: FilterDistribcell, Cells: []*csg.Cell{c}},
				nuclides: append(m.NuclideNames(), "total"),
			})
		}
	default:
		return nil, fmt.Errorf("mgxs: unknown domain %q", lib.Domain)
	}

	t := &Tallies{}
	for _, d := range domains {
		for _, kind := range MGXSTypes {
			filters, scores, err := mgxsTally(kind, energy, energyOut)
			if err != nil {
				return nil, err
			}
			t.Add(&Tally{
				Name:     fmt.Sprintf("mgxs %s %s %s", lib.Domain, d.label, kind),
				Filters:  append([]*Filter{d.filter}, filters...),
				Nuclides: d.nuclides,
				Scores:   scores,
			})
		}
	}
	return t, nil
}

package material

import (
	"errors"
	"fmt"

	"github.com/paulromano/ecp-benchmarks/pkg/registry"
)

// Basis says whether nuclide fractions are atom or weight fractions.
type Basis string

const (
	AtomPercent   Basis = "ao"
	WeightPercent Basis = "wo"
)

// DensityUnits are the density units the solver accepts.
type DensityUnits string

const (
	GramsPerCC     DensityUnits = "g/cm3"
	KgPerM3        DensityUnits = "kg/m3"
	AtomsPerBarnCM DensityUnits = "atom/b-cm"
	AtomsPerCC     DensityUnits = "atom/cm3"
	Sum            DensityUnits = "sum"
)

// ErrInvalid marks a material definition the solver would reject.
var ErrInvalid = errors.New("invalid material")

// Nuclide is one entry of a material composition.
type Nuclide struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
	Basis   Basis   `json:"basis"`
}

// composition is held by pointer so shallow clones share one table.
type composition struct {
	nuclides []Nuclide
	sab      []string
}

// Material is a named physical material. Temperature is in kelvin and volume
// in cm³; zero means unset.
type Material struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Density     float64      `json:"density"`
	Units       DensityUnits `json:"units"`
	Temperature float64      `json:"temperature,omitempty"`
	Volume      float64      `json:"volume,omitempty"`
	Depletable  bool         `json:"depletable,omitempty"`

	comp *composition
}

// New creates an empty material. Its id is assigned when it is registered.
func New(name string, density float64, units DensityUnits) *Material {
	return &Material{Name: name, Density: density, Units: units, comp: &composition{}}
}

// ItemID implements registry.Item.
func (m *Material) ItemID() int { return m.ID }

// AssignID implements registry.Item.
func (m *Material) AssignID(id int) { m.ID = id }

// AddNuclide appends a nuclide to the composition.
func (m *Material) AddNuclide(name string, percent float64, basis Basis) *Material {
	m.comp.nuclides = append(m.comp.nuclides, Nuclide{Name: name, Percent: percent, Basis: basis})
	return m
}

// AddElement expands a natural element into its isotopes. With a weight
// basis the isotopic split is mass weighted.
func (m *Material) AddElement(symbol string, percent float64, basis Basis) error {
	isotopes, ok := naturalAbundance[symbol]
	if !ok {
		return fmt.Errorf("element %q: %w", symbol, registry.ErrNotFound)
	}
	norm := 0.0
	for _, iso := range isotopes {
		norm += iso.weight(basis)
	}
	for _, iso := range isotopes {
		m.AddNuclide(iso.name, percent*iso.weight(basis)/norm, basis)
	}
	return nil
}

// AddSAlphaBeta attaches a thermal scattering table.
func (m *Material) AddSAlphaBeta(table string) *Material {
	m.comp.sab = append(m.comp.sab, table)
	return m
}

// Nuclides returns a copy of the composition in insertion order.
func (m *Material) Nuclides() []Nuclide {
	out := make([]Nuclide, len(m.comp.nuclides))
	copy(out, m.comp.nuclides)
	return out
}

// NuclideNames returns nuclide names in insertion order without repeats.
func (m *Material) NuclideNames() []string {
	seen := make(map[string]bool, len(m.comp.nuclides))
	var out []string
	for _, n := range m.comp.nuclides {
		if !seen[n.Name] {
			seen[n.Name] = true
			out = append(out, n.Name)
		}
	}
	return out
}

// SAlphaBeta returns the thermal scattering tables.
func (m *Material) SAlphaBeta() []string {
	out := make([]string, len(m.comp.sab))
	copy(out, m.comp.sab)
	return out
}

// Fissionable reports whether any nuclide can fission.
func (m *Material) Fissionable() bool {
	for _, n := range m.comp.nuclides {
		if fissionable[n.Name] {
			return true
		}
	}
	return false
}

// SharesComposition reports whether m and o use the same nuclide table.
func (m *Material) SharesComposition(o *Material) bool {
	return m.comp == o.comp
}

// Clone copies m without an id. The copy shares the nuclide table with m.
func (m *Material) Clone() *Material {
	c := *m
	c.ID = 0
	return &c
}

// DeepCopy copies m, including its nuclide table, without an id.
func (m *Material) DeepCopy() *Material {
	c := *m
	c.ID = 0
	c.comp = &composition{
		nuclides: m.Nuclides(),
		sab:      m.SAlphaBeta(),
	}
	return &c
}

// Validate checks the constraints the solver imposes on a material.
func (m *Material) Validate() error {
	if len(m.comp.nuclides) == 0 {
		return fmt.Errorf("material %q: no nuclides: %w", m.Name, ErrInvalid)
	}
	if m.Units != Sum && m.Density <= 0 {
		return fmt.Errorf("material %q: density %g %s must be positive: %w", m.Name, m.Density, m.Units, ErrInvalid)
	}
	basis := m.comp.nuclides[0].Basis
	for _, n := range m.comp.nuclides {
		if n.Basis != basis {
			return fmt.Errorf("material %q: mixes %s and %s fractions: %w", m.Name, basis, n.Basis, ErrInvalid)
		}
		if n.Percent < 0 {
			return fmt.Errorf("material %q: nuclide %s has negative fraction: %w", m.Name, n.Name, ErrInvalid)
		}
	}
	if m.Depletable && m.Volume <= 0 {
		return fmt.Errorf("material %q: depletable material needs a volume: %w", m.Name, ErrInvalid)
	}
	return nil
}

// Registry is the material registry.
type Registry = registry.Registry[*Material]

// NewRegistry creates a material registry with its own id space.
func NewRegistry() *Registry {
	return registry.New[*Material]("material", registry.NewIDs("material"))
}

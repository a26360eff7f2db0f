// Package models builds the benchmark decks: the SMR single assembly and
// full core, and the 2x2 colorsets with periodic and reflector boundaries.
package models

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/paulromano/ecp-benchmarks/pkg/csg"
	"github.com/paulromano/ecp-benchmarks/pkg/deck"
	"github.com/paulromano/ecp-benchmarks/pkg/depletion"
	"github.com/paulromano/ecp-benchmarks/pkg/differentiate"
)

var (
	// ErrUnknownModel is returned by Get for an unregistered name.
	ErrUnknownModel = errors.New("unknown model")
	// ErrNotDepletable is returned by Deplete for models without a
	// depletion preset.
	ErrNotDepletable = errors.New("model has no depletion preset")
)

// Options select model variants.
type Options struct {
	Tallies deck.TallyMode `yaml:"tallies"`
	// Rings is the number of equal-area fuel rings; Axial the number of
	// axial fuel slices. Zero means one.
	Rings     int  `yaml:"rings"`
	Axial     int  `yaml:"axial"`
	Depleted  bool `yaml:"depleted"`
	Multipole bool `yaml:"multipole"`
}

// DefaultOptions are the command-line defaults.
func DefaultOptions() Options {
	return Options{Tallies: deck.ModeMaterial, Rings: 10, Axial: 196}
}

func (o Options) normalize() Options {
	if o.Tallies == "" {
		o.Tallies = deck.ModeMaterial
	}
	if o.Rings < 1 {
		o.Rings = 1
	}
	if o.Axial < 1 {
		o.Axial = 1
	}
	return o
}

// MultipoleTolerance is the temperature tolerance (K) used with multipole
// data.
const MultipoleTolerance = 1000

// Model is a named benchmark.
type Model struct {
	Name        string
	Description string

	geometry func(b *builder) (*csg.Geometry, error)
	// finish adds settings, tallies and plots to a built deck.
	finish  func(b *builder, d *deck.Deck) error
	preset  *preset
}

// preset is the depletion configuration of a model.
type preset struct {
	selector func(b *builder) differentiate.Selector
	// height is the fuel height assumed for burnable volumes.
	height float64
	// axial is set when the fuel column is split into Options.Axial
	// slices. Radial slices ignore Axial.
	axial bool
	plan  depletion.Plan
}

// volume is the burnable volume of one differentiated fuel instance.
func (p *preset) volume(o Options) float64 {
	n := o.Rings
	if p.axial {
		n *= o.Axial
	}
	return math.Pi * PelletOR * PelletOR * p.height / float64(n)
}

// Depletable reports whether the model has a depletion preset.
func (m Model) Depletable() bool { return m.preset != nil }

// Build constructs the deck with the given options.
func (m Model) Build(opts Options, logger *zap.Logger) (*deck.Deck, error) {
	b, err := newBuilder(opts, logger)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", m.Name, err)
	}
	g, err := m.geometry(b)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", m.Name, err)
	}
	d := &deck.Deck{Name: m.Name, Geometry: g}
	if err := m.finish(b, d); err != nil {
		return nil, fmt.Errorf("model %s: %w", m.Name, err)
	}
	b.logger.Debug("Built model",
		zap.String("model", m.Name),
		zap.Int("cells", len(g.Cells())),
		zap.Int("materials", len(g.Materials())))
	return d, nil
}

// Deplete builds the deck for a depletion run: fuel is differentiated with
// deep copies carrying volumes and the depletable flag, and the returned
// plan carries the model's transport and schedule parameters.
func (m Model) Deplete(opts Options, logger *zap.Logger) (*deck.Deck, depletion.Plan, error) {
	if m.preset == nil {
		return nil, depletion.Plan{}, fmt.Errorf("model %s: %w", m.Name, ErrNotDepletable)
	}
	b, err := newBuilder(opts, logger)
	if err != nil {
		return nil, depletion.Plan{}, fmt.Errorf("model %s: %w", m.Name, err)
	}
	g, err := m.geometry(b)
	if err != nil {
		return nil, depletion.Plan{}, fmt.Errorf("model %s: %w", m.Name, err)
	}

	_, err = differentiate.Differentiate(g, m.preset.selector(b), differentiate.Options{
		Mode:        differentiate.Deep,
		Volume:      m.preset.volume(b.opts),
		Depletable:  true,
		Temperature: 300,
	}, b.logger)
	if err != nil {
		return nil, depletion.Plan{}, fmt.Errorf("model %s: %w", m.Name, err)
	}
	tallies, err := deck.DepletionTallies(g, deck.ModeMaterial)
	if err != nil {
		return nil, depletion.Plan{}, fmt.Errorf("model %s: %w", m.Name, err)
	}

	d := &deck.Deck{Name: m.Name, Geometry: g, Tallies: tallies, Settings: &deck.Settings{}}
	if b.opts.Multipole {
		d.Settings.Temperature = deck.Multipole(MultipoleTolerance)
	}
	plan := m.preset.plan
	plan.Command = append([]string(nil), plan.Command...)
	plan.Steps = append(plan.Steps[:0:0], plan.Steps...)
	return d, plan, nil
}

// differentiateFuel splits every fuel material per instance sharing the
// composition, so material tallies resolve each instance.
func differentiateFuel(b *builder, g *csg.Geometry) error {
	_, err := differentiate.Differentiate(g,
		differentiate.ByMaterialName("UO2 Fuel", csg.NameMatch{}),
		differentiate.Options{Mode: differentiate.Shared}, b.logger)
	return err
}

// depletionTallies differentiates the fuel in material mode and returns
// the depletion tallies of the chosen mode.
func depletionTallies(b *builder, g *csg.Geometry) (*deck.Tallies, error) {
	if b.opts.Tallies == deck.ModeMaterial {
		if err := differentiateFuel(b, g); err != nil {
			return nil, err
		}
	}
	return deck.DepletionTallies(g, b.opts.Tallies)
}

// temperature returns the multipole settings when requested.
func (b *builder) temperature() *deck.Temperature {
	if b.opts.Multipole {
		return deck.Multipole(MultipoleTolerance)
	}
	return nil
}

var catalog = map[string]Model{}

func register(m Model) {
	if _, dup := catalog[m.Name]; dup {
		panic("models: duplicate model " + m.Name)
	}
	catalog[m.Name] = m
}

// Get returns the named model.
func Get(name string) (Model, error) {
	m, ok := catalog[name]
	if !ok {
		return Model{}, fmt.Errorf("%q: %w (have %v)", name, ErrUnknownModel, Names())
	}
	return m, nil
}

// Names lists the registered models alphabetically.
func Names() []string {
	out := make([]string, 0, len(catalog))
	for name := range catalog {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// All returns every model, ordered by name.
func All() []Model {
	var out []Model
	for _, name := range Names() {
		out = append(out, catalog[name])
	}
	return out
}

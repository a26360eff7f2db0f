// Package depletion drives a sequence of transport solves over a time-step
// schedule. Burnup integration between solves is delegated to an
// Integrator.
package depletion

import (
	"fmt"
	"math"
	"time"

	"github.com/paulromano/ecp-benchmarks/pkg/deck"
	"github.com/paulromano/ecp-benchmarks/pkg/geo"
	"github.com/paulromano/ecp-benchmarks/pkg/validation"
)

// Day is 24 hours.
const Day = 24 * time.Hour

// CASMORate is the CASMO power normalisation per pin per unit length.
const CASMORate = 2.337e15

// Plan is the configuration of a depletion run.
type Plan struct {
	// Command is the solver command line, optionally behind an MPI launcher.
	Command   []string `yaml:"command"`
	Particles int      `yaml:"particles"`
	Batches   int      `yaml:"batches"`
	Inactive  int      `yaml:"inactive"`

	// Bounds is both the source box and the entropy mesh extent.
	Bounds           geo.Box `yaml:"bounds"`
	EntropyDimension [3]int  `yaml:"entropy_dimension"`

	// Power is the CASMO normalisation in MeV/s.
	Power     float64         `yaml:"power"`
	Steps     []time.Duration `yaml:"steps"`
	OutputDir string          `yaml:"output_dir"`
}

// UniformSteps returns floor(horizon/step) steps of length step.
func UniformSteps(step, horizon time.Duration) []time.Duration {
	if step <= 0 || horizon < step {
		return nil
	}
	n := int(math.Floor(float64(horizon) / float64(step)))
	out := make([]time.Duration, n)
	for i := range out {
		out[i] = step
	}
	return out
}

// LinearPower returns rate*pins/pitch²*height, the CASMO normalisation for
// pins fuel rods of the given active height.
func LinearPower(rate, pins, pitch, height float64) float64 {
	return rate * pins / (pitch * pitch) * height
}

// Horizon is the total length of the schedule.
func (p *Plan) Horizon() time.Duration {
	var total time.Duration
	for _, s := range p.Steps {
		total += s
	}
	return total
}

// Settings returns the transport settings of one solve: a fissionable box
// source over Bounds and an entropy mesh over the same box.
func (p *Plan) Settings() *deck.Settings {
	return &deck.Settings{
		Batches:   p.Batches,
		Inactive:  p.Inactive,
		Particles: p.Particles,
		Source:    deck.BoxSource(p.Bounds),
		Entropy:   &deck.Entropy{Box: p.Bounds, Dimension: p.EntropyDimension},
	}
}

// Validate checks the plan. Transport parameters are checked with the
// settings rules.
func (p *Plan) Validate() *validation.Report {
	r := p.Settings().Validate()

	if len(p.Command) == 0 || p.Command[0] == "" || p.Command[len(p.Command)-1] == "" {
		r.AddError(validation.Result{
			Level:       validation.LevelDepletion,
			Message:     "solver command is empty",
			Path:        "depletion.command",
			Suggestions: []string{`["openmc"]`, `["mpirun", "openmc"]`},
		})
	}
	if p.Power <= 0 {
		r.AddError(validation.Result{
			Level:       validation.LevelDepletion,
			Message:     "power must be positive",
			Path:        "depletion.power",
			ActualValue: p.Power,
			Expected:    "> 0",
		})
	}
	if len(p.Steps) == 0 {
		r.AddError(validation.Result{
			Level:   validation.LevelDepletion,
			Message: "no time steps",
			Path:    "depletion.steps",
		})
	}
	for i, s := range p.Steps {
		if s <= 0 {
			r.AddError(validation.Result{
				Level:       validation.LevelDepletion,
				Message:     fmt.Sprintf("time step %d must be positive", i),
				Path:        fmt.Sprintf("depletion.steps[%d]", i),
				ActualValue: s.String(),
			})
		}
	}
	if p.OutputDir == "" {
		r.AddError(validation.Result{
			Level:   validation.LevelDepletion,
			Message: "output directory is empty",
			Path:    "depletion.output_dir",
		})
	}
	return r
}

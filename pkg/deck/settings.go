package deck

import (
	"fmt"

	"github.com/paulromano/ecp-benchmarks/pkg/geo"
	"github.com/paulromano/ecp-benchmarks/pkg/validation"
)

// Source is a uniform box source.
type Source struct {
	Box geo.Box `yaml:"box"`
	// OnlyFissionable rejects source sites outside fissionable materials.
	OnlyFissionable bool `yaml:"only_fissionable"`
}

// Entropy is the Shannon entropy mesh.
type Entropy struct {
	Box       geo.Box `yaml:"box"`
	Dimension [3]int  `yaml:"dimension"`
}

// Output selects the solver's optional output files. Nil leaves the
// solver default.
type Output struct {
	Tallies *bool `yaml:"tallies,omitempty"`
	Summary *bool `yaml:"summary,omitempty"`
}

// Temperature configures on-the-fly temperature treatment.
type Temperature struct {
	Multipole bool    `yaml:"multipole"`
	Tolerance float64 `yaml:"tolerance"`
}

// Settings are the run parameters of an eigenvalue calculation.
type Settings struct {
	Batches   int `yaml:"batches"`
	Inactive  int `yaml:"inactive"`
	Particles int `yaml:"particles"`

	Source      *Source      `yaml:"source,omitempty"`
	Entropy     *Entropy     `yaml:"entropy,omitempty"`
	Output      Output       `yaml:"output"`
	Temperature *Temperature `yaml:"temperature,omitempty"`

	// SourcePointWrite is nil for the solver default.
	SourcePointWrite *bool `yaml:"sourcepoint_write,omitempty"`
	PTables          bool  `yaml:"ptables"`
	Verbosity        int   `yaml:"verbosity,omitempty"`
}

// Bool returns a pointer to b for the optional settings flags.
func Bool(b bool) *bool { return &b }

// BoxSource returns a box source restricted to fissionable material.
func BoxSource(b geo.Box) *Source {
	return &Source{Box: b, OnlyFissionable: true}
}

// Multipole enables windowed multipole data with the given temperature
// tolerance in kelvin.
func Multipole(tolerance float64) *Temperature {
	return &Temperature{Multipole: true, Tolerance: tolerance}
}

// Validate checks the run parameters.
func (s *Settings) Validate() *validation.Report {
	r := validation.NewReport()

	if s.Particles <= 0 {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     "particles must be greater than 0",
			Path:        "settings.particles",
			ActualValue: s.Particles,
			Expected:    "> 0",
		})
	}
	if s.Batches <= 0 {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     "batches must be greater than 0",
			Path:        "settings.batches",
			ActualValue: s.Batches,
			Expected:    "> 0",
		})
	}
	if s.Inactive < 0 || s.Inactive >= s.Batches {
		r.AddError(validation.Result{
			Level:        validation.LevelSchema,
			Message:      fmt.Sprintf("inactive batches (%d) must be in [0, batches)", s.Inactive),
			Path:         "settings.inactive",
			ActualValue:  s.Inactive,
			Expected:     fmt.Sprintf("< %d", s.Batches),
			ConflictWith: "settings.batches",
		})
	}
	if s.Source != nil && (!s.Source.Box.Finite() || s.Source.Box.Empty()) {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     "source box must be finite and non-empty",
			Path:        "settings.source.box",
			ActualValue: s.Source.Box,
		})
	}
	if s.Entropy != nil {
		for i, d := range s.Entropy.Dimension {
			if d <= 0 {
				r.AddError(validation.Result{
					Level:       validation.LevelSchema,
					Message:     "entropy mesh dimensions must be positive",
					Path:        fmt.Sprintf("settings.entropy.dimension[%d]", i),
					ActualValue: d,
					Expected:    "> 0",
				})
			}
		}
	}
	if s.Temperature != nil && s.Temperature.Tolerance < 0 {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     "temperature tolerance must be non-negative",
			Path:        "settings.temperature.tolerance",
			ActualValue: s.Temperature.Tolerance,
		})
	}
	if s.Source == nil {
		r.AddWarning(validation.Result{
			Level:   validation.LevelSchema,
			Message: "no source defined; the solver default point source will be used",
			Path:    "settings.source",
		})
	}
	return r
}

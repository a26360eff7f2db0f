package config

import (
	"github.com/paulromano/ecp-benchmarks/pkg/models"
)

// Version is the current deck file version.
const Version = "0.1.0"

// FileName is the deck file looked up in a project directory.
const FileName = "deck.yaml"

// Config is the contents of a deck file.
type Config struct {
	Version   string         `yaml:"version" json:"version"`
	Model     string         `yaml:"model" json:"model"`
	Options   models.Options `yaml:"options" json:"options"`
	OutputDir string         `yaml:"output_dir" json:"output_dir"`

	Settings  *Settings  `yaml:"settings,omitempty" json:"settings,omitempty"`
	Depletion *Depletion `yaml:"depletion,omitempty" json:"depletion,omitempty"`

	// projectDir is set by LoadProject.
	projectDir string
}

// Settings override the model's transport settings. Nil fields keep the
// model value.
type Settings struct {
	Batches   *int  `yaml:"batches,omitempty" json:"batches,omitempty"`
	Inactive  *int  `yaml:"inactive,omitempty" json:"inactive,omitempty"`
	Particles *int  `yaml:"particles,omitempty" json:"particles,omitempty"`
	PTables   *bool `yaml:"ptables,omitempty" json:"ptables,omitempty"`
	Verbosity *int  `yaml:"verbosity,omitempty" json:"verbosity,omitempty"`
}

// Depletion overrides the model's depletion preset.
type Depletion struct {
	Command   []string `yaml:"command,omitempty" json:"command,omitempty"`
	Particles *int     `yaml:"particles,omitempty" json:"particles,omitempty"`
	Batches   *int     `yaml:"batches,omitempty" json:"batches,omitempty"`
	Inactive  *int     `yaml:"inactive,omitempty" json:"inactive,omitempty"`
	// Power is in W for the whole model.
	Power *float64 `yaml:"power,omitempty" json:"power,omitempty"`
	// StepDays and HorizonDays give a uniform schedule.
	StepDays    float64 `yaml:"step_days,omitempty" json:"step_days,omitempty"`
	HorizonDays float64 `yaml:"horizon_days,omitempty" json:"horizon_days,omitempty"`
	OutputDir   string  `yaml:"output_dir,omitempty" json:"output_dir,omitempty"`
}

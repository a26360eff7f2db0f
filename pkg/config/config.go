// Package config reads deck files: which model to build, its options and
// overrides of the model's settings and depletion preset.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/paulromano/ecp-benchmarks/pkg/deck"
	"github.com/paulromano/ecp-benchmarks/pkg/depletion"
	"github.com/paulromano/ecp-benchmarks/pkg/models"
)

// Defaults is the configuration used without a deck file.
func Defaults() *Config {
	return &Config{
		Version:   Version,
		Model:     "smr-assembly",
		Options:   models.DefaultOptions(),
	}
}

// DefaultOutputDir names the output directory of a model without an
// explicit one: "assembly-fresh" or "assembly-depleted" for the SMR
// assembly, and likewise for the other models.
func DefaultOutputDir(model string, depleted bool) string {
	base := strings.TrimPrefix(model, "smr-")
	if depleted {
		return base + "-depleted"
	}
	return base + "-fresh"
}

// Output returns the deck output directory. Without output_dir it is
// DefaultOutputDir, placed in the project directory for project configs.
func (c *Config) Output() string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	return filepath.Join(c.projectDir, DefaultOutputDir(c.Model, c.Options.Depleted))
}

// Load reads a deck file. Fields it leaves out keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading deck file: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing deck YAML: %w", err)
	}
	return cfg, nil
}

// LoadProject loads deck.yaml from a project directory. A relative output
// directory is resolved against it.
func LoadProject(projectDir string) (*Config, error) {
	cfg, err := Load(filepath.Join(projectDir, FileName))
	if err != nil {
		return nil, err
	}
	cfg.projectDir = projectDir
	if cfg.OutputDir != "" && !filepath.IsAbs(cfg.OutputDir) {
		cfg.OutputDir = filepath.Join(projectDir, cfg.OutputDir)
	}
	return cfg, nil
}

// ApplySettings writes the overrides into s.
func (c *Config) ApplySettings(s *deck.Settings) {
	o := c.Settings
	if o == nil || s == nil {
		return
	}
	if o.Batches != nil {
		s.Batches = *o.Batches
	}
	if o.Inactive != nil {
		s.Inactive = *o.Inactive
	}
	if o.Particles != nil {
		s.Particles = *o.Particles
	}
	if o.PTables != nil {
		s.PTables = *o.PTables
	}
	if o.Verbosity != nil {
		s.Verbosity = *o.Verbosity
	}
}

// ApplyPlan writes the depletion overrides into p. A relative plan output
// directory is placed under the explicit output directory, or the project
// directory when there is none.
func (c *Config) ApplyPlan(p *depletion.Plan) {
	if o := c.Depletion; o != nil {
		if len(o.Command) > 0 {
			p.Command = append([]string(nil), o.Command...)
		}
		if o.Particles != nil {
			p.Particles = *o.Particles
		}
		if o.Batches != nil {
			p.Batches = *o.Batches
		}
		if o.Inactive != nil {
			p.Inactive = *o.Inactive
		}
		if o.Power != nil {
			p.Power = *o.Power
		}
		if o.StepDays > 0 && o.HorizonDays > 0 {
			p.Steps = depletion.UniformSteps(days(o.StepDays), days(o.HorizonDays))
		}
		if o.OutputDir != "" {
			p.OutputDir = o.OutputDir
		}
	}
	if !filepath.IsAbs(p.OutputDir) {
		base := c.OutputDir
		if base == "" {
			base = c.projectDir
		}
		p.OutputDir = filepath.Join(base, p.OutputDir)
	}
}

func days(d float64) time.Duration {
	return time.Duration(d * float64(depletion.Day))
}

package depletion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/paulromano/ecp-benchmarks/pkg/deck"
	"github.com/paulromano/ecp-benchmarks/pkg/export"
	"github.com/paulromano/ecp-benchmarks/pkg/validation"
)

// ManifestFile is written to the output directory after every step.
const ManifestFile = "manifest.yaml"

// Step is one transport solve of the schedule.
type Step struct {
	Index int
	Dir   string
	// Start is the time since the beginning of the run; Length is zero for
	// the final solve at the end of the schedule.
	Start  time.Duration
	Length time.Duration
	Power  float64
	Deck   *deck.Deck
}

// Integrator advances material compositions over a step after its
// transport solve. It may modify the deck's materials in place.
type Integrator interface {
	Advance(ctx context.Context, step Step) error
}

// Step statuses recorded in the manifest.
const (
	StatusPending = "pending"
	StatusWritten = "written"
	StatusSolved  = "solved"
	StatusFailed  = "failed"
)

// StepRecord is the manifest entry of one step.
type StepRecord struct {
	Index  int           `yaml:"index"`
	Dir    string        `yaml:"dir"`
	Start  time.Duration `yaml:"start"`
	Length time.Duration `yaml:"length"`
	Status string        `yaml:"status"`
	Error  string        `yaml:"error,omitempty"`
}

// Manifest records a depletion run.
type Manifest struct {
	RunID    string       `yaml:"run_id"`
	Deck     string       `yaml:"deck"`
	Started  time.Time    `yaml:"started"`
	Finished time.Time    `yaml:"finished,omitempty"`
	Command  []string     `yaml:"command"`
	Power    float64      `yaml:"power"`
	DryRun   bool         `yaml:"dry_run,omitempty"`
	Steps    []StepRecord `yaml:"steps"`
}

// Driver runs a plan against a deck.
type Driver struct {
	Deck *deck.Deck
	Plan Plan
	// Runner defaults to ExecRunner.
	Runner     Runner
	Integrator Integrator
	// DryRun writes every step's inputs without invoking the solver.
	DryRun bool
	Logger *zap.Logger
}

// Validate checks the plan and that the deck has depletable material.
func (d *Driver) Validate() *validation.Report {
	r := d.Plan.Validate()
	if d.Deck == nil || d.Deck.Geometry == nil {
		r.AddError(validation.Result{
			Level:   validation.LevelDepletion,
			Message: "no deck to deplete",
			Path:    "deck",
		})
		return r
	}

	depletable := 0
	for _, m := range d.Deck.Materials() {
		if !m.Depletable {
			continue
		}
		depletable++
		if m.Volume <= 0 {
			r.AddError(validation.Result{
				Level:   validation.LevelDepletion,
				Message: fmt.Sprintf("depletable material %q has no volume", m.Name),
				Path:    validation.IDPath("materials", m.ID),
			})
		}
	}
	if depletable == 0 {
		r.AddError(validation.Result{
			Level:       validation.LevelDepletion,
			Message:     "deck has no depletable materials",
			Path:        "materials",
			Suggestions: []string{"differentiate the fuel cells with depletable set"},
		})
	}
	return r
}

// StepDir is the input directory of step i.
func StepDir(output string, i int) string {
	return filepath.Join(output, fmt.Sprintf("step_%03d", i))
}

// Run writes and solves one deck per step, plus a final solve at the end of
// the schedule, calling the integrator after every solve but the last. The
// manifest is rewritten after each step so a failed run leaves a record.
func (d *Driver) Run(ctx context.Context) (*Manifest, error) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := d.Validate().Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(d.Plan.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	d.Deck.Settings = d.settings()
	man := &Manifest{
		RunID:   uuid.NewString(),
		Deck:    d.Deck.Name,
		Started: time.Now().UTC(),
		Command: d.Plan.Command,
		Power:   d.Plan.Power,
		DryRun:  d.DryRun,
	}
	var start time.Duration
	for i := 0; i <= len(d.Plan.Steps); i++ {
		var length time.Duration
		if i < len(d.Plan.Steps) {
			length = d.Plan.Steps[i]
		}
		man.Steps = append(man.Steps, StepRecord{
			Index:  i,
			Dir:    StepDir(d.Plan.OutputDir, i),
			Start:  start,
			Length: length,
			Status: StatusPending,
		})
		start += length
	}

	logger = logger.With(zap.String("run_id", man.RunID))
	logger.Info("Starting depletion",
		zap.String("deck", d.Deck.Name),
		zap.Int("steps", len(d.Plan.Steps)),
		zap.Duration("horizon", d.Plan.Horizon()),
		zap.Float64("power", d.Plan.Power),
		zap.Bool("dry_run", d.DryRun))

	for i := range man.Steps {
		rec := &man.Steps[i]
		if err := d.step(ctx, rec, logger); err != nil {
			rec.Status = StatusFailed
			rec.Error = err.Error()
			if werr := writeManifest(d.Plan.OutputDir, man); werr != nil {
				logger.Error("Failed to write manifest", zap.Error(werr))
			}
			return man, fmt.Errorf("step %d: %w", i, err)
		}
		if err := writeManifest(d.Plan.OutputDir, man); err != nil {
			return man, err
		}
	}

	man.Finished = time.Now().UTC()
	if err := writeManifest(d.Plan.OutputDir, man); err != nil {
		return man, err
	}
	logger.Info("Depletion finished", zap.Duration("elapsed", man.Finished.Sub(man.Started)))
	return man, nil
}

func (d *Driver) step(ctx context.Context, rec *StepRecord, logger *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := export.Write(ctx, rec.Dir, d.Deck, logger); err != nil {
		return err
	}
	rec.Status = StatusWritten
	if d.DryRun {
		logger.Info("Wrote step inputs", zap.Int("step", rec.Index), zap.String("dir", rec.Dir))
		return nil
	}

	began := time.Now()
	if err := d.runner().Run(ctx, rec.Dir, d.Plan.Command); err != nil {
		return err
	}
	rec.Status = StatusSolved
	logger.Info("Solved step",
		zap.Int("step", rec.Index),
		zap.Duration("start", rec.Start),
		zap.Duration("elapsed", time.Since(began)))

	if d.Integrator == nil || rec.Length == 0 {
		return nil
	}
	return d.Integrator.Advance(ctx, Step{
		Index:  rec.Index,
		Dir:    rec.Dir,
		Start:  rec.Start,
		Length: rec.Length,
		Power:  d.Plan.Power,
		Deck:   d.Deck,
	})
}

// settings takes the transport parameters from the plan and keeps the
// deck's output and temperature options.
func (d *Driver) settings() *deck.Settings {
	s := d.Plan.Settings()
	if prev := d.Deck.Settings; prev != nil {
		s.Output = prev.Output
		s.Temperature = prev.Temperature
		s.SourcePointWrite = prev.SourcePointWrite
		s.PTables = prev.PTables
		s.Verbosity = prev.Verbosity
	}
	return s
}

func (d *Driver) runner() Runner {
	if d.Runner != nil {
		return d.Runner
	}
	return ExecRunner{Logger: d.Logger}
}

func writeManifest(dir string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// ReadManifest loads the manifest of a run directory.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

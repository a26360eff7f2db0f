package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulromano/ecp-benchmarks/pkg/deck"
	"github.com/paulromano/ecp-benchmarks/pkg/depletion"
	"github.com/paulromano/ecp-benchmarks/pkg/geo"
)

const sampleDeck = `version: 0.1.0
model: 2x2-periodic
output_dir: out
options:
  tallies: cell
  rings: 3
settings:
  particles: 5000
  ptables: true
depletion:
  command: [srun, openmc]
  step_days: 10
  horizon_days: 40
  output_dir: burnup
`

func writeDeck(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644))
	return dir
}

func TestLoadProject(t *testing.T) {
	dir := writeDeck(t, sampleDeck)
	c, err := LoadProject(dir)
	require.NoError(t, err)

	assert.Equal(t, "2x2-periodic", c.Model)
	assert.Equal(t, deck.ModeCell, c.Options.Tallies)
	assert.Equal(t, 3, c.Options.Rings)
	assert.Equal(t, 196, c.Options.Axial, "unset options keep their defaults")
	assert.Equal(t, filepath.Join(dir, "out"), c.OutputDir)
	require.NotNil(t, c.Settings)
	assert.Nil(t, c.Settings.Batches)
	assert.Equal(t, 5000, *c.Settings.Particles)

	r := c.Validate()
	assert.True(t, r.Valid, "%+v", r.Errors)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	dir := writeDeck(t, "model: [unterminated")
	_, err = LoadProject(dir)
	assert.Error(t, err)
}

func TestDefaultsValid(t *testing.T) {
	r := Defaults().Validate()
	assert.True(t, r.Valid, "%+v", r.Errors)
	assert.Empty(t, r.Warnings)
}

func TestValidateErrors(t *testing.T) {
	batches, inactive, particles := 10, 10, 0
	power := -1.0
	c := Defaults()
	c.Model = "beavrs"
	c.Options.Tallies = "mesh"
	c.Options.Rings = -2
	c.Settings = &Settings{Batches: &batches, Inactive: &inactive, Particles: &particles}
	c.Depletion = &Depletion{Power: &power, StepDays: 30, HorizonDays: 10}

	r := c.Validate()
	require.False(t, r.Valid)
	paths := map[string]bool{}
	for _, e := range r.Errors {
		paths[e.Path] = true
	}
	for _, want := range []string{
		"model", "options.tallies", "options.rings", "settings.particles",
		"settings.inactive", "depletion.power", "depletion.step_days",
	} {
		assert.True(t, paths[want], "missing error for %s", want)
	}
}

func TestDepletionOnNonDepletableWarns(t *testing.T) {
	c := Defaults()
	c.Depletion = &Depletion{}
	r := c.Validate()
	assert.True(t, r.Valid)
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, "depletion", r.Warnings[0].Path)
}

func TestApply(t *testing.T) {
	c, err := LoadProject(writeDeck(t, sampleDeck))
	require.NoError(t, err)

	s := &deck.Settings{Batches: 100, Inactive: 10, Particles: 100}
	c.ApplySettings(s)
	assert.Equal(t, 100, s.Batches)
	assert.Equal(t, 5000, s.Particles)
	assert.True(t, s.PTables)

	p := depletion.Plan{
		Command:   []string{"mpirun", "openmc"},
		Particles: 1000,
		Bounds:    geo.CenteredSquare(1, 0, 1),
		Steps:     depletion.UniformSteps(5*depletion.Day, 30*depletion.Day),
		OutputDir: "depleted",
	}
	c.ApplyPlan(&p)
	assert.Equal(t, []string{"srun", "openmc"}, p.Command)
	assert.Equal(t, 1000, p.Particles)
	assert.Len(t, p.Steps, 4)
	assert.Equal(t, 10*depletion.Day, p.Steps[0])
	assert.Equal(t, filepath.Join(c.OutputDir, "burnup"), p.OutputDir)
}

func TestOutputDir(t *testing.T) {
	c := Defaults()
	assert.Equal(t, "assembly-fresh", c.Output())
	c.Options.Depleted = true
	assert.Equal(t, "assembly-depleted", c.Output())
	c.Model = "2x2-periodic"
	assert.Equal(t, "2x2-periodic-depleted", c.Output())
	c.OutputDir = "decks"
	assert.Equal(t, "decks", c.Output())

	dir := writeDeck(t, "model: smr-core\n")
	c, err := LoadProject(dir)
	require.NoError(t, err)
	assert.Empty(t, c.OutputDir)
	assert.Equal(t, filepath.Join(dir, "core-fresh"), c.Output())

	p := depletion.Plan{OutputDir: "depleted"}
	c.ApplyPlan(&p)
	assert.Equal(t, filepath.Join(dir, "depleted"), p.OutputDir)
}

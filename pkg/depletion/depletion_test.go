package depletion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/paulromano/ecp-benchmarks/pkg/csg"
	"github.com/paulromano/ecp-benchmarks/pkg/deck"
	"github.com/paulromano/ecp-benchmarks/pkg/differentiate"
	"github.com/paulromano/ecp-benchmarks/pkg/export"
	"github.com/paulromano/ecp-benchmarks/pkg/geo"
	"github.com/paulromano/ecp-benchmarks/pkg/material"
)

type fakeRunner struct {
	mu     sync.Mutex
	dirs   []string
	failAt int
}

func (f *fakeRunner) Run(_ context.Context, dir string, command []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirs = append(f.dirs, dir)
	if f.failAt > 0 && len(f.dirs) == f.failAt {
		return errors.New("solver crashed")
	}
	return nil
}

type fakeIntegrator struct {
	steps []Step
}

func (f *fakeIntegrator) Advance(_ context.Context, s Step) error {
	f.steps = append(f.steps, s)
	return nil
}

// depletableDeck is a 2x2 pin lattice whose fuel is differentiated and
// marked depletable.
func depletableDeck(t *testing.T) *deck.Deck {
	t.Helper()
	fuel := material.UO2(material.FuelName(3.1), 3.1, 10.3)
	water, err := material.BoratedWater(material.Water, 975, 0.74)
	require.NoError(t, err)

	pellet := csg.NewZCylinder(0, 0, 0.39218)
	pin := csg.NewUniverse("pin",
		csg.NewCell("Fuel (3.1%) (0)", pellet.Neg()).FillMaterial(fuel),
		csg.NewCell("Fuel (3.1%) water", pellet.Pos()).FillMaterial(water))
	lat, err := csg.NewRectLattice("lat", [2]float64{-1.26, -1.26}, [2]float64{1.26, 1.26},
		[][]*csg.Universe{{pin, pin}, {pin, pin}})
	require.NoError(t, err)
	box := csg.NewPrism(2.52, 2.52, 0, 0, csg.Reflective)
	lower := csg.NewZPlane(0).WithBoundary(csg.Reflective)
	upper := csg.NewZPlane(5).WithBoundary(csg.Reflective)
	g := csg.NewGeometry(csg.NewUniverse("root",
		csg.NewCell("root", csg.And(box.Inside(), lower.Pos(), upper.Neg())).FillLattice(lat)))

	_, err = differentiate.Differentiate(g,
		differentiate.ByCellNames(csg.NameMatch{CaseSensitive: true}, "(3.1%) (0)"),
		differentiate.Options{Mode: differentiate.Deep, Volume: 2.4, Depletable: true, Temperature: 300}, nil)
	require.NoError(t, err)

	tallies, err := deck.DepletionTallies(g, deck.ModeMaterial)
	require.NoError(t, err)
	return &deck.Deck{Name: "pins", Geometry: g, Tallies: tallies,
		Settings: &deck.Settings{Temperature: deck.Multipole(1000)}}
}

func testPlan(dir string) Plan {
	return Plan{
		Command:          []string{"mpirun", "openmc"},
		Particles:        1000,
		Batches:          20,
		Inactive:         10,
		Bounds:           geo.CenteredSquare(2.52, 0, 5),
		EntropyDimension: [3]int{2, 2, 1},
		Power:            LinearPower(CASMORate, 4, 1.5, 5),
		Steps:            UniformSteps(5*Day, 15*Day),
		OutputDir:        dir,
	}
}

func TestUniformSteps(t *testing.T) {
	steps := UniformSteps(5*Day, 30*Day)
	require.Len(t, steps, 6)
	for _, s := range steps {
		assert.Equal(t, 5*Day, s)
	}
	assert.Len(t, UniformSteps(7*Day, 30*Day), 4)
	assert.Nil(t, UniformSteps(0, 30*Day))
	assert.Nil(t, UniformSteps(5*Day, Day))
}

func TestLinearPower(t *testing.T) {
	got := LinearPower(CASMORate, 17*17*37, 1.5, 200)
	assert.InDelta(t, 2.337e15*(17*17*37/2.25)*200, got, 1e6)
}

func TestPlanValidate(t *testing.T) {
	p := testPlan(t.TempDir())
	r := p.Validate()
	assert.True(t, r.Valid, "%+v", r.Errors)
	assert.Equal(t, 15*Day, p.Horizon())

	bad := Plan{Particles: 10, Batches: 5, Inactive: 5, Steps: []time.Duration{-time.Second}}
	r = bad.Validate()
	assert.False(t, r.Valid)
	paths := map[string]bool{}
	for _, e := range r.Errors {
		paths[e.Path] = true
	}
	for _, want := range []string{
		"settings.inactive", "settings.source.box", "depletion.command",
		"depletion.power", "depletion.steps[0]", "depletion.output_dir",
	} {
		assert.True(t, paths[want], "missing error for %s", want)
	}

	// The launcher slot is what the runner executes.
	p.Command = []string{"", "openmc"}
	r = p.Validate()
	require.False(t, r.Valid)
	assert.Equal(t, "depletion.command", r.Errors[0].Path)
}

func TestPlanSettings(t *testing.T) {
	p := testPlan("")
	s := p.Settings()
	require.NotNil(t, s.Source)
	assert.True(t, s.Source.OnlyFissionable)
	assert.Equal(t, p.Bounds, s.Entropy.Box)
	assert.Equal(t, [3]int{2, 2, 1}, s.Entropy.Dimension)
}

func TestDriverRun(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{}
	integ := &fakeIntegrator{}
	d := &Driver{
		Deck:       depletableDeck(t),
		Plan:       testPlan(dir),
		Runner:     runner,
		Integrator: integ,
		Logger:     zaptest.NewLogger(t),
	}
	man, err := d.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, runner.dirs, 4, "three steps plus the final solve")
	for i, sd := range runner.dirs {
		assert.Equal(t, StepDir(dir, i), sd)
		_, err := os.Stat(filepath.Join(sd, export.MaterialsFile))
		assert.NoError(t, err)
	}
	require.Len(t, integ.steps, 3)
	assert.Equal(t, 10*Day, integ.steps[2].Start)
	assert.Equal(t, d.Plan.Power, integ.steps[0].Power)

	_, err = uuid.Parse(man.RunID)
	assert.NoError(t, err)
	assert.False(t, man.Finished.IsZero())

	read, err := ReadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, man.RunID, read.RunID)
	require.Len(t, read.Steps, 4)
	for _, s := range read.Steps {
		assert.Equal(t, StatusSolved, s.Status)
	}
	assert.Equal(t, time.Duration(0), read.Steps[3].Length)
	assert.Equal(t, []string{"mpirun", "openmc"}, read.Command)

	// The deck keeps its temperature options under the plan's settings.
	require.NotNil(t, d.Deck.Settings.Temperature)
	assert.Equal(t, 1000, d.Plan.Particles)
	assert.Equal(t, d.Plan.Particles, d.Deck.Settings.Particles)
}

func TestDriverRunFailure(t *testing.T) {
	dir := t.TempDir()
	d := &Driver{Deck: depletableDeck(t), Plan: testPlan(dir), Runner: &fakeRunner{failAt: 2}}
	_, err := d.Run(context.Background())
	require.Error(t, err)

	read, err := ReadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, StatusSolved, read.Steps[0].Status)
	assert.Equal(t, StatusFailed, read.Steps[1].Status)
	assert.Equal(t, "solver crashed", read.Steps[1].Error)
	assert.Equal(t, StatusPending, read.Steps[2].Status)
	assert.True(t, read.Finished.IsZero())
}

func TestDriverDryRun(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{}
	d := &Driver{Deck: depletableDeck(t), Plan: testPlan(dir), Runner: runner, DryRun: true}
	man, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runner.dirs)
	for _, s := range man.Steps {
		assert.Equal(t, StatusWritten, s.Status)
	}
}

func TestDriverCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := &Driver{Deck: depletableDeck(t), Plan: testPlan(t.TempDir()), Runner: &fakeRunner{}}
	_, err := d.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDriverValidateNeedsDepletable(t *testing.T) {
	dk := depletableDeck(t)
	for _, m := range dk.Materials() {
		m.Depletable = false
	}
	d := &Driver{Deck: dk, Plan: testPlan(t.TempDir())}
	r := d.Validate()
	require.False(t, r.Valid)
	assert.Equal(t, "materials", r.Errors[0].Path)

	_, err := d.Run(context.Background())
	assert.Error(t, err)
}

func TestExecRunnerErrors(t *testing.T) {
	r := ExecRunner{}
	assert.ErrorIs(t, r.Run(context.Background(), t.TempDir(), nil), ErrNoCommand)

	err := r.Run(context.Background(), t.TempDir(), []string{filepath.Join(t.TempDir(), "no-such-solver")})
	assert.Error(t, err)
}

package config

import (
	"github.com/paulromano/ecp-benchmarks/pkg/deck"
	"github.com/paulromano/ecp-benchmarks/pkg/models"
	"github.com/paulromano/ecp-benchmarks/pkg/validation"
)

// Validate checks the deck file before any model is built.
func (c *Config) Validate() *validation.Report {
	r := validation.NewReport()
	const schema = validation.LevelSchema

	if c.Version != Version {
		r.AddWarning(validation.Result{
			Level:       schema,
			Message:     "deck file version differs from the supported version",
			Path:        "version",
			ActualValue: c.Version,
			Expected:    Version,
		})
	}
	if r.OneOf(schema, "model", c.Model, models.Names()) {
		if m, _ := models.Get(c.Model); c.Depletion != nil && !m.Depletable() {
			r.AddWarning(validation.Result{
				Level:   schema,
				Message: "model has no depletion preset; depletion overrides are ignored",
				Path:    "depletion",
			})
		}
	}

	o := c.Options
	r.OneOf(schema, "options.tallies", string(o.Tallies), []string{string(deck.ModeMaterial), string(deck.ModeCell)})
	r.NonNegative(schema, "options.rings", float64(o.Rings))
	r.NonNegative(schema, "options.axial", float64(o.Axial))

	if s := c.Settings; s != nil {
		if s.Particles != nil {
			r.Positive(schema, "settings.particles", float64(*s.Particles))
		}
		if s.Batches != nil {
			r.Positive(schema, "settings.batches", float64(*s.Batches))
		}
		if s.Inactive != nil {
			r.NonNegative(schema, "settings.inactive", float64(*s.Inactive))
			if s.Batches != nil {
				r.Less(schema, "settings.inactive", float64(*s.Inactive), "settings.batches", float64(*s.Batches))
			}
		}
	}

	if d := c.Depletion; d != nil {
		const level = validation.LevelDepletion
		if d.Power != nil {
			r.Positive(level, "depletion.power", *d.Power)
		}
		if d.Particles != nil {
			r.Positive(level, "depletion.particles", float64(*d.Particles))
		}
		if d.StepDays != 0 || d.HorizonDays != 0 {
			if r.Positive(level, "depletion.step_days", d.StepDays) {
				r.Less(level, "depletion.step_days", d.StepDays, "depletion.horizon_days", d.HorizonDays+1e-9)
			}
		}
	}
	return r
}

// Package differentiate gives every instance of selected cells its own
// material, so that per-instance compositions can be tallied and depleted.
package differentiate

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/paulromano/ecp-benchmarks/pkg/csg"
	"github.com/paulromano/ecp-benchmarks/pkg/material"
)

// ErrInvariant is returned if a differentiated cell ends up with a material
// list that does not match its instance count or reuses an id.
var ErrInvariant = errors.New("differentiation invariant violated")

// Mode selects how instance materials are copied from the template.
type Mode int

const (
	// Shared copies share the template's nuclide table.
	Shared Mode = iota
	// Deep copies get their own nuclide table.
	Deep
)

func (m Mode) String() string {
	if m == Deep {
		return "deep"
	}
	return "shared"
}

// Options are applied to every new material. Zero values leave the
// template's setting.
type Options struct {
	Mode Mode
	// Volume is the volume of one instance in cm³.
	Volume      float64
	Depletable  bool
	Temperature float64
}

// Selector picks the cells to differentiate.
type Selector func(c *csg.Cell) bool

// ByMaterialName selects cells whose material fill matches name.
func ByMaterialName(name string, nm csg.NameMatch) Selector {
	return func(c *csg.Cell) bool {
		m := c.Material()
		return m != nil && nm.Matches(m.Name, name)
	}
}

// ByMaterials selects cells filled with one of mats.
func ByMaterials(mats ...*material.Material) Selector {
	set := make(map[*material.Material]bool, len(mats))
	for _, m := range mats {
		set[m] = true
	}
	return func(c *csg.Cell) bool {
		return c.Material() != nil && set[c.Material()]
	}
}

// ByCellNames selects cells whose name matches any of names.
func ByCellNames(nm csg.NameMatch, names ...string) Selector {
	return func(c *csg.Cell) bool {
		for _, n := range names {
			if nm.Matches(c.Name, n) {
				return true
			}
		}
		return false
	}
}

// Result describes what a pass changed.
type Result struct {
	Cells     []*csg.Cell
	Materials []*material.Material
	// PreviousMaxID is the largest material id before the pass. New ids run
	// from PreviousMaxID+1 to LastID.
	PreviousMaxID int
	LastID        int
}

// Differentiate replaces the single-material fill of every selected cell
// with one copy per instance. Ids are assigned to the geometry first; new
// material ids continue from the largest id in use. Cells that are selected
// but not filled by a single material are skipped.
func Differentiate(g *csg.Geometry, sel Selector, opts Options, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if g == nil || g.Root == nil {
		return nil, fmt.Errorf("differentiate: no geometry")
	}
	if err := g.AssignIDs(); err != nil {
		return nil, fmt.Errorf("differentiate: %w", err)
	}
	if err := g.CountInstances(); err != nil {
		return nil, fmt.Errorf("differentiate: %w", err)
	}

	res := &Result{PreviousMaxID: g.MaxMaterialID()}
	next := res.PreviousMaxID

	for _, c := range g.Cells() {
		if !sel(c) {
			continue
		}
		tmpl := c.Material()
		if c.Fill() != csg.FillMaterial || tmpl == nil {
			logger.Debug("Skipping cell without a single material fill",
				zap.String("cell", c.Name),
				zap.Stringer("fill", c.Fill()))
			continue
		}
		if c.NumInstances == 0 {
			logger.Warn("Skipping cell with no instances",
				zap.String("cell", c.Name),
				zap.String("material", tmpl.Name))
			continue
		}

		copies := make([]*material.Material, c.NumInstances)
		for i := range copies {
			var m *material.Material
			if opts.Mode == Deep {
				m = tmpl.DeepCopy()
			} else {
				m = tmpl.Clone()
			}
			next++
			m.ID = next
			if opts.Volume > 0 {
				m.Volume = opts.Volume
			}
			if opts.Depletable {
				m.Depletable = true
			}
			if opts.Temperature > 0 {
				m.Temperature = opts.Temperature
			}
			copies[i] = m
		}
		c.FillMaterials(copies)

		res.Cells = append(res.Cells, c)
		res.Materials = append(res.Materials, copies...)
		logger.Debug("Differentiated cell",
			zap.String("cell", c.Name),
			zap.String("material", tmpl.Name),
			zap.Int("instances", c.NumInstances))
	}
	res.LastID = next

	if err := check(res); err != nil {
		return nil, err
	}
	logger.Info("Differentiated materials",
		zap.Int("cells", len(res.Cells)),
		zap.Int("materials", len(res.Materials)),
		zap.Stringer("mode", opts.Mode),
		zap.Int("first_id", res.PreviousMaxID+1),
		zap.Int("last_id", res.LastID))
	return res, nil
}

func check(res *Result) error {
	seen := make(map[int]bool, len(res.Materials))
	for _, c := range res.Cells {
		ms := c.Materials()
		if c.NumInstances == 0 || len(ms) != c.NumInstances {
			return fmt.Errorf("cell %q has %d materials for %d instances: %w", c.Name, len(ms), c.NumInstances, ErrInvariant)
		}
		for _, m := range ms {
			if m.ID <= res.PreviousMaxID || seen[m.ID] {
				return fmt.Errorf("cell %q: material id %d reused: %w", c.Name, m.ID, ErrInvariant)
			}
			seen[m.ID] = true
		}
	}
	return nil
}

package csg

import (
	"errors"

	"github.com/paulromano/ecp-benchmarks/pkg/material"
)

// ErrFillConflict is returned when a cell definition names more than one
// kind of fill.
var ErrFillConflict = errors.New("cell has conflicting fills")

// FillKind says what occupies a cell.
type FillKind int

const (
	FillVoid FillKind = iota
	FillMaterial
	FillDistribMaterial
	FillUniverse
	FillLattice
)

func (k FillKind) String() string {
	switch k {
	case FillMaterial:
		return "material"
	case FillDistribMaterial:
		return "distribmat"
	case FillUniverse:
		return "universe"
	case FillLattice:
		return "lattice"
	}
	return "void"
}

// Cell is a region of space with a single fill. Setting a fill clears any
// previous one, so the fills are mutually exclusive.
type Cell struct {
	ID     int
	Name   string
	Region Region

	// NumInstances is the number of times the cell appears in the geometry.
	// It is zero until Geometry.CountInstances runs.
	NumInstances int

	kind      FillKind
	material  *material.Material
	materials []*material.Material
	universe  *Universe
	lattice   *RectLattice
}

// NewCell creates a void cell.
func NewCell(name string, region Region) *Cell {
	return &Cell{Name: name, Region: region}
}

// ItemID implements registry.Item.
func (c *Cell) ItemID() int { return c.ID }

// AssignID implements registry.Item.
func (c *Cell) AssignID(id int) { c.ID = id }

func (c *Cell) clearFill() {
	c.kind = FillVoid
	c.material = nil
	c.materials = nil
	c.universe = nil
	c.lattice = nil
}

// FillMaterial fills the cell with m. A nil material leaves the cell void.
func (c *Cell) FillMaterial(m *material.Material) *Cell {
	c.clearFill()
	if m != nil {
		c.kind = FillMaterial
		c.material = m
	}
	return c
}

// FillMaterials fills each instance of the cell with its own material.
func (c *Cell) FillMaterials(ms []*material.Material) *Cell {
	c.clearFill()
	c.kind = FillDistribMaterial
	c.materials = ms
	return c
}

// FillUniverse fills the cell with a universe.
func (c *Cell) FillUniverse(u *Universe) *Cell {
	c.clearFill()
	c.kind = FillUniverse
	c.universe = u
	return c
}

// FillLattice fills the cell with a lattice.
func (c *Cell) FillLattice(l *RectLattice) *Cell {
	c.clearFill()
	c.kind = FillLattice
	c.lattice = l
	return c
}

// Fill returns the fill kind.
func (c *Cell) Fill() FillKind { return c.kind }

// Material returns the single material fill, or nil.
func (c *Cell) Material() *material.Material { return c.material }

// Materials returns the per-instance materials, or nil.
func (c *Cell) Materials() []*material.Material { return c.materials }

// Universe returns the universe fill, or nil.
func (c *Cell) Universe() *Universe { return c.universe }

// Lattice returns the lattice fill, or nil.
func (c *Cell) Lattice() *RectLattice { return c.lattice }

// Universe is a set of cells that together partition space.
type Universe struct {
	ID    int
	Name  string
	Cells []*Cell
}

// NewUniverse creates a universe holding cells.
func NewUniverse(name string, cells ...*Cell) *Universe {
	return &Universe{Name: name, Cells: cells}
}

// ItemID implements registry.Item.
func (u *Universe) ItemID() int { return u.ID }

// AssignID implements registry.Item.
func (u *Universe) AssignID(id int) { u.ID = id }

// AddCell appends cells to the universe.
func (u *Universe) AddCell(cells ...*Cell) *Universe {
	u.Cells = append(u.Cells, cells...)
	return u
}

// FilledWith returns a single-cell universe filled with m.
func FilledWith(name string, m *material.Material) *Universe {
	return NewUniverse(name, NewCell(name, nil).FillMaterial(m))
}

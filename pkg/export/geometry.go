package export

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paulromano/ecp-benchmarks/pkg/csg"
	"github.com/paulromano/ecp-benchmarks/pkg/material"
)

// ErrRoot is returned when a parsed geometry does not have exactly one
// universe that nothing fills.
var ErrRoot = errors.New("geometry root universe is ambiguous")

type xmlGeometry struct {
	XMLName  xml.Name     `xml:"geometry"`
	Surfaces []xmlSurface `xml:"surface"`
	Cells    []xmlCell    `xml:"cell"`
	Lattices []xmlLattice `xml:"lattice"`
}

type xmlSurface struct {
	ID       int    `xml:"id,attr"`
	Name     string `xml:"name,attr,omitempty"`
	Type     string `xml:"type,attr"`
	Coeffs   string `xml:"coeffs,attr"`
	Boundary string `xml:"boundary,attr,omitempty"`
}

type xmlCell struct {
	ID       int    `xml:"id,attr"`
	Name     string `xml:"name,attr,omitempty"`
	Universe int    `xml:"universe,attr"`
	Material string `xml:"material,attr,omitempty"`
	Fill     int    `xml:"fill,attr,omitempty"`
	Region   string `xml:"region,attr,omitempty"`
}

type xmlLattice struct {
	ID        int    `xml:"id,attr"`
	Name      string `xml:"name,attr,omitempty"`
	Pitch     string `xml:"pitch"`
	Outer     int    `xml:"outer,omitempty"`
	Dimension string `xml:"dimension"`
	LowerLeft string `xml:"lower_left"`
	Universes string `xml:"universes"`
}

const void = "void"

func encodeCell(c *csg.Cell, universe int) xmlCell {
	xc := xmlCell{ID: c.ID, Name: c.Name, Universe: universe}
	if c.Region != nil {
		xc.Region = c.Region.String()
	}
	switch c.Fill() {
	case csg.FillVoid:
		xc.Material = void
	case csg.FillMaterial:
		xc.Material = strconv.Itoa(c.Material().ID)
	case csg.FillDistribMaterial:
		ids := make([]string, len(c.Materials()))
		for i, m := range c.Materials() {
			if m == nil {
				ids[i] = void
				continue
			}
			ids[i] = strconv.Itoa(m.ID)
		}
		xc.Material = strings.Join(ids, " ")
	case csg.FillUniverse:
		xc.Fill = c.Universe().ID
	case csg.FillLattice:
		xc.Fill = c.Lattice().ID
	}
	return xc
}

// latticeRows renders universe ids one row per line, layers one after
// another.
func latticeRows(l *csg.RectLattice) string {
	nx := l.Dimension[0]
	var b strings.Builder
	b.WriteByte('\n')
	for i := 0; i < len(l.Universes); i += nx {
		ids := make([]int, nx)
		for j := range ids {
			ids[j] = l.Universes[i+j].ID
		}
		b.WriteString(formatInts(ids))
		b.WriteByte('\n')
	}
	return b.String()
}

func encodeGeometry(g *csg.Geometry) xmlGeometry {
	doc := xmlGeometry{}
	for _, s := range g.Surfaces() {
		xs := xmlSurface{ID: s.ID, Name: s.Name, Type: string(s.Kind), Coeffs: s.CoeffString()}
		if s.Boundary != csg.Transmission {
			xs.Boundary = string(s.Boundary)
		}
		doc.Surfaces = append(doc.Surfaces, xs)
	}
	for _, u := range g.Universes() {
		for _, c := range u.Cells {
			doc.Cells = append(doc.Cells, encodeCell(c, u.ID))
		}
	}
	for _, l := range g.Lattices() {
		xl := xmlLattice{
			ID:        l.ID,
			Name:      l.Name,
			Pitch:     formatFloats(l.Pitch),
			Dimension: formatInts(l.Dimension),
			LowerLeft: formatFloats(l.LowerLeft),
			Universes: latticeRows(l),
		}
		if l.Outer != nil {
			xl.Outer = l.Outer.ID
		}
		doc.Lattices = append(doc.Lattices, xl)
	}
	return doc
}

// WriteGeometry writes geometry.xml. Every object must already have an id.
func WriteGeometry(w io.Writer, g *csg.Geometry) error {
	return encode(w, encodeGeometry(g))
}

// ReadGeometry parses geometry.xml. Material ids are resolved against mats;
// the root is the one universe no cell or lattice fills.
//
// The solver format does not tell a one-entry material list from a single
// material, so a distributed fill of a single-instance cell reads back as a
// material fill of the same material.
func ReadGeometry(r io.Reader, mats []*material.Material) (*csg.Geometry, error) {
	var doc xmlGeometry
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("geometry.xml: %w", err)
	}

	matByID := make(map[int]*material.Material, len(mats))
	for _, m := range mats {
		matByID[m.ID] = m
	}

	surfaces := make(map[int]*csg.Surface, len(doc.Surfaces))
	for _, xs := range doc.Surfaces {
		coeffs, err := parseFloats(xs.Coeffs)
		if err != nil {
			return nil, fmt.Errorf("geometry.xml: surface %d: %w", xs.ID, err)
		}
		s, err := csg.NewSurface(csg.Kind(xs.Type), coeffs)
		if err != nil {
			return nil, fmt.Errorf("geometry.xml: surface %d: %w", xs.ID, err)
		}
		s.ID = xs.ID
		s.Name = xs.Name
		if xs.Boundary != "" {
			s.Boundary = csg.Boundary(xs.Boundary)
		}
		surfaces[s.ID] = s
	}
	lookup := func(id int) (*csg.Surface, bool) {
		s, ok := surfaces[id]
		return s, ok
	}

	universes := make(map[int]*csg.Universe)
	var order []int
	universe := func(id int) *csg.Universe {
		u, ok := universes[id]
		if !ok {
			u = &csg.Universe{ID: id}
			universes[id] = u
			order = append(order, id)
		}
		return u
	}

	filled := make(map[int]bool)
	fills := make(map[*csg.Cell]int)
	for _, xc := range doc.Cells {
		region, err := csg.ParseRegion(xc.Region, lookup)
		if err != nil {
			return nil, fmt.Errorf("geometry.xml: cell %d: %w", xc.ID, err)
		}
		c := csg.NewCell(xc.Name, region)
		c.ID = xc.ID

		if xc.Fill != 0 {
			if xc.Material != "" {
				return nil, fmt.Errorf("geometry.xml: cell %d: %w", xc.ID, csg.ErrFillConflict)
			}
			fills[c] = xc.Fill
			filled[xc.Fill] = true
		} else if err := fillMaterials(c, xc.Material, matByID); err != nil {
			return nil, fmt.Errorf("geometry.xml: cell %d: %w", xc.ID, err)
		}
		universe(xc.Universe).AddCell(c)
	}

	lattices := make(map[int]*csg.RectLattice, len(doc.Lattices))
	for _, xl := range doc.Lattices {
		l, err := decodeLattice(xl, universe)
		if err != nil {
			return nil, fmt.Errorf("geometry.xml: lattice %d: %w", xl.ID, err)
		}
		for _, u := range l.Universes {
			filled[u.ID] = true
		}
		if l.Outer != nil {
			filled[l.Outer.ID] = true
		}
		lattices[l.ID] = l
	}

	for c, id := range fills {
		if l, ok := lattices[id]; ok {
			c.FillLattice(l)
			continue
		}
		u, ok := universes[id]
		if !ok {
			return nil, fmt.Errorf("geometry.xml: cell %d fills unknown universe %d", c.ID, id)
		}
		c.FillUniverse(u)
	}

	var roots []*csg.Universe
	for _, id := range order {
		if !filled[id] {
			roots = append(roots, universes[id])
		}
	}
	if len(roots) != 1 {
		return nil, fmt.Errorf("geometry.xml: %d candidate root universes: %w", len(roots), ErrRoot)
	}
	return csg.NewGeometry(roots[0]), nil
}

func fillMaterials(c *csg.Cell, attr string, mats map[int]*material.Material) error {
	fields := strings.Fields(attr)
	if len(fields) == 0 || (len(fields) == 1 && fields[0] == void) {
		return nil
	}
	resolved := make([]*material.Material, len(fields))
	for i, f := range fields {
		if f == void {
			continue
		}
		id, err := strconv.Atoi(f)
		if err != nil {
			return fmt.Errorf("material %q: %w", f, err)
		}
		m, ok := mats[id]
		if !ok {
			return fmt.Errorf("unknown material %d", id)
		}
		resolved[i] = m
	}
	if len(resolved) == 1 {
		// A one-entry list and a single material are the same fill.
		c.FillMaterial(resolved[0])
		return nil
	}
	c.FillMaterials(resolved)
	return nil
}

func decodeLattice(xl xmlLattice, universe func(int) *csg.Universe) (*csg.RectLattice, error) {
	pitch, err := parseFloats(xl.Pitch)
	if err != nil {
		return nil, err
	}
	lowerLeft, err := parseFloats(xl.LowerLeft)
	if err != nil {
		return nil, err
	}
	dim, err := parseInts(xl.Dimension)
	if err != nil {
		return nil, err
	}
	ids, err := parseInts(xl.Universes)
	if err != nil {
		return nil, err
	}
	l := &csg.RectLattice{
		ID:        xl.ID,
		Name:      xl.Name,
		Pitch:     pitch,
		LowerLeft: lowerLeft,
		Dimension: dim,
	}
	for _, id := range ids {
		l.Universes = append(l.Universes, universe(id))
	}
	if xl.Outer != 0 {
		l.Outer = universe(xl.Outer)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

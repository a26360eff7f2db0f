package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"

	"github.com/paulromano/ecp-benchmarks/pkg/material"
)

type xmlMaterials struct {
	XMLName   xml.Name      `xml:"materials"`
	Materials []xmlMaterial `xml:"material"`
}

type xmlMaterial struct {
	ID          int          `xml:"id,attr"`
	Name        string       `xml:"name,attr,omitempty"`
	Depletable  bool         `xml:"depletable,attr,omitempty"`
	Volume      float64      `xml:"volume,attr,omitempty"`
	Temperature float64      `xml:"temperature,attr,omitempty"`
	Density     xmlDensity   `xml:"density"`
	Nuclides    []xmlNuclide `xml:"nuclide"`
	SAB         []xmlSAB     `xml:"sab"`
}

type xmlDensity struct {
	Value float64 `xml:"value,attr,omitempty"`
	Units string  `xml:"units,attr"`
}

// xmlNuclide carries exactly one of AO and WO.
type xmlNuclide struct {
	Name string   `xml:"name,attr"`
	AO   *float64 `xml:"ao,attr,omitempty"`
	WO   *float64 `xml:"wo,attr,omitempty"`
}

type xmlSAB struct {
	Name string `xml:"name,attr"`
}

func sortedMaterials(mats []*material.Material) []*material.Material {
	out := append([]*material.Material(nil), mats...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func encodeMaterials(mats []*material.Material) xmlMaterials {
	doc := xmlMaterials{}
	for _, m := range sortedMaterials(mats) {
		xm := xmlMaterial{
			ID:          m.ID,
			Name:        m.Name,
			Depletable:  m.Depletable,
			Volume:      m.Volume,
			Temperature: m.Temperature,
			Density:     xmlDensity{Value: m.Density, Units: string(m.Units)},
		}
		if m.Units == material.Sum {
			xm.Density.Value = 0
		}
		for _, n := range m.Nuclides() {
			pct := n.Percent
			xn := xmlNuclide{Name: n.Name}
			if n.Basis == material.WeightPercent {
				xn.WO = &pct
			} else {
				xn.AO = &pct
			}
			xm.Nuclides = append(xm.Nuclides, xn)
		}
		for _, s := range m.SAlphaBeta() {
			xm.SAB = append(xm.SAB, xmlSAB{Name: s})
		}
		doc.Materials = append(doc.Materials, xm)
	}
	return doc
}

// WriteMaterials writes materials.xml, ordered by material id.
func WriteMaterials(w io.Writer, mats []*material.Material) error {
	return encode(w, encodeMaterials(mats))
}

// ReadMaterials parses materials.xml.
func ReadMaterials(r io.Reader) ([]*material.Material, error) {
	var doc xmlMaterials
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("materials.xml: %w", err)
	}
	out := make([]*material.Material, 0, len(doc.Materials))
	for _, xm := range doc.Materials {
		m := material.New(xm.Name, xm.Density.Value, material.DensityUnits(xm.Density.Units))
		m.ID = xm.ID
		m.Depletable = xm.Depletable
		m.Volume = xm.Volume
		m.Temperature = xm.Temperature
		for _, n := range xm.Nuclides {
			switch {
			case n.WO != nil:
				m.AddNuclide(n.Name, *n.WO, material.WeightPercent)
			case n.AO != nil:
				m.AddNuclide(n.Name, *n.AO, material.AtomPercent)
			default:
				return nil, fmt.Errorf("materials.xml: material %d nuclide %s has no fraction", xm.ID, n.Name)
			}
		}
		for _, s := range xm.SAB {
			m.AddSAlphaBeta(s.Name)
		}
		out = append(out, m)
	}
	return out, nil
}

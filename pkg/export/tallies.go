package export

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/paulromano/ecp-benchmarks/pkg/deck"
)

type xmlTallies struct {
	XMLName xml.Name    `xml:"tallies"`
	Meshes  []xmlMesh   `xml:"mesh"`
	Filters []xmlFilter `xml:"filter"`
	Tallies []xmlTally  `xml:"tally"`
}

type xmlMesh struct {
	ID         int    `xml:"id,attr"`
	Name       string `xml:"name,attr,omitempty"`
	Type       string `xml:"type,attr"`
	Dimension  string `xml:"dimension"`
	LowerLeft  string `xml:"lower_left"`
	UpperRight string `xml:"upper_right,omitempty"`
	Width      string `xml:"width,omitempty"`
}

type xmlFilter struct {
	ID   int    `xml:"id,attr"`
	Type string `xml:"type,attr"`
	Bins string `xml:"bins"`
}

type xmlTally struct {
	ID       int    `xml:"id,attr"`
	Name     string `xml:"name,attr,omitempty"`
	Filters  string `xml:"filters,omitempty"`
	Nuclides string `xml:"nuclides,omitempty"`
	Scores   string `xml:"scores"`
}

func encodeTallies(t *deck.Tallies) xmlTallies {
	doc := xmlTallies{}
	for _, m := range t.Meshes() {
		doc.Meshes = append(doc.Meshes, xmlMesh{
			ID:        m.ID,
			Name:      m.Name,
			Type:      "regular",
			Dimension: formatInts(m.Dimension),
			LowerLeft: formatFloats(m.LowerLeft),
			Width:     formatFloats(m.Width),
		})
	}
	for _, f := range t.Filters() {
		doc.Filters = append(doc.Filters, xmlFilter{
			ID:   f.ID,
			Type: string(f.Kind),
			Bins: formatFloats(f.Bins()),
		})
	}
	for _, tl := range t.Tallies {
		ids := make([]int, len(tl.Filters))
		for i, f := range tl.Filters {
			ids[i] = f.ID
		}
		doc.Tallies = append(doc.Tallies, xmlTally{
			ID:       tl.ID,
			Name:     tl.Name,
			Filters:  formatInts(ids),
			Nuclides: strings.Join(tl.Nuclides, " "),
			Scores:   strings.Join(tl.Scores, " "),
		})
	}
	return doc
}

// WriteTallies writes tallies.xml. Filters and meshes shared by several
// tallies are written once.
func WriteTallies(w io.Writer, t *deck.Tallies) error {
	return encode(w, encodeTallies(t))
}

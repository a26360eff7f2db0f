package export

import (
	"encoding/xml"
	"io"

	"github.com/paulromano/ecp-benchmarks/pkg/deck"
)

type xmlPlots struct {
	XMLName xml.Name  `xml:"plots"`
	Plots   []xmlPlot `xml:"plot"`
}

type xmlPlot struct {
	ID         int        `xml:"id,attr"`
	Filename   string     `xml:"filename,attr,omitempty"`
	Type       string     `xml:"type,attr"`
	Basis      string     `xml:"basis,attr"`
	ColorBy    string     `xml:"color_by,attr"`
	Background string     `xml:"background"`
	Origin     string     `xml:"origin"`
	Width      string     `xml:"width"`
	Pixels     string     `xml:"pixels"`
	Colors     []xmlColor `xml:"color"`
}

type xmlColor struct {
	ID  int    `xml:"id,attr"`
	RGB string `xml:"rgb,attr"`
}

func encodePlots(p *deck.Plots) xmlPlots {
	doc := xmlPlots{}
	for _, pl := range p.Plots {
		bg := pl.Background
		if bg == (deck.RGB{}) {
			bg = deck.White
		}
		xp := xmlPlot{
			ID:         pl.ID,
			Filename:   pl.Filename,
			Type:       "slice",
			Basis:      string(pl.Basis),
			ColorBy:    "material",
			Background: bg.String(),
			Origin:     formatFloats(pl.Origin.Slice()),
			Width:      formatFloats(pl.Width[:]),
			Pixels:     formatInts(pl.Pixels[:]),
		}
		for _, c := range pl.Colors {
			xp.Colors = append(xp.Colors, xmlColor{ID: c.Material.ID, RGB: c.RGB.String()})
		}
		doc.Plots = append(doc.Plots, xp)
	}
	return doc
}

// WritePlots writes plots.xml.
func WritePlots(w io.Writer, p *deck.Plots) error {
	return encode(w, encodePlots(p))
}

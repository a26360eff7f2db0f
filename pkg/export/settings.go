package export

import (
	"encoding/xml"
	"io"

	"github.com/paulromano/ecp-benchmarks/pkg/deck"
)

type xmlSettings struct {
	XMLName     xml.Name        `xml:"settings"`
	RunMode     string          `xml:"run_mode"`
	Particles   int             `xml:"particles"`
	Batches     int             `xml:"batches"`
	Inactive    int             `xml:"inactive"`
	Source      *xmlSource      `xml:"source,omitempty"`
	Output      *xmlOutput      `xml:"output,omitempty"`
	SourcePoint *xmlSourcePoint `xml:"sourcepoint,omitempty"`
	Multipole   *bool           `xml:"temperature_multipole,omitempty"`
	Tolerance   *float64        `xml:"temperature_tolerance,omitempty"`
	PTables     *bool           `xml:"ptables,omitempty"`
	Verbosity   int             `xml:"verbosity,omitempty"`
	Mesh        *xmlMesh        `xml:"mesh,omitempty"`
	EntropyMesh int             `xml:"entropy_mesh,omitempty"`
}

type xmlSource struct {
	Space xmlSpace `xml:"space"`
}

// xmlSpace is a box source; type "fission" keeps only sites in
// fissionable material.
type xmlSpace struct {
	Type       string `xml:"type,attr"`
	Parameters string `xml:"parameters"`
}

type xmlOutput struct {
	Tallies *bool `xml:"tallies,omitempty"`
	Summary *bool `xml:"summary,omitempty"`
}

type xmlSourcePoint struct {
	Write bool `xml:"write"`
}

// entropyMeshID is the id of the entropy mesh inside settings.xml, which
// has its own mesh namespace.
const entropyMeshID = 1

func encodeSettings(s *deck.Settings) xmlSettings {
	doc := xmlSettings{
		RunMode:   "eigenvalue",
		Particles: s.Particles,
		Batches:   s.Batches,
		Inactive:  s.Inactive,
		Verbosity: s.Verbosity,
	}
	if src := s.Source; src != nil {
		kind := "box"
		if src.OnlyFissionable {
			kind = "fission"
		}
		doc.Source = &xmlSource{Space: xmlSpace{
			Type:       kind,
			Parameters: formatFloats(append(src.Box.Min.Slice(), src.Box.Max.Slice()...)),
		}}
	}
	if s.Output.Tallies != nil || s.Output.Summary != nil {
		doc.Output = &xmlOutput{Tallies: s.Output.Tallies, Summary: s.Output.Summary}
	}
	if s.SourcePointWrite != nil {
		doc.SourcePoint = &xmlSourcePoint{Write: *s.SourcePointWrite}
	}
	if t := s.Temperature; t != nil {
		doc.Multipole = deck.Bool(t.Multipole)
		tol := t.Tolerance
		doc.Tolerance = &tol
	}
	if s.PTables {
		doc.PTables = deck.Bool(true)
	}
	if e := s.Entropy; e != nil {
		doc.Mesh = &xmlMesh{
			ID:         entropyMeshID,
			Type:       "regular",
			Dimension:  formatInts(e.Dimension[:]),
			LowerLeft:  formatFloats(e.Box.Min.Slice()),
			UpperRight: formatFloats(e.Box.Max.Slice()),
		}
		doc.EntropyMesh = entropyMeshID
	}
	return doc
}

// WriteSettings writes settings.xml for an eigenvalue run.
func WriteSettings(w io.Writer, s *deck.Settings) error {
	return encode(w, encodeSettings(s))
}

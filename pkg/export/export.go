// Package export writes decks as the solver's XML input files and reads
// materials and geometry back.
package export

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/paulromano/ecp-benchmarks/pkg/deck"
)

// Input file names.
const (
	MaterialsFile = "materials.xml"
	GeometryFile  = "geometry.xml"
	SettingsFile  = "settings.xml"
	TalliesFile   = "tallies.xml"
	PlotsFile     = "plots.xml"
)

func encode(w io.Writer, doc any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

type document struct {
	name  string
	write func(io.Writer) error
}

// documents lists the files a deck produces. Tallies and plots are only
// written when present.
func documents(d *deck.Deck) []document {
	docs := []document{
		{MaterialsFile, func(w io.Writer) error { return WriteMaterials(w, d.Materials()) }},
		{GeometryFile, func(w io.Writer) error { return WriteGeometry(w, d.Geometry) }},
	}
	if d.Settings != nil {
		docs = append(docs, document{SettingsFile, func(w io.Writer) error { return WriteSettings(w, d.Settings) }})
	}
	if d.Tallies != nil && len(d.Tallies.Tallies) > 0 {
		docs = append(docs, document{TalliesFile, func(w io.Writer) error { return WriteTallies(w, d.Tallies) }})
	}
	if d.Plots != nil && len(d.Plots.Plots) > 0 {
		docs = append(docs, document{PlotsFile, func(w io.Writer) error { return WritePlots(w, d.Plots) }})
	}
	return docs
}

// Render finalizes d and returns each input file's contents by name.
func Render(d *deck.Deck) (map[string][]byte, error) {
	if err := d.Finalize(); err != nil {
		return nil, err
	}
	out := make(map[string][]byte)
	for _, doc := range documents(d) {
		var buf bytes.Buffer
		if err := doc.write(&buf); err != nil {
			return nil, fmt.Errorf("%s: %w", doc.name, err)
		}
		out[doc.name] = buf.Bytes()
	}
	return out, nil
}

// Write finalizes d and writes its input files into dir, creating it if
// needed. The files are encoded concurrently; the first failure cancels the
// others. It returns the paths written.
func Write(ctx context.Context, dir string, d *deck.Deck, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := d.Finalize(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	docs := documents(d)
	paths := make([]string, len(docs))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, doc := range docs {
		paths[i] = filepath.Join(dir, doc.name)
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			start := time.Now()
			var buf bytes.Buffer
			if err := doc.write(&buf); err != nil {
				return fmt.Errorf("%s: %w", doc.name, err)
			}
			if err := egCtx.Err(); err != nil {
				return err
			}
			if err := os.WriteFile(paths[i], buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("%s: %w", doc.name, err)
			}
			logger.Debug("Wrote input file",
				zap.String("file", paths[i]),
				zap.Int("bytes", buf.Len()),
				zap.Duration("elapsed", time.Since(start)))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	logger.Info("Exported deck",
		zap.String("deck", d.Name),
		zap.String("dir", dir),
		zap.Int("files", len(paths)),
		zap.Int("materials", len(d.Materials())))
	return paths, nil
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/paulromano/ecp-benchmarks/pkg/analytics"
	"github.com/paulromano/ecp-benchmarks/pkg/deck"
	"github.com/paulromano/ecp-benchmarks/pkg/export"
	"github.com/paulromano/ecp-benchmarks/pkg/validation"
)

// Server serves a built deck for inspection: its summary, validation
// report and rendered input files.
type Server struct {
	name   string
	port   int
	logger *zap.Logger

	files   map[string][]byte
	summary *analytics.Summary
	report  *validation.Report
}

// New renders d and creates a server for it.
func New(d *deck.Deck, port int, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	files, err := export.Render(d)
	if err != nil {
		return nil, fmt.Errorf("render deck: %w", err)
	}
	summary, report := analytics.Summarize(d)
	report.Merge(d.Validate())
	return &Server{
		name:    d.Name,
		port:    port,
		logger:  logger,
		files:   files,
		summary: summary,
		report:  report,
	}, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/validation", s.handleValidation)
	mux.HandleFunc("GET /api/files", s.handleFiles)
	mux.HandleFunc("GET /api/files/{name}", s.handleFile)
	mux.HandleFunc("GET /{$}", s.handleIndex)
	return mux
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	s.logger.Info("Inspection server starting",
		zap.String("url", fmt.Sprintf("http://localhost%s", srv.Addr)),
		zap.String("deck", s.name))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html><head><title>%[1]s</title></head>
<body style="font-family:system-ui;margin:2em">
<h1>%[1]s</h1>
<p>%[2]s</p>
<ul>
<li><a href="/api/summary">summary</a></li>
<li><a href="/api/validation">validation</a></li>
<li><a href="/api/files">input files</a></li>
</ul>
</body></html>`, s.name, s.report.Summary)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Encoding response failed", zap.Error(err))
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.summary)
}

func (s *Server) handleValidation(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.report)
}

func (s *Server) handleFiles(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	s.writeJSON(w, names)
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	data, ok := s.files[r.PathValue("name")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("Writing file failed", zap.Error(err))
	}
}

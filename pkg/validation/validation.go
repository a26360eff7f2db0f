// Package validation collects findings about a deck: its config, its
// geometry graph and its depletion setup.
package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalid is wrapped by Report.Err.
var ErrInvalid = errors.New("validation failed")

// Level is the stage that produced a finding.
type Level string

const (
	LevelSchema    Level = "schema"
	LevelGeometry  Level = "geometry"
	LevelDepletion Level = "depletion"
)

// Severity indicates how critical a finding is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Result is a single finding. Path locates the offending object or config
// field, e.g. "cells[Fuel (0)]" or "settings.batches".
type Result struct {
	Level        Level    `json:"level"`
	Severity     Severity `json:"severity"`
	Message      string   `json:"message"`
	Path         string   `json:"path"`
	ActualValue  any      `json:"actual_value,omitempty"`
	Expected     string   `json:"expected,omitempty"`
	ConflictWith string   `json:"conflict_with,omitempty"`
	Suggestions  []string `json:"suggestions,omitempty"`
}

// Deck object paths.

func CellPath(name string) string     { return objectPath("cells", name) }
func UniversePath(name string) string { return objectPath("universes", name) }
func LatticePath(name string) string  { return objectPath("lattices", name) }
func MaterialPath(name string) string { return objectPath("materials", name) }
func SurfacePath(name string) string  { return objectPath("surfaces", name) }

// IDPath locates an object by id when it has no usable name.
func IDPath(kind string, id int) string {
	return objectPath(kind, strconv.Itoa(id))
}

func objectPath(kind, key string) string {
	return kind + "[" + key + "]"
}

// PathKind returns the collection a path points into: "cells" for
// "cells[Fuel (0)]", "settings" for "settings.batches".
func PathKind(path string) string {
	if i := strings.IndexAny(path, "[."); i >= 0 {
		return path[:i]
	}
	return path
}

// Report is the complete validation output.
type Report struct {
	Valid    bool     `json:"valid"`
	Errors   []Result `json:"errors"`
	Warnings []Result `json:"warnings"`
	Info     []Result `json:"info"`
	Summary  string   `json:"summary"`
}

// NewReport creates an empty valid report.
func NewReport() *Report {
	r := &Report{
		Valid:    true,
		Errors:   []Result{},
		Warnings: []Result{},
		Info:     []Result{},
	}
	r.updateSummary()
	return r
}

func (r *Report) add(sev Severity, result Result) {
	result.Severity = sev
	switch sev {
	case SeverityError:
		r.Errors = append(r.Errors, result)
		r.Valid = false
	case SeverityWarning:
		r.Warnings = append(r.Warnings, result)
	default:
		r.Info = append(r.Info, result)
	}
	r.updateSummary()
}

// AddError adds an error and marks the report invalid.
func (r *Report) AddError(result Result) { r.add(SeverityError, result) }

// AddWarning adds a warning.
func (r *Report) AddWarning(result Result) { r.add(SeverityWarning, result) }

// AddInfo adds an informational finding.
func (r *Report) AddInfo(result Result) { r.add(SeverityInfo, result) }

// Merge appends the findings of other. A nil report is ignored.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Info = append(r.Info, other.Info...)
	if !other.Valid {
		r.Valid = false
	}
	r.updateSummary()
}

// All returns every finding, errors first.
func (r *Report) All() []Result {
	out := make([]Result, 0, len(r.Errors)+len(r.Warnings)+len(r.Info))
	out = append(out, r.Errors...)
	out = append(out, r.Warnings...)
	return append(out, r.Info...)
}

// At returns the findings whose path is path.
func (r *Report) At(path string) []Result {
	var out []Result
	for _, res := range r.All() {
		if res.Path == path {
			out = append(out, res)
		}
	}
	return out
}

// ByLevel returns the findings produced by one stage.
func (r *Report) ByLevel(level Level) []Result {
	var out []Result
	for _, res := range r.All() {
		if res.Level == level {
			out = append(out, res)
		}
	}
	return out
}

// Err returns nil for a valid report and otherwise an error carrying the
// first error message.
func (r *Report) Err() error {
	if r.Valid || len(r.Errors) == 0 {
		return nil
	}
	first := r.Errors[0]
	if first.Path != "" {
		return fmt.Errorf("%w: %s: %s (%s)", ErrInvalid, first.Path, first.Message, r.Summary)
	}
	return fmt.Errorf("%w: %s (%s)", ErrInvalid, first.Message, r.Summary)
}

func (r *Report) updateSummary() {
	r.Summary = fmt.Sprintf("%d errors, %d warnings, %d info",
		len(r.Errors), len(r.Warnings), len(r.Info))
}

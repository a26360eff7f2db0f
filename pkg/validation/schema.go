package validation

import (
	"fmt"
	"strings"
)

// Field checks for schema validation. Each adds an error to the report
// when the check fails and reports whether it passed.

// Positive requires v > 0.
func (r *Report) Positive(level Level, path string, v float64) bool {
	if v > 0 {
		return true
	}
	r.AddError(Result{
		Level:       level,
		Message:     fmt.Sprintf("%s must be greater than 0", leaf(path)),
		Path:        path,
		ActualValue: v,
		Expected:    "> 0",
	})
	return false
}

// NonNegative requires v >= 0.
func (r *Report) NonNegative(level Level, path string, v float64) bool {
	if v >= 0 {
		return true
	}
	r.AddError(Result{
		Level:       level,
		Message:     fmt.Sprintf("%s must be non-negative", leaf(path)),
		Path:        path,
		ActualValue: v,
		Expected:    ">= 0",
	})
	return false
}

// OneOf requires v to be one of allowed. The allowed values are offered
// as suggestions.
func (r *Report) OneOf(level Level, path, v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	r.AddError(Result{
		Level:       level,
		Message:     fmt.Sprintf("%s %q is not recognised", leaf(path), v),
		Path:        path,
		ActualValue: v,
		Expected:    strings.Join(allowed, ", "),
		Suggestions: allowed,
	})
	return false
}

// Less requires a < b, reporting the conflict on path a.
func (r *Report) Less(level Level, pathA string, a float64, pathB string, b float64) bool {
	if a < b {
		return true
	}
	r.AddError(Result{
		Level:        level,
		Message:      fmt.Sprintf("%s (%g) must be less than %s (%g)", leaf(pathA), a, leaf(pathB), b),
		Path:         pathA,
		ActualValue:  a,
		Expected:     fmt.Sprintf("< %g", b),
		ConflictWith: pathB,
	})
	return false
}

// leaf is the last element of a dotted path.
func leaf(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}

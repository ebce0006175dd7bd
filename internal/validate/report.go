package validate

import (
	"fmt"
	"strings"
)

// Kind classifies a validation error.
type Kind string

const (
	KindRequired   Kind = "required"
	KindFormat     Kind = "format"
	KindRange      Kind = "range"
	KindOrdering   Kind = "ordering"
	KindTransition Kind = "transition"
	KindUniqueness Kind = "uniqueness"
	KindReference  Kind = "reference"
	KindUnused     Kind = "unused"
)

// Error is a single blocking validation failure.
type Error struct {
	Field   string `yaml:"field"`
	Message string `yaml:"message"`
	Kind    Kind   `yaml:"kind"`
}

func (e Error) String() string {
	return fmt.Sprintf("%s: %s (%s)", e.Field, e.Message, e.Kind)
}

// Warning is a non-blocking finding.
type Warning struct {
	Field   string `yaml:"field"`
	Message string `yaml:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Field, w.Message)
}

// Report is the outcome of validating a project or template.
type Report struct {
	Valid    bool      `yaml:"valid"`
	Errors   []Error   `yaml:"errors,omitempty"`
	Warnings []Warning `yaml:"warnings,omitempty"`
}

// NewReport returns a valid, empty report.
func NewReport() *Report {
	return &Report{Valid: true}
}

// AddError appends a blocking error and marks the report invalid.
func (r *Report) AddError(field string, kind Kind, format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, Error{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Kind:    kind,
	})
}

// AddWarning appends a non-blocking warning.
func (r *Report) AddWarning(field, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

// Merge folds another report into r.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	if !other.Valid {
		r.Valid = false
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Summary returns a one-line description of the report, for logs and
// error messages.
func (r *Report) Summary() string {
	if r.Valid {
		if len(r.Warnings) > 0 {
			return fmt.Sprintf("valid with %d warning(s)", len(r.Warnings))
		}
		return "valid"
	}
	fields := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		fields = append(fields, e.Field)
	}
	return fmt.Sprintf("%d error(s): %s", len(r.Errors), strings.Join(fields, ", "))
}

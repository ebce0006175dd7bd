package render

import (
	"fmt"
	"strings"
	"time"
)

// MissingVariableError reports every required variable absent from the
// merged context, so one pass gives the caller the complete picture.
type MissingVariableError struct {
	Missing []string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("missing required variables: %s", strings.Join(e.Missing, ", "))
}

// Remediation suggests how a caller can recover.
func (e *MissingVariableError) Remediation() string {
	return fmt.Sprintf("supply values for %s via extra variables or template defaults",
		strings.Join(e.Missing, ", "))
}

// EmptyOutputError reports a template that produced no content. A
// document with an empty body is never a successful generation.
type EmptyOutputError struct {
	Template string
}

func (e *EmptyOutputError) Error() string {
	return fmt.Sprintf("template %q produced no content", e.Template)
}

// Remediation suggests how a caller can recover.
func (e *EmptyOutputError) Remediation() string {
	return "give the template a non-empty body or remove the override"
}

// TimeoutError reports that rendering exceeded its wall-clock budget.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("render exceeded time budget of %s", e.Timeout)
}

// ResourceError reports that rendering exceeded its output ceiling.
type ResourceError struct {
	Limit int64
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("render output exceeded limit of %d bytes", e.Limit)
}

package template

import (
	"fmt"
	"strings"
)

// NotFoundError reports that no template matched a resolution request.
type NotFoundError struct {
	Name string
	Type string
}

func (e *NotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("template not found: %q", e.Name)
	}
	return fmt.Sprintf("no default template for document type %q", e.Type)
}

// Remediation suggests how a caller can recover.
func (e *NotFoundError) Remediation() string {
	if e.Name != "" {
		return fmt.Sprintf("install a template named %q or omit the override to use the built-in default", e.Name)
	}
	return "use one of the built-in document types: spec, plan, marketing"
}

// SyntaxError reports invalid template source. Line is 1-based within
// the template body (after the frontmatter).
type SyntaxError struct {
	Name    string
	Line    int
	Message string
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("template %q: line %d: %s", e.Name, e.Line, e.Message)
	}
	return fmt.Sprintf("template %q: %s", e.Name, e.Message)
}

// CircularInheritanceError reports a cycle in an extends chain.
type CircularInheritanceError struct {
	Chain []string
}

func (e *CircularInheritanceError) Error() string {
	return fmt.Sprintf("circular template inheritance: %s", strings.Join(e.Chain, " -> "))
}

// IncludeLimitError reports that include resolution exceeded the depth
// or count guard.
type IncludeLimitError struct {
	Name  string
	Depth int
	Count int
}

func (e *IncludeLimitError) Error() string {
	if e.Depth > MaxIncludeDepth {
		return fmt.Sprintf("template %q: include depth %d exceeds maximum %d", e.Name, e.Depth, MaxIncludeDepth)
	}
	return fmt.Sprintf("template %q: %d includes exceed maximum %d", e.Name, e.Count, MaxIncludes)
}

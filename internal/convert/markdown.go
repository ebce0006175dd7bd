package convert

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/iDorgham/DocGen-sub001/internal/model"
)

// Markdown passes rendered content through with a final
// well-formedness check: unbalanced code fences fail the conversion,
// dangling reference links downgrade to warnings since they still
// render as legible text.
func (c *Converter) Markdown(rendered string) (*Output, error) {
	if err := checkFences(rendered); err != nil {
		return nil, &Error{Format: model.FormatMarkdown, Reason: err.Error()}
	}
	return &Output{
		Format:   model.FormatMarkdown,
		Content:  []byte(rendered),
		Warnings: danglingReferenceLinks(rendered),
	}, nil
}

func checkFences(content string) error {
	open := false
	openLine := 0
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if open {
				open = false
			} else {
				open = true
				openLine = i + 1
			}
		}
	}
	if open {
		return fmt.Errorf("unbalanced code fence opened at line %d", openLine)
	}
	return nil
}

var (
	refLinkRe = regexp.MustCompile(`\[[^\]]+\]\[([^\]]+)\]`)
	refDefRe  = regexp.MustCompile(`(?m)^\s*\[([^\]]+)\]:\s+\S`)
)

// danglingReferenceLinks reports [text][ref] usages with no matching
// [ref]: definition.
func danglingReferenceLinks(content string) []string {
	defs := make(map[string]bool)
	for _, m := range refDefRe.FindAllStringSubmatch(content, -1) {
		defs[strings.ToLower(m[1])] = true
	}

	var warnings []string
	seen := make(map[string]bool)
	for _, m := range refLinkRe.FindAllStringSubmatch(content, -1) {
		ref := strings.ToLower(m[1])
		if !defs[ref] && !seen[ref] {
			seen[ref] = true
			warnings = append(warnings, fmt.Sprintf("dangling reference link [%s]", m[1]))
		}
	}
	return warnings
}

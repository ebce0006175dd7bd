package render

import (
	"encoding/json"
	"fmt"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/yuin/goldmark"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"gopkg.in/yaml.v3"
)

// Funcs returns the registered filter set. This is the complete list
// of functions callable from inside a template; templates have no
// other way to reach the filesystem, the network, or arbitrary code.
func Funcs() texttemplate.FuncMap {
	return texttemplate.FuncMap{
		"formatDate":     formatDate,
		"formatNumber":   formatNumber,
		"formatCurrency": formatCurrency,
		"truncate":       truncate,
		"markdown":       markdownToHTML,
		"toJSON":         toJSON,
		"toYAML":         toYAML,
		"join":           join,
		"upper":          strings.ToUpper,
		"lower":          strings.ToLower,
	}
}

// formatDate formats a time value using a Go reference-time layout.
// Accepts time.Time, *time.Time, or an RFC 3339 string.
func formatDate(layout string, v any) (string, error) {
	switch t := v.(type) {
	case time.Time:
		return t.Format(layout), nil
	case *time.Time:
		if t == nil {
			return "", nil
		}
		return t.Format(layout), nil
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return "", fmt.Errorf("formatDate: %w", err)
		}
		return parsed.Format(layout), nil
	case nil:
		return "", nil
	}
	return "", fmt.Errorf("formatDate: unsupported type %T", v)
}

func formatNumber(v any) (string, error) {
	p := message.NewPrinter(language.English)
	switch n := v.(type) {
	case int, int32, int64, uint, uint32, uint64, float32, float64:
		return p.Sprintf("%v", number.Decimal(n)), nil
	}
	return "", fmt.Errorf("formatNumber: unsupported type %T", v)
}

func formatCurrency(code string, amount float64) (string, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("formatCurrency: %w", err)
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", currency.Symbol(unit.Amount(amount))), nil
}

// truncate shortens s to at most n runes, appending an ellipsis when
// anything was cut.
func truncate(n int, s string) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func markdownToHTML(s string) (string, error) {
	var buf strings.Builder
	if err := goldmark.Convert([]byte(s), &buf); err != nil {
		return "", fmt.Errorf("markdown: %w", err)
	}
	return buf.String(), nil
}

func toJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("toJSON: %w", err)
	}
	return string(data), nil
}

func toYAML(v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("toYAML: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func join(sep string, items []string) string {
	return strings.Join(items, sep)
}

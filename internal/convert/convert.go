// Package convert transforms rendered text into terminal output
// formats: markdown passthrough, HTML with a style shell, and PDF via
// an HTML-to-PDF layout engine. Each conversion is a pure function of
// the rendered text; failures are values the orchestrator inspects to
// drive its graceful-degradation fallback.
package convert

import (
	"fmt"

	"github.com/iDorgham/DocGen-sub001/internal/model"
)

// Error reports a format-specific conversion failure.
type Error struct {
	Format model.OutputFormat
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s conversion failed: %s: %v", e.Format, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s conversion failed: %s", e.Format, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Remediation suggests how a caller can recover.
func (e *Error) Remediation() string {
	if e.Format == model.FormatPDF {
		return "install wkhtmltopdf or request markdown/html output"
	}
	if !e.Format.Valid() {
		return "request one of markdown, html, pdf"
	}
	return "inspect the rendered content for the reported defect"
}

// Output is a converted document payload.
type Output struct {
	Format   model.OutputFormat
	Content  []byte
	Warnings []string
}

// Options carries per-conversion settings.
type Options struct {
	// Title is used for the HTML document title and PDF header.
	Title string

	// TOC enables table-of-contents generation for HTML (and
	// therefore PDF).
	TOC bool

	// PageSize is the PDF page size, e.g. "A4". Empty means A4.
	PageSize string

	// MarginMM is the uniform PDF page margin in millimetres.
	// Zero means the engine default.
	MarginMM int
}

// LayoutEngine paginates HTML into PDF bytes.
// Implementations: wkhtmltopdfEngine.
type LayoutEngine interface {
	Render(html []byte, opts Options) ([]byte, error)
}

// Converter converts rendered content into output formats.
type Converter struct {
	pdf LayoutEngine
}

// New creates a converter using the wkhtmltopdf layout engine.
func New() *Converter {
	return &Converter{pdf: &wkhtmltopdfEngine{}}
}

// NewWithEngine creates a converter with an explicit layout engine
// (for testing).
func NewWithEngine(engine LayoutEngine) *Converter {
	return &Converter{pdf: engine}
}

// Convert produces the requested format from rendered content.
func (c *Converter) Convert(rendered string, format model.OutputFormat, opts Options) (*Output, error) {
	switch format {
	case model.FormatMarkdown:
		return c.Markdown(rendered)
	case model.FormatHTML:
		return c.HTML(rendered, opts)
	case model.FormatPDF:
		return c.PDF(rendered, opts)
	}
	return nil, &Error{Format: format, Reason: fmt.Sprintf("unknown output format %q", format)}
}

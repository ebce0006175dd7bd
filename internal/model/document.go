package model

import (
	"time"

	"github.com/google/uuid"
)

// OutputFormat is the terminal format of a generated document.
type OutputFormat string

const (
	FormatMarkdown OutputFormat = "markdown"
	FormatHTML     OutputFormat = "html"
	FormatPDF      OutputFormat = "pdf"
)

// Valid reports whether f is a known output format.
func (f OutputFormat) Valid() bool {
	switch f {
	case FormatMarkdown, FormatHTML, FormatPDF:
		return true
	}
	return false
}

// Ext returns the file extension for the format, including the dot.
func (f OutputFormat) Ext() string {
	switch f {
	case FormatHTML:
		return ".html"
	case FormatPDF:
		return ".pdf"
	default:
		return ".md"
	}
}

// Document is one generated output artifact. It references its project
// but has an independent lifecycle: every generation call creates a
// fresh Document, never mutating a prior one.
type Document struct {
	ID              string         `yaml:"id"`
	ProjectID       string         `yaml:"project_id"`
	Type            DocumentType   `yaml:"type"`
	Format          OutputFormat   `yaml:"format"`
	TemplateName    string         `yaml:"template_name"`
	TemplateVersion string         `yaml:"template_version"`
	Variables       map[string]any `yaml:"variables,omitempty"`
	GeneratedAt     time.Time      `yaml:"generated_at"`
	SizeBytes       int64          `yaml:"size_bytes"`
	RenderDuration  time.Duration  `yaml:"render_duration"`
	Path            string         `yaml:"path,omitempty"`

	// Content is the generated payload. Not persisted in the metadata
	// record; it lives in the output file itself.
	Content []byte `yaml:"-"`
}

// NewDocument creates a document record for a generation run.
func NewDocument(projectID string, docType DocumentType, format OutputFormat) *Document {
	return &Document{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		Type:        docType,
		Format:      format,
		GeneratedAt: time.Now().UTC(),
	}
}

// SetMeasurement records content size and render duration together.
// The two are an atomic measurement: one is never set without the other.
func (d *Document) SetMeasurement(size int64, renderDuration time.Duration) {
	d.SizeBytes = size
	d.RenderDuration = renderDuration
}

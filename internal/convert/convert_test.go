package convert

import (
	"errors"
	"strings"
	"testing"

	"github.com/iDorgham/DocGen-sub001/internal/model"
)

// fakeEngine is a LayoutEngine stand-in for tests.
type fakeEngine struct {
	output []byte
	err    error
	gotIn  []byte
	gotOps Options
}

func (f *fakeEngine) Render(html []byte, opts Options) ([]byte, error) {
	f.gotIn = html
	f.gotOps = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

func TestMarkdownPassthrough(t *testing.T) {
	c := New()
	src := "# Title\n\nSome content.\n\n```go\nfunc main() {}\n```\n"

	out, err := c.Markdown(src)
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if string(out.Content) != src {
		t.Error("markdown content must pass through unchanged")
	}
	if out.Format != model.FormatMarkdown {
		t.Errorf("Format = %s", out.Format)
	}
	if len(out.Warnings) != 0 {
		t.Errorf("Warnings = %v", out.Warnings)
	}
}

func TestMarkdownUnbalancedFence(t *testing.T) {
	c := New()
	src := "line one\n```go\nfunc main() {}\n"

	_, err := c.Markdown(src)
	var convErr *Error
	if !errors.As(err, &convErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if !strings.Contains(convErr.Reason, "line 2") {
		t.Errorf("Reason = %q, want fence line position", convErr.Reason)
	}
}

func TestMarkdownDanglingReferenceLinks(t *testing.T) {
	c := New()
	src := "See [the docs][docs] and [the spec sheet][sheet].\n\n[docs]: https://example.com/docs\n"

	out, err := c.Markdown(src)
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if len(out.Warnings) != 1 || !strings.Contains(out.Warnings[0], "[sheet]") {
		t.Errorf("Warnings = %v, want one dangling-link warning", out.Warnings)
	}
}

func TestHTML(t *testing.T) {
	c := New()
	src := "# Atlas\n\n## Overview\n\nBody text with **bold**.\n"

	out, err := c.HTML(src, Options{})
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	doc := string(out.Content)

	if !strings.Contains(doc, "<!DOCTYPE html>") {
		t.Error("missing document shell")
	}
	if !strings.Contains(doc, "<title>Atlas</title>") {
		t.Errorf("title should default to the first heading: %q", doc)
	}
	if !strings.Contains(doc, "<strong>bold</strong>") {
		t.Error("markdown body not converted")
	}
	if strings.Contains(doc, "nav class=\"toc\"") {
		t.Error("TOC present without being requested")
	}
}

func TestHTMLEscapesRawMarkup(t *testing.T) {
	c := New()
	src := "# Title\n\n<script>alert(1)</script>\n"

	out, err := c.HTML(src, Options{})
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if strings.Contains(string(out.Content), "<script>alert(1)</script>") {
		t.Error("raw HTML from content must be escaped")
	}
}

func TestHTMLTableOfContents(t *testing.T) {
	c := New()
	src := "# Atlas\n\n## Overview\n\ntext\n\n## Features & Phases\n\ntext\n\n```\n# not a heading\n```\n"

	out, err := c.HTML(src, Options{TOC: true, Title: "Custom"})
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	doc := string(out.Content)

	if !strings.Contains(doc, "<title>Custom</title>") {
		t.Error("explicit title ignored")
	}
	if !strings.Contains(doc, "nav class=\"toc\"") {
		t.Fatal("TOC missing")
	}
	if !strings.Contains(doc, `<a href="#overview">Overview</a>`) {
		t.Errorf("TOC entry missing: %q", doc)
	}
	if !strings.Contains(doc, `<a href="#features--phases">`) {
		t.Errorf("slug for punctuated heading wrong: %q", doc)
	}
	if strings.Contains(doc, "#not-a-heading") {
		t.Error("heading inside code fence leaked into TOC")
	}
}

func TestHTMLTOCNeedsTwoHeadings(t *testing.T) {
	c := New()
	out, err := c.HTML("# Only One\n\nbody\n", Options{TOC: true})
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if strings.Contains(string(out.Content), "nav class=\"toc\"") {
		t.Error("single-heading document should not get a TOC")
	}
}

func TestPDF(t *testing.T) {
	engine := &fakeEngine{output: []byte("%PDF-1.4 fake")}
	c := NewWithEngine(engine)

	out, err := c.PDF("# Atlas\n\nbody\n", Options{Title: "Atlas", PageSize: "Letter", MarginMM: 15})
	if err != nil {
		t.Fatalf("PDF: %v", err)
	}
	if string(out.Content) != "%PDF-1.4 fake" {
		t.Error("engine output not returned")
	}
	if !strings.Contains(string(engine.gotIn), "<!DOCTYPE html>") {
		t.Error("engine should receive the HTML variant")
	}
	if engine.gotOps.PageSize != "Letter" || engine.gotOps.MarginMM != 15 {
		t.Errorf("options not forwarded: %+v", engine.gotOps)
	}
}

func TestPDFEngineFailure(t *testing.T) {
	cause := errors.New("wkhtmltopdf not found")
	c := NewWithEngine(&fakeEngine{err: cause})

	_, err := c.PDF("# Atlas\n", Options{})
	var convErr *Error
	if !errors.As(err, &convErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if convErr.Format != model.FormatPDF {
		t.Errorf("Format = %s", convErr.Format)
	}
	if !errors.Is(err, cause) {
		t.Error("engine error not wrapped")
	}
	if convErr.Remediation() == "" {
		t.Error("expected remediation hint")
	}
}

func TestConvertDispatch(t *testing.T) {
	c := NewWithEngine(&fakeEngine{output: []byte("pdf")})

	tests := []struct {
		format model.OutputFormat
		ok     bool
	}{
		{model.FormatMarkdown, true},
		{model.FormatHTML, true},
		{model.FormatPDF, true},
		{model.OutputFormat("docx"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			out, err := c.Convert("# T\n", tt.format, Options{})
			if tt.ok {
				if err != nil {
					t.Fatalf("Convert: %v", err)
				}
				if out.Format != tt.format {
					t.Errorf("Format = %s, want %s", out.Format, tt.format)
				}
			} else if err == nil {
				t.Error("expected error for unknown format")
			}
		})
	}
}

package convert

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/iDorgham/DocGen-sub001/internal/model"
)

// markdownConverter escapes raw HTML in the source: content that looks
// like markup coming from user data is escaped, never executed.
var markdownConverter = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

const htmlShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif;
       max-width: 860px; margin: 2rem auto; padding: 0 1rem;
       color: #1f2328; line-height: 1.6; }
h1, h2, h3 { line-height: 1.25; }
h1 { border-bottom: 1px solid #d1d9e0; padding-bottom: .3em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #d1d9e0; padding: 6px 13px; }
code { background: #f6f8fa; padding: .2em .4em; border-radius: 6px; }
pre code { display: block; padding: 1em; overflow-x: auto; }
nav.toc { background: #f6f8fa; border-radius: 6px; padding: 1em 2em; }
hr { border: 0; border-top: 1px solid #d1d9e0; }
</style>
</head>
<body>
%s%s</body>
</html>
`

// HTML wraps the markdown-converted content in a style shell,
// optionally prefixed with a table of contents generated from the
// heading structure.
func (c *Converter) HTML(rendered string, opts Options) (*Output, error) {
	var body bytes.Buffer
	if err := markdownConverter.Convert([]byte(rendered), &body); err != nil {
		return nil, &Error{Format: model.FormatHTML, Reason: "markdown conversion failed", Err: err}
	}

	toc := ""
	if opts.TOC {
		toc = buildTOC(rendered)
	}

	title := opts.Title
	if title == "" {
		title = firstHeading(rendered)
	}

	doc := fmt.Sprintf(htmlShell, html.EscapeString(title), toc, body.String())
	return &Output{Format: model.FormatHTML, Content: []byte(doc)}, nil
}

var headingRe = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+?)\s*$`)

// buildTOC generates a nested list of links from markdown headings,
// using the same slug rule as goldmark's auto heading IDs.
func buildTOC(markdown string) string {
	matches := headingRe.FindAllStringSubmatch(stripFencedBlocks(markdown), -1)
	if len(matches) < 2 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("<nav class=\"toc\">\n<ul>\n")
	for _, m := range matches {
		level := len(m[1])
		text := m[2]
		indent := strings.Repeat("  ", level-1)
		sb.WriteString(fmt.Sprintf("%s<li><a href=\"#%s\">%s</a></li>\n",
			indent, headingSlug(text), html.EscapeString(text)))
	}
	sb.WriteString("</ul>\n</nav>\n")
	return sb.String()
}

// stripFencedBlocks removes fenced code so # lines inside code are
// not mistaken for headings.
func stripFencedBlocks(markdown string) string {
	var out []string
	open := false
	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			open = !open
			continue
		}
		if !open {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func firstHeading(markdown string) string {
	if m := headingRe.FindStringSubmatch(stripFencedBlocks(markdown)); m != nil {
		return m[2]
	}
	return "Document"
}

var slugStripRe = regexp.MustCompile(`[^\p{L}\p{N}\- ]`)

// headingSlug mirrors goldmark's auto heading ID generation:
// lowercase, punctuation stripped, spaces to hyphens.
func headingSlug(text string) string {
	s := strings.ToLower(text)
	s = slugStripRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "-")
	return s
}

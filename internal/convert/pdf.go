package convert

import (
	"bytes"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"github.com/iDorgham/DocGen-sub001/internal/model"
)

// PDF produces the HTML variant first, then paginates it through the
// layout engine with headers, footers, and page numbers. When the
// engine is unavailable the returned *Error lets the orchestrator
// fall back to the markdown/HTML outputs.
func (c *Converter) PDF(rendered string, opts Options) (*Output, error) {
	htmlOut, err := c.HTML(rendered, opts)
	if err != nil {
		return nil, err
	}

	content, err := c.pdf.Render(htmlOut.Content, opts)
	if err != nil {
		return nil, &Error{Format: model.FormatPDF, Reason: "layout engine failed", Err: err}
	}
	return &Output{Format: model.FormatPDF, Content: content, Warnings: htmlOut.Warnings}, nil
}

// wkhtmltopdfEngine shells out to the wkhtmltopdf binary.
type wkhtmltopdfEngine struct{}

func (e *wkhtmltopdfEngine) Render(html []byte, opts Options) ([]byte, error) {
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, err
	}

	pageSize := opts.PageSize
	if pageSize == "" {
		pageSize = wkhtmltopdf.PageSizeA4
	}
	pdfg.PageSize.Set(pageSize)
	if opts.MarginMM > 0 {
		m := uint(opts.MarginMM)
		pdfg.MarginTop.Set(m)
		pdfg.MarginBottom.Set(m)
		pdfg.MarginLeft.Set(m)
		pdfg.MarginRight.Set(m)
	}

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(html))
	page.FooterFontSize.Set(8)
	page.FooterRight.Set("[page] / [topage]")
	if opts.Title != "" {
		page.HeaderFontSize.Set(8)
		page.HeaderLeft.Set(opts.Title)
	}
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, err
	}
	return pdfg.Bytes(), nil
}

package template

import (
	"errors"
	"fmt"
	"os"
	texttemplate "text/template"

	"github.com/iDorgham/DocGen-sub001/internal/model"
	"github.com/iDorgham/DocGen-sub001/internal/validate"
)

// Installer accepts templates into the custom-template store after
// the same syntax and inheritance checks resolution performs.
type Installer struct {
	store *Store
	cache *Cache
	funcs texttemplate.FuncMap
}

// NewInstaller creates an installer. cache may be nil when no
// resolver cache needs invalidation.
func NewInstaller(store *Store, cache *Cache, funcs texttemplate.FuncMap) *Installer {
	return &Installer{store: store, cache: cache, funcs: funcs}
}

// InstallFromPath installs the template file at path.
func (i *Installer) InstallFromPath(path, name string) (*validate.Report, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}
	return i.Install(content, name)
}

// Install validates content and, when valid, writes it into the
// custom store and invalidates cached resolutions that reference it.
// name, when non-empty, must match the frontmatter name. The report
// carries validation findings; the error return is reserved for I/O
// failures.
func (i *Installer) Install(content []byte, name string) (*validate.Report, error) {
	report, tmpl := i.check(content, name)
	if !report.Valid {
		return report, nil
	}

	if _, err := i.store.Write(tmpl.Name, content); err != nil {
		return report, err
	}
	if i.cache != nil {
		i.cache.Invalidate(tmpl.Name)
	}
	return report, nil
}

// ValidateFromPath runs the install checks against the template file
// at path without writing anything to the store.
func (i *Installer) ValidateFromPath(path string) (*validate.Report, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}
	report, _ := i.check(content, "")
	return report, nil
}

// check runs the full validation pass: frontmatter parse, name and
// type checks, and a resolution against an overlay of the existing
// store so the candidate's extends/include references are verified
// before anything is written. tmpl is non-nil when the report is
// valid.
func (i *Installer) check(content []byte, name string) (*validate.Report, *model.Template) {
	report := validate.NewReport()

	tmpl, err := ParseFile(content)
	if err != nil {
		report.AddError("template", validate.KindFormat, "%v", err)
		return report, nil
	}
	if name != "" && name != tmpl.Name {
		report.AddError("template.name", validate.KindFormat,
			"frontmatter name %q does not match requested name %q", tmpl.Name, name)
		return report, nil
	}
	if !isPartial(tmpl.Name) && !tmpl.Type.Valid() {
		report.AddError("template.type", validate.KindFormat,
			"unknown document type %q", tmpl.Type)
		return report, nil
	}

	overlay := &overlaySource{base: i.store, candidate: tmpl}
	resolver := NewResolver(overlay, nil, i.funcs)
	if _, err := resolver.Resolve(tmpl.Name, tmpl.Type); err != nil {
		addResolveError(report, err)
		return report, nil
	}

	if existing, err := i.store.Load(tmpl.Name); err == nil && existing.BuiltIn {
		report.AddWarning("template.name",
			"custom template shadows built-in template %q", tmpl.Name)
	}
	return report, tmpl
}

func addResolveError(report *validate.Report, err error) {
	var synErr *SyntaxError
	var circErr *CircularInheritanceError
	var limitErr *IncludeLimitError
	switch {
	case errors.As(err, &synErr):
		field := "template.source"
		if synErr.Line > 0 {
			field = fmt.Sprintf("template.source:%d", synErr.Line)
		}
		report.AddError(field, validate.KindFormat, "%s", synErr.Message)
	case errors.As(err, &circErr):
		report.AddError("template.extends", validate.KindReference, "%v", circErr)
	case errors.As(err, &limitErr):
		report.AddError("template.source", validate.KindRange, "%v", limitErr)
	default:
		report.AddError("template", validate.KindReference, "%v", err)
	}
}

// overlaySource serves the install candidate for its own name and
// defers everything else to the base store.
type overlaySource struct {
	base      Source
	candidate *model.Template
}

func (o *overlaySource) Load(name string) (*model.Template, error) {
	if name == o.candidate.Name {
		return o.candidate, nil
	}
	return o.base.Load(name)
}

func (o *overlaySource) LoadDefault(docType model.DocumentType) (*model.Template, error) {
	if string(docType) == o.candidate.Name {
		return o.candidate, nil
	}
	return o.base.LoadDefault(docType)
}

func isPartial(name string) bool {
	return len(name) > 8 && name[:8] == "partial:"
}

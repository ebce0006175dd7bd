// Package generate sequences validation, template resolution,
// rendering, format conversion, and persistence into one generation
// call. The orchestrator holds no mutable state between invocations;
// each call is an independent state-machine run, so concurrent
// generations for different projects are safe.
package generate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iDorgham/DocGen-sub001/internal/config"
	"github.com/iDorgham/DocGen-sub001/internal/convert"
	"github.com/iDorgham/DocGen-sub001/internal/model"
	"github.com/iDorgham/DocGen-sub001/internal/render"
	"github.com/iDorgham/DocGen-sub001/internal/store"
	"github.com/iDorgham/DocGen-sub001/internal/template"
	"github.com/iDorgham/DocGen-sub001/internal/validate"
)

// Options selects what to generate.
type Options struct {
	ProjectID    string
	DocumentType model.DocumentType
	Format       model.OutputFormat

	// TemplateOverride names a template to use instead of the
	// document type's default.
	TemplateOverride string

	// ExtraVariables are caller-supplied bindings; they always win
	// over template defaults, derived variables, and project fields.
	ExtraVariables map[string]any

	// StrictValidation escalates strict-level findings to blocking
	// errors for this call.
	StrictValidation bool
}

// Orchestrator is the public entry point of the generation pipeline.
type Orchestrator struct {
	store     *store.Store
	templates *template.Store
	resolver  *template.Resolver
	installer *template.Installer
	renderer  *render.Renderer
	converter *convert.Converter
	cfg       *config.Config
	log       *logrus.Logger
}

// Deps holds dependencies for constructing an Orchestrator.
type Deps struct {
	Store     *store.Store
	Templates *template.Store
	Resolver  *template.Resolver
	Installer *template.Installer
	Renderer  *render.Renderer
	Converter *convert.Converter
	Config    *config.Config
	Log       *logrus.Logger
}

// New wires an orchestrator from configuration: file store under the
// configured root, cached resolver over the custom+builtin template
// store, renderer with the configured budget, and the wkhtmltopdf
// converter.
func New(cfg *config.Config) *Orchestrator {
	st := store.NewStore(cfg.StorageRoot())
	tmplStore := template.NewStore(st.TemplatesDir())
	cache := template.NewCache()
	funcs := render.Funcs()

	return NewWithDeps(Deps{
		Store:     st,
		Templates: tmplStore,
		Resolver:  template.NewResolver(tmplStore, cache, funcs),
		Installer: template.NewInstaller(tmplStore, cache, funcs),
		Renderer: render.New(render.Options{
			Timeout:        time.Duration(cfg.Render.TimeoutSeconds) * time.Second,
			MaxOutputBytes: int64(cfg.Render.MaxOutputKB) * 1024,
		}),
		Converter: convert.New(),
		Config:    cfg,
	})
}

// NewWithDeps creates an orchestrator with explicit dependencies
// (for testing).
func NewWithDeps(deps Deps) *Orchestrator {
	log := deps.Log
	if log == nil {
		log = logrus.New()
		if level, err := logrus.ParseLevel(deps.Config.Log.Level); err == nil {
			log.SetLevel(level)
		} else {
			log.SetLevel(logrus.WarnLevel)
		}
	}
	return &Orchestrator{
		store:     deps.Store,
		templates: deps.Templates,
		resolver:  deps.Resolver,
		installer: deps.Installer,
		renderer:  deps.Renderer,
		converter: deps.Converter,
		cfg:       deps.Config,
		log:       log,
	}
}

// Store exposes the underlying project store for the CLI layer.
func (o *Orchestrator) Store() *store.Store { return o.store }

// Installer exposes the template installation interface.
func (o *Orchestrator) Installer() *template.Installer { return o.installer }

// Templates exposes the template store for the CLI layer.
func (o *Orchestrator) Templates() *template.Store { return o.templates }

// Generate runs the full pipeline for one document. All failures come
// back as structured values inside the Result, never as panics.
func (o *Orchestrator) Generate(ctx context.Context, opts Options) *Result {
	run := newRun(o.log)

	// Validating
	run.enter(StageValidating)
	if opts.Format == "" {
		opts.Format = model.FormatMarkdown
	}
	project, err := o.validateStage(opts)
	if err != nil {
		return run.fail(err)
	}
	if err := run.checkpoint(ctx); err != nil {
		return run.fail(err)
	}

	// Resolving
	run.enter(StageResolving)
	resolved, err := o.resolver.Resolve(opts.TemplateOverride, opts.DocumentType)
	if err != nil {
		return run.fail(err)
	}
	if err := run.checkpoint(ctx); err != nil {
		return run.fail(err)
	}

	// Rendering
	run.enter(StageRendering)
	rendered, err := o.renderer.Render(ctx, resolved, project, opts.ExtraVariables)
	if err != nil {
		return run.fail(err)
	}
	run.warn(rendered.Warnings...)
	if err := run.checkpoint(ctx); err != nil {
		return run.fail(err)
	}

	// Converting, with graceful degradation toward markdown.
	run.enter(StageConverting)
	convOpts := convert.Options{
		Title:    project.Name,
		TOC:      o.cfg.Output.TOC,
		PageSize: o.cfg.Output.PDFPageSize,
		MarginMM: o.cfg.Output.PDFMarginMM,
	}
	outputs, status, err := o.convertStage(rendered.Content, opts.Format, convOpts, run)
	if err != nil {
		return run.fail(err)
	}
	if err := run.checkpoint(ctx); err != nil {
		return run.fail(err)
	}

	// Persisting: only reached with at least one converted output in
	// hand, which is the one case partial writes are permitted.
	run.enter(StagePersisting)
	var primary *model.Document
	for _, out := range outputs {
		doc := model.NewDocument(project.ID, opts.DocumentType, out.Format)
		doc.TemplateName = resolved.Name
		doc.TemplateVersion = resolved.Version
		doc.Variables = rendered.Variables
		doc.Content = out.Content
		doc.SetMeasurement(int64(len(out.Content)), rendered.Duration)
		run.warn(out.Warnings...)

		if _, err := o.store.WriteDocument(doc); err != nil {
			return run.fail(err)
		}
		if primary == nil {
			primary = doc
		}
	}

	run.enter(StageDone)
	o.log.WithFields(logrus.Fields{
		"project":  project.ID,
		"type":     opts.DocumentType,
		"format":   opts.Format,
		"status":   status,
		"template": resolved.Name,
	}).Debug("generation complete")

	return run.done(status, primary)
}

func (o *Orchestrator) validateStage(opts Options) (*model.Project, error) {
	if !opts.DocumentType.Valid() {
		return nil, &template.NotFoundError{Type: string(opts.DocumentType)}
	}
	if !opts.Format.Valid() {
		return nil, &convert.Error{
			Format: opts.Format,
			Reason: fmt.Sprintf("unknown output format %q", opts.Format),
		}
	}

	project, err := o.store.LoadProject(opts.ProjectID)
	if err != nil {
		return nil, err
	}

	taken, err := o.store.TakenNames(project.ID)
	if err != nil {
		return nil, err
	}

	level, err := validate.ParseLevel(o.cfg.Validation.Level)
	if err != nil {
		return nil, err
	}
	validator := validate.New(validate.Options{
		Level:          level,
		EscalateStrict: o.cfg.Validation.EscalateStrict,
		TakenNames:     taken,
	})
	if opts.StrictValidation {
		validator = validate.New(validate.Options{
			Level:          validate.LevelStrict,
			EscalateStrict: true,
			TakenNames:     taken,
		})
	}

	report := validator.Validate(project)
	if !report.Valid {
		return nil, &validate.Failure{Report: report}
	}
	return project, nil
}

// convertStage converts toward the requested format, degrading
// pdf -> html -> markdown on conversion failure rather than
// discarding the rendered work. The returned slice holds the best
// output first, plus the markdown companion for degraded runs.
func (o *Orchestrator) convertStage(rendered string, format model.OutputFormat, opts convert.Options, run *pipelineRun) ([]*convert.Output, Status, error) {
	out, err := o.converter.Convert(rendered, format, opts)
	if err == nil {
		return []*convert.Output{out}, StatusSuccess, nil
	}

	var convErr *convert.Error
	if !errors.As(err, &convErr) || format == model.FormatMarkdown {
		return nil, StatusFailed, err
	}

	o.log.WithField("format", format).WithError(err).Warn("conversion failed, degrading")
	run.warn(convErr.Error())

	var outputs []*convert.Output
	if format == model.FormatPDF {
		if htmlOut, htmlErr := o.converter.Convert(rendered, model.FormatHTML, opts); htmlErr == nil {
			outputs = append(outputs, htmlOut)
		} else {
			run.warn(htmlErr.Error())
		}
	}
	mdOut, mdErr := o.converter.Convert(rendered, model.FormatMarkdown, opts)
	if mdErr != nil {
		return nil, StatusFailed, err
	}
	outputs = append(outputs, mdOut)
	return outputs, StatusPartial, nil
}

// InstallTemplate validates and installs a custom template,
// invalidating affected cache entries.
func (o *Orchestrator) InstallTemplate(content []byte, name string) (*validate.Report, error) {
	return o.installer.Install(content, name)
}

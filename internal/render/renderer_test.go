package render

import (
	"context"
	"errors"
	"strings"
	"testing"
	texttemplate "text/template"
	"time"

	"github.com/iDorgham/DocGen-sub001/internal/model"
	"github.com/iDorgham/DocGen-sub001/internal/template"
	"github.com/iDorgham/DocGen-sub001/internal/testutil"
)

// fakeSource serves templates from memory for renderer tests.
type fakeSource struct {
	templates map[string]*model.Template
}

func (f *fakeSource) Load(name string) (*model.Template, error) {
	if t, ok := f.templates[name]; ok {
		return t, nil
	}
	return nil, &template.NotFoundError{Name: name}
}

func (f *fakeSource) LoadDefault(docType model.DocumentType) (*model.Template, error) {
	return f.Load(string(docType))
}

func resolve(t *testing.T, funcs texttemplate.FuncMap, templates ...*model.Template) *template.Resolved {
	t.Helper()
	src := &fakeSource{templates: make(map[string]*model.Template)}
	for _, tm := range templates {
		src.templates[tm.Name] = tm
	}
	res, err := template.NewResolver(src, nil, funcs).Resolve(templates[0].Name, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return res
}

func plainTemplate(name, source string) *model.Template {
	return &model.Template{Name: name, Type: model.DocTypeSpec, Version: "1.0.0", Source: source}
}

func TestRenderSuccess(t *testing.T) {
	res := resolve(t, Funcs(),
		plainTemplate("doc", `# {{.project_name}}

Status: {{.project_status}}
Features: {{.feature_count}}
{{range .features}}- {{.Name}}
{{end}}`))

	project := testutil.SampleProject("Atlas")
	result, err := New(Options{}).Render(context.Background(), res, project, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(result.Content, "# Atlas") {
		t.Errorf("content missing project name: %q", result.Content)
	}
	if !strings.Contains(result.Content, "Status: active") {
		t.Errorf("content missing status: %q", result.Content)
	}
	if !strings.Contains(result.Content, "- Search") || !strings.Contains(result.Content, "- Export") {
		t.Errorf("content missing features: %q", result.Content)
	}
	if result.Duration <= 0 {
		t.Error("Duration not recorded")
	}
	if result.Variables["project_name"] != "Atlas" {
		t.Error("Variables not recorded on result")
	}
}

func TestRenderMissingVariablesAllReported(t *testing.T) {
	res := resolve(t, nil, plainTemplate("doc", `{{.alpha}} {{.beta}} {{.project_name}}`))

	_, err := New(Options{}).Render(context.Background(), res, testutil.SampleProject("Atlas"), nil)
	var missErr *MissingVariableError
	if !errors.As(err, &missErr) {
		t.Fatalf("error = %v, want MissingVariableError", err)
	}
	want := []string{"alpha", "beta"}
	if len(missErr.Missing) != len(want) {
		t.Fatalf("Missing = %v, want %v", missErr.Missing, want)
	}
	for i := range want {
		if missErr.Missing[i] != want[i] {
			t.Errorf("Missing = %v, want %v", missErr.Missing, want)
			break
		}
	}
	if missErr.Remediation() == "" {
		t.Error("expected a remediation hint")
	}
}

func TestRenderExtrasWin(t *testing.T) {
	tmpl := plainTemplate("doc", `{{.project_name}} by {{.author}}`)
	tmpl.Defaults = map[string]any{"author": "default author"}
	res := resolve(t, nil, tmpl)

	project := testutil.SampleProject("Atlas")

	t.Run("default applies when unset", func(t *testing.T) {
		result, err := New(Options{}).Render(context.Background(), res, project, nil)
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		if !strings.Contains(result.Content, "default author") {
			t.Errorf("default not applied: %q", result.Content)
		}
	})

	t.Run("extras override project fields and defaults", func(t *testing.T) {
		result, err := New(Options{}).Render(context.Background(), res, project, map[string]any{
			"project_name": "Override",
			"author":       "caller",
		})
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		if !strings.Contains(result.Content, "Override by caller") {
			t.Errorf("extras did not win: %q", result.Content)
		}
	})
}

func TestRenderUnusedDeclaredWarning(t *testing.T) {
	tmpl := plainTemplate("doc", `{{.project_name}}`)
	tmpl.Requires = []string{"audience"}
	res := resolve(t, nil, tmpl)

	result, err := New(Options{}).Render(context.Background(), res, testutil.SampleProject("Atlas"),
		map[string]any{"audience": "engineers"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "never references") {
		t.Errorf("Warnings = %v, want unused-variable warning", result.Warnings)
	}
}

func TestRenderTimeout(t *testing.T) {
	funcs := texttemplate.FuncMap{
		"stall": func() string {
			time.Sleep(200 * time.Millisecond)
			return ""
		},
	}
	res := resolve(t, funcs, plainTemplate("doc", `{{stall}}`))

	_, err := New(Options{Timeout: 20 * time.Millisecond}).
		Render(context.Background(), res, testutil.SampleProject("Atlas"), nil)
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("error = %v, want TimeoutError", err)
	}
	if timeoutErr.Timeout != 20*time.Millisecond {
		t.Errorf("Timeout = %v", timeoutErr.Timeout)
	}
}

func TestRenderOutputLimit(t *testing.T) {
	res := resolve(t, nil, plainTemplate("doc", `{{.payload}}`))

	_, err := New(Options{MaxOutputBytes: 64}).
		Render(context.Background(), res, testutil.SampleProject("Atlas"),
			map[string]any{"payload": strings.Repeat("x", 1024)})
	var resErr *ResourceError
	if !errors.As(err, &resErr) {
		t.Fatalf("error = %v, want ResourceError", err)
	}
	if resErr.Limit != 64 {
		t.Errorf("Limit = %d", resErr.Limit)
	}
}

func TestRenderEmptyOutput(t *testing.T) {
	res := resolve(t, nil, plainTemplate("doc", "\n   \n"))

	_, err := New(Options{}).Render(context.Background(), res, testutil.SampleProject("Atlas"), nil)
	var emptyErr *EmptyOutputError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("error = %v, want EmptyOutputError", err)
	}
	if emptyErr.Template != "doc" {
		t.Errorf("Template = %q", emptyErr.Template)
	}
	if emptyErr.Remediation() == "" {
		t.Error("expected a remediation hint")
	}
}

func TestRenderContextCancellation(t *testing.T) {
	funcs := texttemplate.FuncMap{
		"stall": func() string {
			time.Sleep(200 * time.Millisecond)
			return ""
		},
	}
	res := resolve(t, funcs, plainTemplate("doc", `{{stall}}`))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := New(Options{}).Render(ctx, res, testutil.SampleProject("Atlas"), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestBuildContextLayering(t *testing.T) {
	tmpl := plainTemplate("doc", `{{.project_name}}`)
	tmpl.Defaults = map[string]any{"project_name": "from default", "author": "team"}
	res := resolve(t, nil, tmpl)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	project := testutil.SampleProject("Atlas")

	ctx := BuildContext(res, project, map[string]any{"author": "caller"}, now)

	// Project fields beat chain defaults.
	if ctx["project_name"] != "Atlas" {
		t.Errorf("project_name = %v", ctx["project_name"])
	}
	// Caller extras beat everything.
	if ctx["author"] != "caller" {
		t.Errorf("author = %v", ctx["author"])
	}
	if ctx["current_date"] != now || ctx["generated_at"] != now {
		t.Error("derived time variables not set from now")
	}
	if ctx["template_name"] != "doc" || ctx["template_version"] != "1.0.0" {
		t.Error("template identity variables not set")
	}
	if ctx["feature_count"] != 2 || ctx["phase_count"] != 1 {
		t.Errorf("counts = %v/%v", ctx["feature_count"], ctx["phase_count"])
	}
	if _, ok := ctx["metadata"]; !ok {
		t.Error("metadata should always be present")
	}
}

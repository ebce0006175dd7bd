package template

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	texttemplate "text/template"

	"github.com/iDorgham/DocGen-sub001/internal/model"
	"github.com/iDorgham/DocGen-sub001/internal/testutil"
)

// mapSource is an in-memory Source for resolver tests.
type mapSource struct {
	templates map[string]*model.Template
}

func (m *mapSource) Load(name string) (*model.Template, error) {
	if t, ok := m.templates[name]; ok {
		return t, nil
	}
	return nil, &NotFoundError{Name: name}
}

func (m *mapSource) LoadDefault(docType model.DocumentType) (*model.Template, error) {
	return m.Load(string(docType))
}

func sourceOf(templates ...*model.Template) *mapSource {
	m := &mapSource{templates: make(map[string]*model.Template)}
	for _, t := range templates {
		m.templates[t.Name] = t
	}
	return m
}

func tmpl(name, extends, source string) *model.Template {
	return &model.Template{
		Name:    name,
		Type:    model.DocTypeSpec,
		Version: "1.0.0",
		Extends: extends,
		Source:  source,
	}
}

func execute(t *testing.T, r *Resolved, data map[string]any) string {
	t.Helper()
	var buf bytes.Buffer
	if err := r.Template.ExecuteTemplate(&buf, "main", data); err != nil {
		t.Fatalf("execute: %v", err)
	}
	return buf.String()
}

func TestResolveInheritance(t *testing.T) {
	src := sourceOf(
		tmpl("parent", "", `Header
{{block "body" .}}parent body{{end}}
Footer`),
		tmpl("child", "parent", `{{define "body"}}child body{{end}}`),
	)
	r := NewResolver(src, nil, nil)

	res, err := r.Resolve("child", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if len(res.Chain) != 2 || res.Chain[0] != "child" || res.Chain[1] != "parent" {
		t.Errorf("Chain = %v, want [child parent]", res.Chain)
	}

	out := execute(t, res, nil)
	if !strings.Contains(out, "child body") {
		t.Errorf("child block did not override parent: %q", out)
	}
	if strings.Contains(out, "parent body") {
		t.Errorf("parent block survived override: %q", out)
	}
	if !strings.Contains(out, "Header") || !strings.Contains(out, "Footer") {
		t.Errorf("parent frame missing: %q", out)
	}
}

func TestResolveInheritanceKeepsParentDefault(t *testing.T) {
	src := sourceOf(
		tmpl("parent", "", `{{block "body" .}}parent body{{end}}`),
		tmpl("child", "parent", `{{define "other"}}unrelated{{end}}`),
	)
	r := NewResolver(src, nil, nil)

	res, err := r.Resolve("child", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if out := execute(t, res, nil); !strings.Contains(out, "parent body") {
		t.Errorf("parent block content lost without override: %q", out)
	}
}

func TestResolveCircularInheritance(t *testing.T) {
	src := sourceOf(
		tmpl("a", "b", "A"),
		tmpl("b", "c", "B"),
		tmpl("c", "a", "C"),
	)
	r := NewResolver(src, nil, nil)

	_, err := r.Resolve("a", "")
	var circ *CircularInheritanceError
	if !errors.As(err, &circ) {
		t.Fatalf("error = %v, want CircularInheritanceError", err)
	}
	want := []string{"a", "b", "c", "a"}
	if len(circ.Chain) != len(want) {
		t.Fatalf("Chain = %v, want %v", circ.Chain, want)
	}
	for i := range want {
		if circ.Chain[i] != want[i] {
			t.Errorf("Chain = %v, want %v", circ.Chain, want)
			break
		}
	}
}

func TestResolveSelfInheritance(t *testing.T) {
	src := sourceOf(tmpl("loop", "loop", "body"))
	r := NewResolver(src, nil, nil)

	var circ *CircularInheritanceError
	if _, err := r.Resolve("loop", ""); !errors.As(err, &circ) {
		t.Fatalf("error = %v, want CircularInheritanceError", err)
	}
}

func TestResolveUnknownParent(t *testing.T) {
	src := sourceOf(tmpl("orphan", "ghost", "body"))
	r := NewResolver(src, nil, nil)

	_, err := r.Resolve("orphan", "")
	if err == nil || !strings.Contains(err.Error(), `unknown template "ghost"`) {
		t.Errorf("error = %v, want unknown parent message", err)
	}
}

func TestResolveSyntaxError(t *testing.T) {
	src := sourceOf(tmpl("broken", "", "line one\nline two\n{{if}}\n"))
	r := NewResolver(src, nil, nil)

	_, err := r.Resolve("broken", "")
	var synErr *SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("error = %v, want SyntaxError", err)
	}
	if synErr.Name != "broken" {
		t.Errorf("SyntaxError.Name = %q", synErr.Name)
	}
	if synErr.Line != 3 {
		t.Errorf("SyntaxError.Line = %d, want 3", synErr.Line)
	}
}

func TestResolveSyntaxErrorUnclosedAction(t *testing.T) {
	// An action left open is detected at end of input, so the reported
	// line is where parsing stopped, not where the action began.
	src := sourceOf(tmpl("broken", "", "line one\nline two\n{{.unclosed\n"))
	r := NewResolver(src, nil, nil)

	_, err := r.Resolve("broken", "")
	var synErr *SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("error = %v, want SyntaxError", err)
	}
	if synErr.Line != 4 {
		t.Errorf("SyntaxError.Line = %d, want 4", synErr.Line)
	}
}

func TestResolveIncludes(t *testing.T) {
	src := sourceOf(
		tmpl("doc", "", `Body
{{template "partial:footer" .}}`),
		tmpl("partial:footer", "", "the footer"),
	)
	r := NewResolver(src, nil, nil)

	res, err := r.Resolve("doc", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(res.Includes) != 1 || res.Includes[0] != "partial:footer" {
		t.Errorf("Includes = %v", res.Includes)
	}
	if out := execute(t, res, nil); !strings.Contains(out, "the footer") {
		t.Errorf("include not rendered: %q", out)
	}
}

func TestResolveUnknownInclude(t *testing.T) {
	src := sourceOf(tmpl("doc", "", `{{template "partial:missing" .}}`))
	r := NewResolver(src, nil, nil)

	_, err := r.Resolve("doc", "")
	if err == nil || !strings.Contains(err.Error(), `unknown template "partial:missing"`) {
		t.Errorf("error = %v, want unknown include message", err)
	}
}

func TestResolveIncludeDepthLimit(t *testing.T) {
	templates := []*model.Template{
		tmpl("doc", "", `{{template "inc1" .}}`),
	}
	for i := 1; i <= MaxIncludeDepth+1; i++ {
		templates = append(templates,
			tmpl(fmt.Sprintf("inc%d", i), "", fmt.Sprintf(`{{template "inc%d" .}}`, i+1)))
	}
	r := NewResolver(sourceOf(templates...), nil, nil)

	_, err := r.Resolve("doc", "")
	var limitErr *IncludeLimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("error = %v, want IncludeLimitError", err)
	}
	if limitErr.Depth <= MaxIncludeDepth {
		t.Errorf("Depth = %d, want > %d", limitErr.Depth, MaxIncludeDepth)
	}
}

func TestResolveIncludeCountLimit(t *testing.T) {
	var body strings.Builder
	templates := []*model.Template{}
	for i := 0; i <= MaxIncludes; i++ {
		name := fmt.Sprintf("partial:p%d", i)
		fmt.Fprintf(&body, "{{template %q .}}\n", name)
		templates = append(templates, tmpl(name, "", "x"))
	}
	templates = append(templates, tmpl("doc", "", body.String()))
	r := NewResolver(sourceOf(templates...), nil, nil)

	_, err := r.Resolve("doc", "")
	var limitErr *IncludeLimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("error = %v, want IncludeLimitError", err)
	}
	if limitErr.Count <= MaxIncludes {
		t.Errorf("Count = %d, want > %d", limitErr.Count, MaxIncludes)
	}
}

func TestResolveVariableContract(t *testing.T) {
	parent := tmpl("parent", "", `{{.project_name}} {{block "body" .}}{{end}}`)
	parent.Defaults = map[string]any{"author": "team"}
	child := tmpl("child", "parent", `{{define "body"}}{{.author}} {{.audience}}{{range .features}}{{.Name}}{{end}}{{end}}`)
	child.Requires = []string{"audience", "release_date"}
	child.Defaults = map[string]any{"release_date": "TBD"}

	r := NewResolver(sourceOf(parent, child), nil, nil)
	res, err := r.Resolve("child", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	wantReferenced := []string{"audience", "author", "features", "project_name"}
	if !equalStrings(res.Referenced, wantReferenced) {
		t.Errorf("Referenced = %v, want %v", res.Referenced, wantReferenced)
	}

	// Struct fields of ranged values are not context variables.
	for _, v := range res.Referenced {
		if v == "Name" {
			t.Error("range-scoped field leaked into Referenced")
		}
	}

	wantRequired := []string{"audience", "features", "project_name"}
	if !equalStrings(res.Required, wantRequired) {
		t.Errorf("Required = %v, want %v", res.Required, wantRequired)
	}
	wantOptional := []string{"author", "release_date"}
	if !equalStrings(res.Optional, wantOptional) {
		t.Errorf("Optional = %v, want %v", res.Optional, wantOptional)
	}
	if !equalStrings(res.Declared, []string{"audience", "release_date"}) {
		t.Errorf("Declared = %v", res.Declared)
	}
}

func TestResolveBranchesWithoutElse(t *testing.T) {
	src := sourceOf(tmpl("doc", "", `{{if .flag}}on{{end}}
{{range .features}}{{.Name}}{{end}}
{{with .owner}}set{{end}}`))
	r := NewResolver(src, nil, nil)

	res, err := r.Resolve("doc", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{"features", "flag", "owner"}
	if !equalStrings(res.Referenced, want) {
		t.Errorf("Referenced = %v, want %v", res.Referenced, want)
	}
}

func TestResolveDefaultsMerge(t *testing.T) {
	grand := tmpl("grand", "", "g")
	grand.Defaults = map[string]any{"a": "grand", "b": "grand", "c": "grand"}
	parent := tmpl("parent", "grand", "p")
	parent.Defaults = map[string]any{"b": "parent", "c": "parent"}
	child := tmpl("child", "parent", "c")
	child.Defaults = map[string]any{"c": "child"}

	r := NewResolver(sourceOf(grand, parent, child), nil, nil)
	res, err := r.Resolve("child", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	want := map[string]any{"a": "grand", "b": "parent", "c": "child"}
	for k, v := range want {
		if res.Defaults[k] != v {
			t.Errorf("Defaults[%q] = %v, want %v", k, res.Defaults[k], v)
		}
	}
}

func TestResolveDefaultByType(t *testing.T) {
	src := sourceOf(tmpl("spec", "", "spec body {{.project_name}}"))
	r := NewResolver(src, nil, nil)

	res, err := r.Resolve("", model.DocTypeSpec)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Name != "spec" {
		t.Errorf("Name = %q, want spec", res.Name)
	}
}

func TestResolveWithFuncs(t *testing.T) {
	src := sourceOf(tmpl("doc", "", `{{shout .project_name}}`))
	funcs := texttemplate.FuncMap{
		"shout": strings.ToUpper,
	}
	r := NewResolver(src, nil, funcs)

	res, err := r.Resolve("doc", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	out := execute(t, res, map[string]any{"project_name": "atlas"})
	if out != "ATLAS" {
		t.Errorf("out = %q", out)
	}
}

// stubFuncs registers the function names built-in templates call, so
// they parse without pulling in the real filter set.
func stubFuncs() texttemplate.FuncMap {
	return texttemplate.FuncMap{
		"formatDate": func(layout string, v any) string { return "" },
	}
}

func TestResolveBuiltinStack(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	store := NewStore(env.Templates)
	r := NewResolver(store, NewCache(), stubFuncs())

	for _, docType := range []model.DocumentType{model.DocTypeSpec, model.DocTypePlan, model.DocTypeMarketing} {
		t.Run(string(docType), func(t *testing.T) {
			res, err := r.Resolve("", docType)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if res.Chain[len(res.Chain)-1] != "base" {
				t.Errorf("Chain = %v, want base as root ancestor", res.Chain)
			}
			if len(res.Includes) != 1 || res.Includes[0] != "partial:footer" {
				t.Errorf("Includes = %v", res.Includes)
			}
			for _, required := range []string{"project_name"} {
				if !containsString(res.Required, required) {
					t.Errorf("Required = %v, missing %q", res.Required, required)
				}
			}
		})
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func equalStrings(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

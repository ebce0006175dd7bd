package template

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	texttemplate "text/template"
	"text/template/parse"

	"github.com/iDorgham/DocGen-sub001/internal/model"
)

// Guards against pathological or malicious templates.
const (
	MaxIncludeDepth = 10
	MaxIncludes     = 50
)

// rootName is the name under which the flattened chain executes.
const rootName = "main"

// Resolved is a template after inheritance flattening, include
// resolution, and syntax validation, with its variable contract known.
type Resolved struct {
	Name    string
	Type    model.DocumentType
	Version string

	// Chain lists template names entry-first, root ancestor last.
	Chain []string

	// Includes lists templates pulled in via {{template}} references.
	Includes []string

	// Template is the compiled handle; execute the "main" template.
	Template *texttemplate.Template

	// Defaults is the merged default map, nearest template winning.
	Defaults map[string]any

	// Referenced holds context variable names statically referenced
	// anywhere in the flattened chain, sorted.
	Referenced []string

	// Required variables have no default anywhere in the chain;
	// Optional variables have one. The renderer checks Required
	// against the merged context before executing.
	Required []string
	Optional []string

	// Declared is the union of the chain's `requires` lists.
	Declared []string
}

// Source locates templates by name or document type.
// Implementations: Store (disk + embedded), overlay (install staging).
type Source interface {
	Load(name string) (*model.Template, error)
	LoadDefault(docType model.DocumentType) (*model.Template, error)
}

// Resolver resolves template names into compiled, analyzed templates.
// Results are cached; templates are immutable once installed, so the
// cache is invalidated only on install or update.
type Resolver struct {
	store Source
	cache *Cache
	funcs texttemplate.FuncMap
}

// NewResolver creates a resolver. The cache may be nil to disable
// caching. funcs is the registered filter set templates may call.
func NewResolver(store Source, cache *Cache, funcs texttemplate.FuncMap) *Resolver {
	return &Resolver{store: store, cache: cache, funcs: funcs}
}

// Resolve loads the named template (or the document type's default
// when name is empty), flattens its inheritance chain, resolves
// includes, and returns the compiled result.
func (r *Resolver) Resolve(name string, docType model.DocumentType) (*Resolved, error) {
	if r.cache == nil {
		return r.resolve(name, docType)
	}
	key := name + "|" + string(docType)
	return r.cache.GetOrResolve(key, func() (*Resolved, error) {
		return r.resolve(name, docType)
	})
}

func (r *Resolver) resolve(name string, docType model.DocumentType) (*Resolved, error) {
	entry, err := r.loadEntry(name, docType)
	if err != nil {
		return nil, err
	}

	chain, err := r.buildChain(entry)
	if err != nil {
		return nil, err
	}

	tmpl := texttemplate.New(rootName).Funcs(r.funcs).Option("missingkey=error")

	// Parse root-ancestor first so nearer templates override its blocks.
	root := chain[len(chain)-1]
	if _, err := tmpl.Parse(root.Source); err != nil {
		return nil, syntaxError(root.Name, err)
	}
	for i := len(chain) - 2; i >= 0; i-- {
		if _, err := tmpl.New(chain[i].Name).Parse(chain[i].Source); err != nil {
			return nil, syntaxError(chain[i].Name, err)
		}
	}

	includes, err := r.resolveIncludes(tmpl, entry.Name)
	if err != nil {
		return nil, err
	}

	res := &Resolved{
		Name:     entry.Name,
		Type:     entry.Type,
		Version:  entry.Version,
		Template: tmpl,
	}
	for _, t := range chain {
		res.Chain = append(res.Chain, t.Name)
	}
	for _, inc := range includes {
		res.Includes = append(res.Includes, inc.Name)
	}

	// Merge defaults lowest-priority-first: includes, then the chain
	// from root ancestor down to the entry template.
	res.Defaults = make(map[string]any)
	for _, inc := range includes {
		mergeDefaults(res.Defaults, inc.Defaults)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		mergeDefaults(res.Defaults, chain[i].Defaults)
	}

	declared := make(map[string]bool)
	for _, t := range chain {
		for _, v := range t.Requires {
			declared[v] = true
		}
	}
	for _, inc := range includes {
		for _, v := range inc.Requires {
			declared[v] = true
		}
	}
	res.Declared = sortedKeys(declared)

	referenced := make(map[string]bool)
	for _, t := range tmpl.Templates() {
		if t.Tree != nil && t.Tree.Root != nil {
			collectVariables(t.Tree.Root, referenced)
		}
	}
	res.Referenced = sortedKeys(referenced)

	// Partition referenced and declared variables by default presence.
	union := make(map[string]bool, len(referenced)+len(declared))
	for v := range referenced {
		union[v] = true
	}
	for v := range declared {
		union[v] = true
	}
	for _, v := range sortedKeys(union) {
		if _, ok := res.Defaults[v]; ok {
			res.Optional = append(res.Optional, v)
		} else {
			res.Required = append(res.Required, v)
		}
	}

	return res, nil
}

func (r *Resolver) loadEntry(name string, docType model.DocumentType) (*model.Template, error) {
	if name != "" {
		return r.store.Load(name)
	}
	return r.store.LoadDefault(docType)
}

// buildChain follows the extends chain from entry to root ancestor.
// A template extends at most one parent; cycles are rejected.
func (r *Resolver) buildChain(entry *model.Template) ([]*model.Template, error) {
	chain := []*model.Template{entry}
	visited := map[string]bool{entry.Name: true}
	names := []string{entry.Name}

	current := entry
	for current.Extends != "" {
		parentName := current.Extends
		if visited[parentName] {
			return nil, &CircularInheritanceError{Chain: append(names, parentName)}
		}
		parent, err := r.store.Load(parentName)
		if err != nil {
			return nil, fmt.Errorf("template %q extends unknown template %q: %w",
				current.Name, parentName, err)
		}
		visited[parentName] = true
		names = append(names, parentName)
		chain = append(chain, parent)
		current = parent
	}
	return chain, nil
}

// resolveIncludes loads every template referenced via {{template}}
// that is not already defined in the set, breadth-first, enforcing
// the depth and total-count guards. Returns the loaded includes.
func (r *Resolver) resolveIncludes(tmpl *texttemplate.Template, entryName string) ([]*model.Template, error) {
	var loaded []*model.Template
	total := 0

	pending := missingTemplateRefs(tmpl)
	for depth := 1; len(pending) > 0; depth++ {
		if depth > MaxIncludeDepth {
			return nil, &IncludeLimitError{Name: entryName, Depth: depth}
		}
		var next []string
		for _, incName := range pending {
			total++
			if total > MaxIncludes {
				return nil, &IncludeLimitError{Name: entryName, Count: total}
			}
			inc, err := r.store.Load(incName)
			if err != nil {
				return nil, fmt.Errorf("template %q includes unknown template %q: %w",
					entryName, incName, err)
			}
			if _, err := tmpl.New(incName).Parse(inc.Source); err != nil {
				return nil, syntaxError(incName, err)
			}
			loaded = append(loaded, inc)
		}
		next = missingTemplateRefs(tmpl)
		pending = next
	}
	return loaded, nil
}

// missingTemplateRefs returns {{template}} names referenced but not
// yet defined in the set.
func missingTemplateRefs(tmpl *texttemplate.Template) []string {
	defined := make(map[string]bool)
	for _, t := range tmpl.Templates() {
		defined[t.Name()] = true
	}
	missing := make(map[string]bool)
	for _, t := range tmpl.Templates() {
		if t.Tree == nil || t.Tree.Root == nil {
			continue
		}
		collectTemplateRefs(t.Tree.Root, func(name string) {
			if !defined[name] {
				missing[name] = true
			}
		})
	}
	return sortedKeys(missing)
}

func collectTemplateRefs(node parse.Node, visit func(string)) {
	walk(node, func(n parse.Node) {
		if t, ok := n.(*parse.TemplateNode); ok {
			visit(t.Name)
		}
	})
}

// collectVariables gathers context variable names from field nodes.
// Names with an upper-case initial are struct fields of ranged values
// (Feature, Phase, Deliverable), not context keys, and are skipped.
func collectVariables(node parse.Node, out map[string]bool) {
	walk(node, func(n parse.Node) {
		if f, ok := n.(*parse.FieldNode); ok && len(f.Ident) > 0 {
			name := f.Ident[0]
			if name != "" && !(name[0] >= 'A' && name[0] <= 'Z') {
				out[name] = true
			}
		}
	})
}

// walk visits every node in a parse tree.
func walk(node parse.Node, visit func(parse.Node)) {
	if node == nil {
		return
	}
	visit(node)
	switch n := node.(type) {
	case *parse.ListNode:
		for _, child := range n.Nodes {
			walk(child, visit)
		}
	case *parse.ActionNode:
		walk(n.Pipe, visit)
	case *parse.IfNode:
		walkBranch(&n.BranchNode, visit)
	case *parse.RangeNode:
		walkBranch(&n.BranchNode, visit)
	case *parse.WithNode:
		walkBranch(&n.BranchNode, visit)
	case *parse.TemplateNode:
		walk(n.Pipe, visit)
	case *parse.PipeNode:
		for _, cmd := range n.Cmds {
			walk(cmd, visit)
		}
	case *parse.CommandNode:
		for _, arg := range n.Args {
			walk(arg, visit)
		}
	case *parse.ChainNode:
		walk(n.Node, visit)
	}
}

func walkBranch(b *parse.BranchNode, visit func(parse.Node)) {
	walk(b.Pipe, visit)
	if b.List != nil {
		walk(b.List, visit)
	}
	if b.ElseList != nil {
		walk(b.ElseList, visit)
	}
}

var lineRe = regexp.MustCompile(`:(\d+):`)

// syntaxError converts a text/template parse error into a SyntaxError
// carrying the line position the engine reports.
func syntaxError(name string, err error) *SyntaxError {
	msg := err.Error()
	line := 0
	if m := lineRe.FindStringSubmatch(msg); m != nil {
		line, _ = strconv.Atoi(m[1])
	}
	return &SyntaxError{Name: name, Line: line, Message: msg}
}

func mergeDefaults(dst, src map[string]any) {
	for k, v := range src {
		dst[k] = v
	}
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Package template loads, resolves, and caches document templates.
//
// Templates are markdown-style files with YAML frontmatter. Built-in
// templates ship embedded in the binary; custom templates live under
// the store's custom directory and shadow built-ins of the same name.
package template

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iDorgham/DocGen-sub001/internal/assets"
	"github.com/iDorgham/DocGen-sub001/internal/model"
)

// Store locates templates by name. Resolution order: custom directory
// first, then embedded built-ins.
type Store struct {
	customDir string
}

// NewStore creates a store backed by the given custom-template
// directory. The directory does not need to exist.
func NewStore(customDir string) *Store {
	return &Store{customDir: customDir}
}

// Load returns the template with the given name, custom templates
// shadowing built-ins.
func (s *Store) Load(name string) (*model.Template, error) {
	if t, err := s.loadCustom(name); err == nil {
		return t, nil
	}
	if t, err := loadBuiltin(name); err == nil {
		return t, nil
	}
	return nil, &NotFoundError{Name: name}
}

// LoadDefault returns the default template for a document type. The
// default shares the type's name, so a custom template of that name
// shadows the built-in default.
func (s *Store) LoadDefault(docType model.DocumentType) (*model.Template, error) {
	if !docType.Valid() {
		return nil, &NotFoundError{Type: string(docType)}
	}
	t, err := s.Load(string(docType))
	if err != nil {
		return nil, &NotFoundError{Type: string(docType)}
	}
	return t, nil
}

// List returns all available templates, custom overrides first,
// sorted by name within each group.
func (s *Store) List() ([]*model.Template, error) {
	seen := make(map[string]bool)
	var out []*model.Template

	customs, err := s.listCustom()
	if err != nil {
		return nil, err
	}
	for _, t := range customs {
		seen[t.Name] = true
		out = append(out, t)
	}

	builtins, err := listBuiltins()
	if err != nil {
		return nil, err
	}
	for _, t := range builtins {
		if !seen[t.Name] {
			out = append(out, t)
		}
	}
	return out, nil
}

// Write persists a custom template file. Callers are expected to have
// validated the content first; see Installer.
func (s *Store) Write(name string, content []byte) (string, error) {
	if err := os.MkdirAll(s.customDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create template directory: %w", err)
	}
	path := filepath.Join(s.customDir, fileNameFor(name))
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write template: %w", err)
	}
	return path, nil
}

func (s *Store) loadCustom(name string) (*model.Template, error) {
	// Fast path: file named after the template.
	path := filepath.Join(s.customDir, fileNameFor(name))
	if content, err := os.ReadFile(path); err == nil {
		if t, err := ParseFile(content); err == nil && t.Name == name {
			return t, nil
		}
	}

	// Slow path: scan the directory for a matching frontmatter name.
	customs, err := s.listCustom()
	if err != nil {
		return nil, err
	}
	for _, t := range customs {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, &NotFoundError{Name: name}
}

func (s *Store) listCustom() ([]*model.Template, error) {
	entries, err := os.ReadDir(s.customDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []*model.Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(s.customDir, entry.Name()))
		if err != nil {
			continue
		}
		t, err := ParseFile(content)
		if err != nil {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func loadBuiltin(name string) (*model.Template, error) {
	builtins, err := listBuiltins()
	if err != nil {
		return nil, err
	}
	for _, t := range builtins {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, &NotFoundError{Name: name}
}

func listBuiltins() ([]*model.Template, error) {
	var out []*model.Template
	err := fs.WalkDir(assets.Templates, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".md") {
			return err
		}
		content, err := assets.Templates.ReadFile(path)
		if err != nil {
			return err
		}
		t, err := ParseFile(content)
		if err != nil {
			return fmt.Errorf("built-in template %s: %w", path, err)
		}
		t.BuiltIn = true
		out = append(out, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// fileNameFor maps a template name to its on-disk file name.
// Include names use a "partial:" prefix, which is not filename-safe
// everywhere.
func fileNameFor(name string) string {
	return strings.ReplaceAll(name, ":", "_") + ".md"
}

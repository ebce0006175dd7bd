// Package testutil provides reusable test utilities for DocGen tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iDorgham/DocGen-sub001/internal/model"
)

// TestEnv provides access to isolated test directories
type TestEnv struct {
	Home      string // Mocked HOME directory
	Root      string // Store root (~/.docgen equivalent)
	Templates string // Custom-template directory under the root
	t         *testing.T
}

// SetupTestEnv creates an isolated test environment with mocked HOME.
// Uses t.TempDir() for automatic cleanup and t.Setenv() for automatic env restoration.
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpHome := t.TempDir()
	root := filepath.Join(tmpHome, ".docgen")
	templates := filepath.Join(root, "templates")

	if err := os.MkdirAll(templates, 0755); err != nil {
		t.Fatalf("Failed to create store root: %v", err)
	}

	t.Setenv("HOME", tmpHome)

	return &TestEnv{
		Home:      tmpHome,
		Root:      root,
		Templates: templates,
		t:         t,
	}
}

// CreateFile creates a file with the given content, relative paths
// resolving against the store root.
func (e *TestEnv) CreateFile(path, content string) {
	e.t.Helper()

	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(e.Root, path)
	}

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		e.t.Fatalf("Failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		e.t.Fatalf("Failed to write file %s: %v", fullPath, err)
	}
}

// CreateTemplate writes a custom template file into the store.
func (e *TestEnv) CreateTemplate(fileName, content string) {
	e.t.Helper()
	e.CreateFile(filepath.Join(e.Templates, fileName), content)
}

// ReadFile reads a file, relative paths resolving against the root.
func (e *TestEnv) ReadFile(path string) string {
	e.t.Helper()

	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(e.Root, path)
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		e.t.Fatalf("Failed to read file %s: %v", fullPath, err)
	}
	return string(data)
}

// FileExists checks if a file exists, relative paths resolving
// against the root.
func (e *TestEnv) FileExists(path string) bool {
	e.t.Helper()

	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(e.Root, path)
	}

	_, err := os.Stat(fullPath)
	return err == nil
}

// SampleProject returns a valid project with a feature and a phase.
func SampleProject(name string) *model.Project {
	p := model.NewProject(name, "A sample project for tests.")
	p.Features = []model.Feature{
		{ID: "f-1", Name: "Search", Description: "Full-text search", Priority: model.PriorityHigh, Status: model.FeatureInProgress},
		{ID: "f-2", Name: "Export", Priority: model.PriorityLow, Status: model.FeaturePlanned},
	}
	start := p.CreatedAt
	end := start.AddDate(0, 1, 0)
	p.Phases = []model.Phase{
		{
			ID:        "ph-1",
			Name:      "Discovery",
			StartDate: &start,
			EndDate:   &end,
			Deliverables: []model.Deliverable{
				{Name: "Requirements doc", Completed: true},
				{Name: "Prototype"},
			},
		},
	}
	return p
}

// Package store persists projects and their generated documents under
// a per-user root directory. One YAML record per project, one output
// directory per project for documents. Writes to a single project's
// files are serialized through a file lock; reads are unrestricted.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/iDorgham/DocGen-sub001/internal/model"
)

// ProjectNotFoundError reports a missing project record.
type ProjectNotFoundError struct {
	ID string
}

func (e *ProjectNotFoundError) Error() string {
	return fmt.Sprintf("project not found: %s", e.ID)
}

// Store is the on-disk project store.
type Store struct {
	root string
}

// NewStore creates a store rooted at root (typically ~/.docgen).
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// TemplatesDir returns the custom-template directory under the root.
func (s *Store) TemplatesDir() string {
	return filepath.Join(s.root, "templates")
}

func (s *Store) projectsDir() string {
	return filepath.Join(s.root, "projects")
}

func (s *Store) projectDir(id string) string {
	return filepath.Join(s.projectsDir(), id)
}

func (s *Store) projectFile(id string) string {
	return filepath.Join(s.projectDir(id), "project.yaml")
}

// DocumentsDir returns the output directory for a project's
// generated documents.
func (s *Store) DocumentsDir(projectID string) string {
	return filepath.Join(s.projectDir(projectID), "documents")
}

func (s *Store) lockPath(id string) string {
	return filepath.Join(s.projectDir(id), ".lock")
}

// withLock runs fn while holding the project's file lock.
func (s *Store) withLock(id string, fn func() error) error {
	if err := os.MkdirAll(s.projectDir(id), 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	lock := flock.New(s.lockPath(id))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire project lock: %w", err)
	}
	defer lock.Unlock()
	return fn()
}

// CreateProject persists a new project record. Names must be unique
// among non-deleted projects.
func (s *Store) CreateProject(p *model.Project) error {
	taken, err := s.TakenNames(p.ID)
	if err != nil {
		return err
	}
	for _, name := range taken {
		if name == p.Name {
			return fmt.Errorf("project name %q is already in use", p.Name)
		}
	}
	return s.SaveProject(p)
}

// SaveProject writes the project record atomically under the project
// lock.
func (s *Store) SaveProject(p *model.Project) error {
	return s.withLock(p.ID, func() error {
		data, err := yaml.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal project: %w", err)
		}
		return atomicWrite(s.projectFile(p.ID), data, 0644)
	})
}

// LoadProject reads a project record by ID.
func (s *Store) LoadProject(id string) (*model.Project, error) {
	content, err := os.ReadFile(s.projectFile(id))
	if os.IsNotExist(err) {
		return nil, &ProjectNotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read project record: %w", err)
	}
	var p model.Project
	if err := yaml.Unmarshal(content, &p); err != nil {
		return nil, fmt.Errorf("invalid project record %s: %w", id, err)
	}
	return &p, nil
}

// ListProjects returns all project records, skipping deleted projects
// unless includeDeleted is set.
func (s *Store) ListProjects(includeDeleted bool) ([]*model.Project, error) {
	entries, err := os.ReadDir(s.projectsDir())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []*model.Project
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		p, err := s.LoadProject(entry.Name())
		if err != nil {
			continue
		}
		if p.Status == model.StatusDeleted && !includeDeleted {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// TakenNames returns the names of all non-deleted projects other than
// excludeID, for uniqueness validation.
func (s *Store) TakenNames(excludeID string) ([]string, error) {
	projects, err := s.ListProjects(false)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, p := range projects {
		if p.ID != excludeID {
			names = append(names, p.Name)
		}
	}
	return names, nil
}

// ArchiveProject transitions a project to archived.
func (s *Store) ArchiveProject(id string) error {
	return s.transition(id, model.StatusArchived)
}

// DeleteProject soft-deletes a project. The record and its documents
// stay on disk so generated documents remain inspectable.
func (s *Store) DeleteProject(id string) error {
	return s.transition(id, model.StatusDeleted)
}

func (s *Store) transition(id string, next model.ProjectStatus) error {
	p, err := s.LoadProject(id)
	if err != nil {
		return err
	}
	if err := p.Transition(next); err != nil {
		return err
	}
	return s.SaveProject(p)
}

// PurgeProject hard-deletes a project directory, cascading to its
// generated documents.
func (s *Store) PurgeProject(id string) error {
	if _, err := s.LoadProject(id); err != nil {
		return err
	}
	return os.RemoveAll(s.projectDir(id))
}

// atomicWrite writes via a temp file and rename so readers never see
// a partial record.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/iDorgham/DocGen-sub001/internal/model"
)

// DocumentFileName returns the output file name for a document type
// and format, e.g. "spec.md".
func DocumentFileName(docType model.DocumentType, format model.OutputFormat) string {
	return string(docType) + format.Ext()
}

// WriteDocument persists a generated document and its metadata
// sidecar under the project's output directory, holding the project
// lock. The output file is overwritten only by an explicit
// regeneration call reaching this point; prior outputs of other names
// are untouched.
func (s *Store) WriteDocument(doc *model.Document) (string, error) {
	var path string
	err := s.withLock(doc.ProjectID, func() error {
		dir := s.DocumentsDir(doc.ProjectID)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create documents directory: %w", err)
		}

		path = filepath.Join(dir, DocumentFileName(doc.Type, doc.Format))
		if err := atomicWrite(path, doc.Content, 0644); err != nil {
			return err
		}
		doc.Path = path

		meta, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to marshal document metadata: %w", err)
		}
		return atomicWrite(path+".meta.yaml", meta, 0644)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// ListDocuments returns the metadata records of a project's generated
// documents, newest first.
func (s *Store) ListDocuments(projectID string) ([]*model.Document, error) {
	dir := s.DocumentsDir(projectID)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []*model.Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".meta.yaml") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		var doc model.Document
		if err := yaml.Unmarshal(content, &doc); err != nil {
			continue
		}
		out = append(out, &doc)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].GeneratedAt.After(out[j].GeneratedAt)
	})
	return out, nil
}

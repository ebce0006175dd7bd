package model

// DocumentType identifies the kind of document a template produces.
type DocumentType string

const (
	DocTypeSpec      DocumentType = "spec"
	DocTypePlan      DocumentType = "plan"
	DocTypeMarketing DocumentType = "marketing"
)

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	switch t {
	case DocTypeSpec, DocTypePlan, DocTypeMarketing:
		return true
	}
	return false
}

// Template is a named, versioned template source. Custom templates
// shadow built-in templates of the same name. Syntax is validated at
// install time, not on every render.
type Template struct {
	Name     string         `yaml:"name"`
	Type     DocumentType   `yaml:"type"`
	Version  string         `yaml:"version"`
	Extends  string         `yaml:"extends,omitempty"`
	Requires []string       `yaml:"requires,omitempty"`
	Defaults map[string]any `yaml:"defaults,omitempty"`

	// Source is the template body below the frontmatter.
	Source string `yaml:"-"`

	// BuiltIn marks templates shipped with the binary (read-only).
	BuiltIn bool `yaml:"-"`
}

package template

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/iDorgham/DocGen-sub001/internal/model"
)

// frontmatter mirrors the YAML header of a template file.
type frontmatter struct {
	Name     string         `yaml:"name"`
	Type     string         `yaml:"type"`
	Version  string         `yaml:"version"`
	Extends  string         `yaml:"extends"`
	Requires []string       `yaml:"requires"`
	Defaults map[string]any `yaml:"defaults"`
}

// ParseFile parses a template file: YAML frontmatter between ---
// markers, followed by the template body.
func ParseFile(content []byte) (*model.Template, error) {
	reader := bufio.NewReader(bytes.NewReader(content))

	firstLine, err := reader.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("empty template file")
	}
	if strings.TrimSpace(firstLine) != "---" {
		return nil, fmt.Errorf("template file must start with YAML frontmatter")
	}

	var fm strings.Builder
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("unterminated frontmatter: %w", err)
		}
		if strings.TrimSpace(line) == "---" {
			break
		}
		fm.WriteString(line)
	}

	var header frontmatter
	if err := yaml.Unmarshal([]byte(fm.String()), &header); err != nil {
		return nil, fmt.Errorf("invalid frontmatter: %w", err)
	}
	if header.Name == "" {
		return nil, fmt.Errorf("template frontmatter missing name")
	}
	if header.Version == "" {
		header.Version = "1.0.0"
	}

	var body strings.Builder
	for {
		line, err := reader.ReadString('\n')
		body.WriteString(line)
		if err != nil {
			break
		}
	}

	return &model.Template{
		Name:     header.Name,
		Type:     model.DocumentType(header.Type),
		Version:  header.Version,
		Extends:  header.Extends,
		Requires: header.Requires,
		Defaults: header.Defaults,
		Source:   strings.TrimLeft(body.String(), "\n"),
	}, nil
}

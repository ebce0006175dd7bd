package config

import (
	"os"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Storage: StorageConfig{
			Root: "~/.docgen",
		},
		Validation: ValidationConfig{
			Level:          "comprehensive",
			EscalateStrict: false,
		},
		Render: RenderConfig{
			TimeoutSeconds: 10,
			MaxOutputKB:    8192,
		},
		Output: OutputConfig{
			TOC:         true,
			PDFPageSize: "A4",
			PDFMarginMM: 15,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// WriteDefault writes the default global configuration to a file
func WriteDefault(path string) error {
	content := `# DocGen Global Configuration
version: "1"

# Project and document storage
storage:
  root: ~/.docgen

# Pre-generation validation
validation:
  # basic | comprehensive | strict
  level: comprehensive
  # Promote strict-level findings from warnings to errors
  escalate_strict: false

# Render resource budget
render:
  timeout_seconds: 10
  max_output_kb: 8192

# Output formats
output:
  toc: true
  pdf_page_size: A4
  pdf_margin_mm: 15

log:
  level: warn
`
	return os.WriteFile(path, []byte(content), 0644)
}

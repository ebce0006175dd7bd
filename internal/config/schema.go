package config

// Config represents the full DocGen configuration
type Config struct {
	Version string `yaml:"version" mapstructure:"version"`

	// Storage configuration
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`

	// Validation configuration
	Validation ValidationConfig `yaml:"validation" mapstructure:"validation"`

	// Render configuration
	Render RenderConfig `yaml:"render" mapstructure:"render"`

	// Output configuration
	Output OutputConfig `yaml:"output" mapstructure:"output"`

	// Logging configuration
	Log LogConfig `yaml:"log" mapstructure:"log"`
}

// StorageConfig configures the on-disk project store
type StorageConfig struct {
	// Root is the per-user store directory. "~" expands to the home
	// directory.
	Root string `yaml:"root" mapstructure:"root"`
}

// ValidationConfig configures pre-generation validation
type ValidationConfig struct {
	Level          string `yaml:"level" mapstructure:"level"`
	EscalateStrict bool   `yaml:"escalate_strict" mapstructure:"escalate_strict"`
}

// RenderConfig configures the render resource budget
type RenderConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxOutputKB    int `yaml:"max_output_kb" mapstructure:"max_output_kb"`
}

// OutputConfig configures format conversion
type OutputConfig struct {
	TOC         bool   `yaml:"toc" mapstructure:"toc"`
	PDFPageSize string `yaml:"pdf_page_size" mapstructure:"pdf_page_size"`
	PDFMarginMM int    `yaml:"pdf_margin_mm" mapstructure:"pdf_margin_mm"`
}

// LogConfig configures logging
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

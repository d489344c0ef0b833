// Package config handles physx configuration loading and management.
package config

// Config holds all physx settings.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Output     OutputConfig     `yaml:"output"`
	Validation ValidationConfig `yaml:"validation"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	Format  string `yaml:"format"` // console or json
}

// OutputConfig controls how packed documents are written.
type OutputConfig struct {
	Format string `yaml:"format"` // json or yaml; empty keeps the input format
	Indent int    `yaml:"indent"`
}

// ValidationConfig controls semantic checks after decoding.
type ValidationConfig struct {
	Strict bool `yaml:"strict"` // Fail on range and axis violations, not just wire errors
}

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
			Format:  "console",
		},
		Output: OutputConfig{
			Format: "",
			Indent: 2,
		},
		Validation: ValidationConfig{
			Strict: false,
		},
	}
}

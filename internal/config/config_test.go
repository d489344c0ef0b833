package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvOutputFormat, "")
	t.Setenv(EnvStrict, "")
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("expected console log format, got %s", cfg.Logging.Format)
	}
	if cfg.Output.Format != "" {
		t.Errorf("expected output format to follow input, got %s", cfg.Output.Format)
	}
	if cfg.Output.Indent != 2 {
		t.Errorf("expected indent 2, got %d", cfg.Output.Indent)
	}
	if cfg.Validation.Strict {
		t.Error("expected strict validation to be off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "physx.yaml")

	yamlContent := `
logging:
  level: "debug"
  log_file: "physx.log"
  format: "json"

output:
  format: "yaml"
  indent: 4

validation:
  strict: true
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "physx.log" {
		t.Errorf("expected log file 'physx.log', got %s", cfg.Logging.LogFile)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected json log format, got %s", cfg.Logging.Format)
	}
	if cfg.Output.Format != FormatYAML {
		t.Errorf("expected yaml output, got %s", cfg.Output.Format)
	}
	if cfg.Output.Indent != 4 {
		t.Errorf("expected indent 4, got %d", cfg.Output.Indent)
	}
	if !cfg.Validation.Strict {
		t.Error("expected strict to be true")
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "physx.yaml")
	if err := os.WriteFile(configPath, []byte("validation:\n  strict: true\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Output.Indent != 2 {
		t.Errorf("unset keys should keep defaults, got indent %d", cfg.Output.Indent)
	}
	if !cfg.Validation.Strict {
		t.Error("expected strict to be true")
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
output:
  indent: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/physx.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "physx.yaml")
	if err := os.WriteFile(configPath, []byte("output:\n  indent: 0\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find physx.yaml in current directory")
	}
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLogLevel, "WARN")
	t.Setenv(EnvOutputFormat, "yaml")
	t.Setenv(EnvStrict, "true")

	cfg := Default()
	if err := applyEnv(cfg); err != nil {
		t.Fatalf("applyEnv: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level 'warn', got %s", cfg.Logging.Level)
	}
	if cfg.Output.Format != FormatYAML {
		t.Errorf("expected yaml output, got %s", cfg.Output.Format)
	}
	if !cfg.Validation.Strict {
		t.Error("expected strict from env")
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"format", EnvOutputFormat, "xml"},
		{"strict", EnvStrict, "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if err := applyEnv(Default()); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "format flag",
			setup: func() { *flagFormat = FormatYAML },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Output.Format != FormatYAML {
					t.Errorf("expected yaml output, got %s", cfg.Output.Format)
				}
			},
			teardown: func() { *flagFormat = "" },
		},
		{
			name:  "compact indent",
			setup: func() { *flagIndent = 0 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Output.Indent != 0 {
					t.Errorf("expected indent 0, got %d", cfg.Output.Indent)
				}
			},
			teardown: func() { *flagIndent = -1 },
		},
		{
			name:  "strict flag",
			setup: func() { *flagStrict = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Validation.Strict {
					t.Error("expected strict with --strict")
				}
			},
			teardown: func() { *flagStrict = false },
		},
		{
			name:  "log-json flag",
			setup: func() { *flagLogJSON = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Format != "json" {
					t.Errorf("expected json log format, got %s", cfg.Logging.Format)
				}
			},
			teardown: func() { *flagLogJSON = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "physx.yaml")

	yamlContent := `
logging:
  level: "error"
output:
  format: "json"
  indent: 8
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// File < env < flag
	t.Setenv(EnvOutputFormat, "yaml")
	t.Setenv(EnvLogLevel, "warn")
	*flagConfig = configPath
	*flagDebug = true
	defer func() {
		*flagConfig = ""
		*flagDebug = false
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug' from flag, got %s", cfg.Logging.Level)
	}
	if cfg.Output.Format != FormatYAML {
		t.Errorf("expected yaml from env, got %s", cfg.Output.Format)
	}
	if cfg.Output.Indent != 8 {
		t.Errorf("expected indent 8 from file, got %d", cfg.Output.Indent)
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if err := os.WriteFile(".env", []byte(EnvStrict+"=1\n"), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	// godotenv never overrides a variable that is already set, even to "".
	os.Unsetenv(EnvStrict)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if !cfg.Validation.Strict {
		t.Error("expected strict from .env")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "physx.yaml")

	cfg := Default()
	cfg.Output.Format = FormatYAML
	cfg.Validation.Strict = true
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch: got %+v, want %+v", *loaded, *cfg)
	}
}

func TestSaveToRejectsInvalid(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "xml"
	if err := cfg.SaveTo(filepath.Join(t.TempDir(), "physx.yaml")); err == nil {
		t.Error("expected error saving unknown output format")
	}
}

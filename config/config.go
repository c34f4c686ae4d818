// Package config declares the settings of a minification run and loads
// them from YAML files and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/goccy/go-yaml"
)

// Defaults for a run started without any configuration
const (
	DefaultDataDir    = "data"
	DefaultPattern    = "*.json"
	DefaultConfigFile = ".localemin.yaml"
)

// Environment variables consulted by ApplyEnv
const (
	EnvDataDir = "LOCALEMIN_DATA_DIR"
	EnvJobs    = "LOCALEMIN_JOBS"
)

// Config declares what a run processes and how
type Config struct {
	// Root of the locale data tree
	DataDir string `yaml:"data_dir"`

	// Base-name glob selecting the files to minify
	Pattern string `yaml:"pattern"`

	// Directory names skipped during discovery. Nothing is skipped by default.
	Exclude []string `yaml:"exclude,omitempty"`

	// Number of files processed concurrently; 1 keeps the run sequential
	Jobs int `yaml:"jobs"`

	DryRun  bool `yaml:"dry_run"`
	NoColor bool `yaml:"no_color"`
}

// Default returns the configuration used when nothing else is given
func Default() Config {
	return Config{
		DataDir: DefaultDataDir,
		Pattern: DefaultPattern,
		Jobs:    1,
	}
}

// Load reads a YAML config file over the defaults. A missing file is only
// an error when required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	// Cleared so a data dir set by the file can be told from the default
	cfg.DataDir = ""
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	switch {
	case cfg.DataDir == "":
		cfg.DataDir = DefaultDataDir
	case !filepath.IsAbs(cfg.DataDir):
		// Relative data dirs set in the file are taken relative to it
		cfg.DataDir = filepath.Join(filepath.Dir(path), cfg.DataDir)
	}

	return cfg, nil
}

// ApplyEnv overrides settings from LOCALEMIN_* environment variables
func (c *Config) ApplyEnv() error {
	if dir, ok := os.LookupEnv(EnvDataDir); ok && dir != "" {
		c.DataDir = dir
	}
	if jobs, ok := os.LookupEnv(EnvJobs); ok && jobs != "" {
		n, err := strconv.Atoi(jobs)
		if err != nil {
			return &ConfigError{
				Type:    "invalid_env",
				Message: fmt.Sprintf("%s=%q is not an integer", EnvJobs, jobs),
			}
		}
		c.Jobs = n
	}
	return nil
}

// IsValid validates the run configuration
func (c Config) IsValid() error {
	if c.DataDir == "" {
		return &ConfigError{
			Type:    "missing_data_dir",
			Message: "data directory must be set",
		}
	}

	if c.Pattern == "" {
		return &ConfigError{
			Type:    "missing_pattern",
			Message: "file pattern must be set",
		}
	}
	if _, err := filepath.Match(c.Pattern, ""); err != nil {
		return &ConfigError{
			Type:    "invalid_pattern",
			Message: fmt.Sprintf("%q: %v", c.Pattern, err),
		}
	}

	if c.Jobs < 1 {
		return &ConfigError{
			Type:    "invalid_jobs",
			Message: fmt.Sprintf("jobs must be at least 1, got %d", c.Jobs),
		}
	}

	return nil
}

// IsExcluded reports whether a directory name is skipped during discovery
func (c Config) IsExcluded(name string) bool {
	for _, excluded := range c.Exclude {
		if excluded == name {
			return true
		}
	}
	return false
}

// ConfigError represents configuration validation errors
type ConfigError struct {
	Type    string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Type + ": " + e.Message
}

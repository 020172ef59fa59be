// Package config loads reldir settings from a YAML file, an optional .env
// file and RELDIR_* environment variables, in increasing precedence.
// Command-line flags are applied on top by the CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the normalize and schema commands.
type Config struct {
	// Relationships are inline definition lists, each in the
	// "(A, R, B),(C, S, D)" form accepted by --relationship.
	Relationships []string `yaml:"relationships" env:"RELDIR_RELATIONSHIPS" envSeparator:";"`

	// SchemaFiles are schema source paths. Relative paths in a config
	// file are resolved against the file's directory.
	SchemaFiles []string `yaml:"schema_files" env:"RELDIR_SCHEMA" envSeparator:":"`

	AlwaysEscape bool `yaml:"always_escape" env:"RELDIR_ALWAYS_ESCAPE"`
	PrettyPrint  bool `yaml:"pretty_print" env:"RELDIR_PRETTY_PRINT"`

	// DB is the SQLite run log path; empty disables recording.
	DB string `yaml:"db" env:"RELDIR_DB"`

	// CacheSize bounds the normalizer result cache; 0 uses the default.
	CacheSize int `yaml:"cache_size" env:"RELDIR_CACHE_SIZE"`
}

// Error reports an unreadable or invalid configuration source.
type Error struct {
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: %s", e.Message)
	}
	return fmt.Sprintf("config %s: %s", e.Path, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Load builds a Config from the YAML file at path (skipped when empty),
// then the .env file at envFile (skipped when empty), then the process
// environment.
func Load(path, envFile string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		var err error
		cfg, err = LoadFile(path)
		if err != nil {
			return nil, err
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, &Error{Path: envFile, Message: fmt.Sprintf("loading env file: %v", err), Err: err}
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a YAML config file. Unknown keys are rejected.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Message: fmt.Sprintf("reading config file: %v", err), Err: err}
	}

	cfg := &Config{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &Error{Path: path, Message: fmt.Sprintf("parsing YAML: %v", err), Err: err}
	}
	if err := cfg.validate(); err != nil {
		return nil, &Error{Path: path, Message: err.Error()}
	}

	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// ApplyEnv overrides fields with any RELDIR_* variables that are set.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return &Error{Message: fmt.Sprintf("parsing environment: %v", err), Err: err}
	}
	if err := c.validate(); err != nil {
		return &Error{Message: err.Error()}
	}
	return nil
}

func (c *Config) validate() error {
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}
	for i, p := range c.SchemaFiles {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("schema_files[%d] is empty", i)
		}
	}
	return nil
}

func (c *Config) resolvePaths(base string) {
	for i, p := range c.SchemaFiles {
		if !filepath.IsAbs(p) {
			c.SchemaFiles[i] = filepath.Join(base, p)
		}
	}
	if c.DB != "" && !filepath.IsAbs(c.DB) && !isSpecialDB(c.DB) {
		c.DB = filepath.Join(base, c.DB)
	}
}

// isSpecialDB reports SQLite names that are not file paths.
func isSpecialDB(db string) bool {
	return db == ":memory:" || strings.HasPrefix(db, "file:")
}

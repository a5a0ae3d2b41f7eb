// Package config loads the optional YAML settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileName is looked up next to the data file when --config is not given
const FileName = "config.yaml"

// Defaults
const (
	DefaultLogLevel = "warn"
	DefaultDriver   = "sqlite3"
	DefaultAccent   = "#7D56F4"
)

// Config mirrors config.yaml. Zero values mean "not set"; flags override.
type Config struct {
	DataPath string        `yaml:"data_path"`
	Strict   bool          `yaml:"strict"`
	LogLevel string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	History  HistoryConfig `yaml:"history"`
	Theme    ThemeConfig   `yaml:"theme"`
}

// HistoryConfig controls the SQLite activity log
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Driver  string `yaml:"driver" validate:"oneof=sqlite3 sqlite"`
}

// ThemeConfig controls TUI colors
type ThemeConfig struct {
	Accent string `yaml:"accent" validate:"hexcolor"`
}

var validate = validator.New()

// Default returns the built-in settings
func Default() Config {
	return Config{
		LogLevel: DefaultLogLevel,
		History:  HistoryConfig{Driver: DefaultDriver},
		Theme:    ThemeConfig{Accent: DefaultAccent},
	}
}

// DefaultPath returns config.yaml beside the data file
func DefaultPath(dataPath string) string {
	return filepath.Join(filepath.Dir(dataPath), FileName)
}

// Parse reads YAML on top of the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the config file at path. Relative paths inside the file are
// resolved against the file's directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.resolve(filepath.Dir(path))
	return cfg, nil
}

// LoadOptional is Load, except a missing file yields the defaults
func LoadOptional(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func (c *Config) resolve(base string) {
	if c.DataPath != "" && !filepath.IsAbs(c.DataPath) {
		c.DataPath = filepath.Join(base, c.DataPath)
	}
	if c.History.Path != "" && !filepath.IsAbs(c.History.Path) {
		c.History.Path = filepath.Join(base, c.History.Path)
	}
}

// Validate checks field values
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: invalid value %q", fe.Namespace(), fmt.Sprint(fe.Value())))
			}
			return fmt.Errorf("config validation failed: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Package config describes a device's preference store in a file: its media,
// the layout of named regions, the commit policy and logging.
//
// Files are JSON with comments and trailing commas (.json, .jsonc, .hujson)
// or YAML (.yaml, .yml). Values are layered, highest wins:
//
//  1. Defaults
//  2. The config file
//  3. Command-line overrides
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/tailscale/hujson"
)

// Config holds all configuration options.
type Config struct {
	// Interval is the minimum time between periodic commits ("30s", "1m").
	Interval string `json:"interval,omitempty" yaml:"interval,omitempty"`

	// DefaultClass is the class regions use when they name none.
	DefaultClass string `json:"default_class,omitempty" yaml:"default_class,omitempty"` //nolint:tagliatelle // snake_case for config file

	Media   []Medium `json:"media,omitempty" yaml:"media,omitempty"`
	Regions []Region `json:"regions,omitempty" yaml:"regions,omitempty"`
	Retry   Retry    `json:"retry,omitzero" yaml:"retry,omitempty"`
	Log     Log      `json:"log,omitzero" yaml:"log,omitempty"`
}

// Medium describes one backing medium.
type Medium struct {
	// Kind is rtc, flash or nvs.
	Kind string `json:"kind" yaml:"kind"`
	// Class defaults to Kind.
	Class string `json:"class,omitempty" yaml:"class,omitempty"`
	// Path of the backing file. Optional for rtc (memory only).
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	// Words is the rtc capacity in 4-byte words.
	Words int `json:"words,omitempty" yaml:"words,omitempty"`
	// Size is the flash or nvs capacity in bytes.
	Size int `json:"size,omitempty" yaml:"size,omitempty"`
	// BlockSize is the nvs blob size in bytes.
	BlockSize int `json:"block_size,omitempty" yaml:"block_size,omitempty"` //nolint:tagliatelle // snake_case for config file
	// Namespace is the nvs namespace.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// Region is a named preference. Regions are allocated in file order, so
// appending is safe and reordering moves existing data.
type Region struct {
	Name string `json:"name" yaml:"name"`
	// Type is the type tag, decimal or 0x-prefixed hex.
	Type  string `json:"type" yaml:"type"`
	Words int    `json:"words" yaml:"words"`
	Class string `json:"class,omitempty" yaml:"class,omitempty"`
}

// Retry configures commit retries.
type Retry struct {
	MaxBackoff  string `json:"max_backoff,omitempty" yaml:"max_backoff,omitempty"`   //nolint:tagliatelle // snake_case for config file
	MaxFailures int    `json:"max_failures,omitempty" yaml:"max_failures,omitempty"` //nolint:tagliatelle // snake_case for config file
}

// Log configures logging.
type Log struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
	Dir    string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// Format is a config file syntax.
type Format int

const (
	FormatJSON Format = iota // JSON with comments and trailing commas
	FormatYAML
)

// FormatOf picks the syntax from a file name.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc", ".hujson":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// DefaultConfig returns the default configuration: one 4 KiB flash medium
// in prefs.bin, committed at most once a minute.
func DefaultConfig() Config {
	return Config{
		Interval:     "1m",
		DefaultClass: "flash",
		Media: []Medium{
			{Kind: "flash", Path: "prefs.bin", Size: 4096},
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// Load reads the config file at path, layers it over the defaults, resolves
// relative medium paths against the file's directory and validates it.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("%w: %s", errConfigFileNotFound, path)
		}
		return Config{}, fmt.Errorf("%w %s: %w", errConfigFileRead, path, err)
	}

	format, err := FormatOf(path)
	if err != nil {
		return Config{}, err
	}

	fileCfg, err := Parse(data, format)
	if err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", ErrInvalid, path, err)
	}
	fileCfg.ResolvePaths(filepath.Dir(path))

	cfg := DefaultConfig()
	cfg.Merge(fileCfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a config document. Unknown fields are errors.
func Parse(data []byte, format Format) (Config, error) {
	var cfg Config

	switch format {
	case FormatJSON:
		standardized, err := hujson.Standardize(data)
		if err != nil {
			return Config{}, fmt.Errorf("invalid JSONC: %w", err)
		}
		dec := json.NewDecoder(bytes.NewReader(standardized))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("invalid JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
			return Config{}, fmt.Errorf("invalid YAML: %w", err)
		}
	default:
		return Config{}, ErrUnknownFormat
	}

	return cfg, nil
}

// Merge applies the non-zero values of src to c. Media and Regions are
// replaced as a whole.
func (c *Config) Merge(src Config) {
	if src.Interval != "" {
		c.Interval = src.Interval
	}
	if src.DefaultClass != "" {
		c.DefaultClass = src.DefaultClass
	}
	if len(src.Media) > 0 {
		c.Media = src.Media
	}
	if len(src.Regions) > 0 {
		c.Regions = src.Regions
	}
	if src.Retry.MaxBackoff != "" {
		c.Retry.MaxBackoff = src.Retry.MaxBackoff
	}
	if src.Retry.MaxFailures != 0 {
		c.Retry.MaxFailures = src.Retry.MaxFailures
	}
	if src.Log.Level != "" {
		c.Log.Level = src.Log.Level
	}
	if src.Log.Format != "" {
		c.Log.Format = src.Log.Format
	}
	if src.Log.Dir != "" {
		c.Log.Dir = src.Log.Dir
	}
}

// ResolvePaths makes relative medium and log paths relative to dir.
func (c *Config) ResolvePaths(dir string) {
	for i := range c.Media {
		if p := c.Media[i].Path; p != "" && !filepath.IsAbs(p) {
			c.Media[i].Path = filepath.Join(dir, p)
		}
	}
	if p := c.Log.Dir; p != "" && !filepath.IsAbs(p) {
		c.Log.Dir = filepath.Join(dir, p)
	}
}

// Format returns the config as indented JSON.
func (c Config) Format() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}
	return string(data), nil
}

// FormatYAML returns the config as YAML.
func (c Config) FormatYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}
	return string(data), nil
}

// Package config loads kg configuration from .kg/config.yaml, merging it
// with defaults and validating the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the kg configuration file.
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the kg configuration directory.
const ConfigDirName = ".kg"

// ErrInvalidConfig is returned when config validation fails.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all kg configuration.
type Config struct {
	Analyze   AnalyzeConfig   `yaml:"analyze"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Query     QueryConfig     `yaml:"query"`
	Store     StoreConfig     `yaml:"store"`
	Layout    LayoutConfig    `yaml:"layout"`
}

// AnalyzeConfig holds configuration for source scanning. Recursion is a
// command-line concern; everything that shapes what a scan sees lives
// here.
type AnalyzeConfig struct {
	MaxDepth       int      `yaml:"max_depth"`
	Include        []string `yaml:"include"`
	Exclude        []string `yaml:"exclude"`
	IncludeContent bool     `yaml:"include_content"`
	Precise        bool     `yaml:"precise"`
	// WatchDebounceMS coalesces file events in watch mode.
	WatchDebounceMS int `yaml:"watch_debounce_ms"`
}

// EmbeddingConfig holds configuration for the hyperbolic embedder.
type EmbeddingConfig struct {
	// ModelPath points at a local ONNX projection model directory; empty
	// disables the model path and uses the geometric fallback only.
	ModelPath string `yaml:"model_path"`
}

// QueryConfig holds configuration for the query engine.
type QueryConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxHops      int `yaml:"max_hops"`
}

// StoreConfig holds configuration for the in-memory graph store.
type StoreConfig struct {
	Capacity int `yaml:"capacity"`
}

// LayoutConfig holds configuration for layout generation.
type LayoutConfig struct {
	Default string `yaml:"default"`
}

// Load reads config by searching for a .kg directory from workDir upward.
// When none is found, defaults are returned.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFromPath(filepath.Join(configDir, ConfigFileName))
}

// LoadFromPath reads config from a specific path, merging with defaults
// and validating the result. A missing file yields defaults.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())
	if err := Validate(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// FindConfigDir searches for a .kg directory starting at workDir and
// walking up.
func FindConfigDir(workDir string) (string, error) {
	dir, err := filepath.Abs(workDir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, ConfigDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s directory found from %s upward", ConfigDirName, workDir)
		}
		dir = parent
	}
}

// Merge overlays loaded values onto base, field by field. Zero values in
// loaded keep the base default.
func Merge(loaded, base *Config) *Config {
	out := *base

	if loaded.Analyze.MaxDepth > 0 {
		out.Analyze.MaxDepth = loaded.Analyze.MaxDepth
	}
	if len(loaded.Analyze.Include) > 0 {
		out.Analyze.Include = loaded.Analyze.Include
	}
	if len(loaded.Analyze.Exclude) > 0 {
		out.Analyze.Exclude = loaded.Analyze.Exclude
	}
	out.Analyze.IncludeContent = loaded.Analyze.IncludeContent
	out.Analyze.Precise = loaded.Analyze.Precise
	if loaded.Analyze.WatchDebounceMS > 0 {
		out.Analyze.WatchDebounceMS = loaded.Analyze.WatchDebounceMS
	}

	if loaded.Embedding.ModelPath != "" {
		out.Embedding.ModelPath = loaded.Embedding.ModelPath
	}
	if loaded.Query.DefaultLimit > 0 {
		out.Query.DefaultLimit = loaded.Query.DefaultLimit
	}
	if loaded.Query.MaxHops > 0 {
		out.Query.MaxHops = loaded.Query.MaxHops
	}
	if loaded.Store.Capacity > 0 {
		out.Store.Capacity = loaded.Store.Capacity
	}
	if loaded.Layout.Default != "" {
		out.Layout.Default = loaded.Layout.Default
	}
	return &out
}

// Validate checks a merged config for inconsistent values.
func Validate(c *Config) error {
	if c.Analyze.MaxDepth < 1 {
		return fmt.Errorf("%w: analyze.max_depth must be >= 1", ErrInvalidConfig)
	}
	if c.Query.DefaultLimit < 1 {
		return fmt.Errorf("%w: query.default_limit must be >= 1", ErrInvalidConfig)
	}
	if c.Query.MaxHops < 1 {
		return fmt.Errorf("%w: query.max_hops must be >= 1", ErrInvalidConfig)
	}
	if c.Store.Capacity < 1 {
		return fmt.Errorf("%w: store.capacity must be >= 1", ErrInvalidConfig)
	}
	switch c.Layout.Default {
	case "hierarchical", "circular", "force":
	default:
		return fmt.Errorf("%w: layout.default must be hierarchical, circular, or force", ErrInvalidConfig)
	}
	return nil
}

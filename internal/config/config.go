// Package config loads the vhdl-doc project configuration. Configuration is
// optional: with no config file the tool documents every VHDL file under the
// requested root using defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for vhdl-doc
type Config struct {
	// Standard specifies the VHDL standard to parse with: "1993" or "2008"
	Standard string `json:"standard,omitempty" yaml:"standard,omitempty"`

	// Libraries maps library names to their file sets
	Libraries map[string]LibraryConfig `json:"libraries,omitempty" yaml:"libraries,omitempty"`

	// Output controls how the documentation model is emitted
	Output OutputConfig `json:"output,omitempty" yaml:"output,omitempty"`

	// Analysis contains extraction options
	Analysis AnalysisConfig `json:"analysis,omitempty" yaml:"analysis,omitempty"`
}

// LibraryConfig defines one library's files and options
type LibraryConfig struct {
	// Files is a list of glob patterns for VHDL files in this library.
	// Patterns support ** for recursive matching.
	Files []string `json:"files" yaml:"files"`

	// Exclude is a list of glob patterns to exclude from this library
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
}

// OutputConfig controls documentation output
type OutputConfig struct {
	// Format is "json" or "yaml"
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// Path is the output file; empty means stdout
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// AnalysisConfig contains extraction options
type AnalysisConfig struct {
	// MaxParallelFiles limits concurrent file processing (0 = auto)
	MaxParallelFiles int `json:"maxParallelFiles,omitempty" yaml:"maxParallelFiles,omitempty"`
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() *Config {
	return &Config{
		Standard: "2008",
		Libraries: map[string]LibraryConfig{
			"work": {
				Files: []string{"*.vhd", "*.vhdl", "**/*.vhd", "**/*.vhdl"},
			},
		},
		Output: OutputConfig{Format: "json"},
	}
}

// Load finds and loads the configuration file
// Search order:
//  1. ./vhdl_doc.json or ./vhdl_doc.yaml (current working directory)
//  2. <rootPath>/vhdl_doc.json or .yaml (if different from cwd)
//  3. ~/.config/vhdl_doc/config.json
//
// Returns DefaultConfig if no config file is found
func Load(rootPath string) (*Config, error) {
	cwd, _ := os.Getwd()

	searchDirs := []string{cwd}
	if info, err := os.Stat(rootPath); err == nil && info.IsDir() {
		absRoot, _ := filepath.Abs(rootPath)
		if absRoot != cwd {
			searchDirs = append(searchDirs, rootPath)
		}
	}

	var searchPaths []string
	for _, dir := range searchDirs {
		searchPaths = append(searchPaths,
			filepath.Join(dir, "vhdl_doc.json"),
			filepath.Join(dir, "vhdl_doc.yaml"),
			filepath.Join(dir, ".vhdl_doc.json"),
		)
	}
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".config", "vhdl_doc", "config.json"))
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	return DefaultConfig(), nil
}

// LoadFile loads configuration from a specific file. The format follows the
// extension: .yaml/.yml is YAML, anything else JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Standard == "" {
		c.Standard = "2008"
	}
	if c.Libraries == nil {
		c.Libraries = DefaultConfig().Libraries
	}
	if c.Output.Format == "" {
		c.Output.Format = "json"
	}
}

// Validate reports configuration values the rest of the pipeline cannot
// work with.
func (c *Config) Validate() error {
	switch c.Standard {
	case "1993", "2008":
	default:
		return fmt.Errorf("unsupported VHDL standard %q (use \"1993\" or \"2008\")", c.Standard)
	}
	switch c.Output.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("unsupported output format %q (use \"json\" or \"yaml\")", c.Output.Format)
	}
	return nil
}

// Save writes the configuration to a file
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Package config loads and saves the YAML configuration for the
// stereodisparity CLI and its solver packages.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration loaded from YAML.
type Config struct {
	// NCC holds the window-based solver's parameters.
	NCC struct {
		// WindowSize is the template and local-variance window side
		// length; must be odd and positive.
		WindowSize int `yaml:"windowSize"`
	} `yaml:"ncc"`

	// GraphCut holds the alpha-expansion solver's parameters.
	GraphCut struct {
		// Cp is the per-pixel occlusion penalty.
		Cp int64 `yaml:"cp"`
		// V is the per-edge smoothness penalty.
		V int64 `yaml:"v"`
		// NumIters is the number of outer alpha-expansion passes.
		NumIters int `yaml:"numIters"`
	} `yaml:"graphCut"`

	// Preprocessing controls steps applied to a StereoPair before either
	// solver runs.
	Preprocessing struct {
		// Denoise enables the shearlet edge-preserving smoothing pass.
		Denoise bool `yaml:"denoise"`
	} `yaml:"preprocessing"`

	// Dataset controls where on-disk stereo pairs are resolved from.
	Dataset struct {
		// Root is the directory dataset names are resolved under.
		Root string `yaml:"root"`
	} `yaml:"dataset"`

	// Output controls what the CLI driver writes after a solver runs.
	Output struct {
		// StatsCSV is the path stats rows are appended to.
		StatsCSV string `yaml:"statsCSV"`
		// SaveDisparityPNG controls whether solved disparity maps are
		// written out as PNGs alongside the stats.
		SaveDisparityPNG bool `yaml:"saveDisparityPNG"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.NCC.WindowSize = 9

	cfg.GraphCut.Cp = 20
	cfg.GraphCut.V = 5
	cfg.GraphCut.NumIters = 2

	cfg.Preprocessing.Denoise = false

	cfg.Dataset.Root = "./data"

	cfg.Output.StatsCSV = "stats.csv"
	cfg.Output.SaveDisparityPNG = true

	return cfg
}

// LoadConfig loads configuration from a YAML file. If the file doesn't
// exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", configPath, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file, creating its parent
// directory if necessary.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: creating directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", configPath, err)
	}

	return nil
}

// CreateDefaultConfigFile writes the default configuration to configPath.
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	CurrentVersion = 1
	DefaultPath    = "~/.ormgen/ormgen.yaml"
)

// Config is the top-level configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Generate GenerateConfig `yaml:"generate,omitempty"`
	Logging  LogConfig      `yaml:"logging,omitempty"`
}

// GenerateConfig holds defaults for the generate command.
type GenerateConfig struct {
	Format    string `yaml:"format,omitempty"`     // prisma, django, sqlalchemy
	OutputDir string `yaml:"output_dir,omitempty"` // default "output"
	Diagram   bool   `yaml:"diagram,omitempty"`
	Workers   int    `yaml:"workers,omitempty"` // parallel file writes, default 8, max 32
}

// LogConfig defines logging settings.
type LogConfig struct {
	Level     string `yaml:"level,omitempty"`     // debug, info, warn, error
	Directory string `yaml:"directory,omitempty"` // default ~/.ormgen/logs/
}

// Default returns the built-in configuration used when no config file
// exists.
func Default() *Config {
	cfg := &Config{Version: CurrentVersion}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the config file from the given path.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ExpandHome(DefaultPath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentVersion)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the config to the given path.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ExpandHome(DefaultPath)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyDefaults() {
	if c.Generate.Format == "" {
		c.Generate.Format = "prisma"
	}
	if c.Generate.OutputDir == "" {
		c.Generate.OutputDir = "output"
	}
	if c.Generate.Workers == 0 {
		c.Generate.Workers = 8
	}
	if c.Generate.Workers > 32 {
		c.Generate.Workers = 32
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Directory == "" {
		c.Logging.Directory = ExpandHome("~/.ormgen/logs/")
	}
}

// ExpandHome expands ~ to the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Package config loads the optional recall.yaml settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the full config.yaml configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Session  SessionConfig  `yaml:"session"`
	Server   ServerConfig   `yaml:"server"`
	Stats    StatsConfig    `yaml:"stats"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type SessionConfig struct {
	DefaultTarget int    `yaml:"default_target"`
	Seed          uint64 `yaml:"seed"` // 0 = seeded from the clock
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type StatsConfig struct {
	SnapshotKeep int `yaml:"snapshot_keep"`
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// DefaultPath resolves the config file path in priority order:
// 1. RECALL_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/recall/config.yaml
// 3. ~/.config/recall/config.yaml
func DefaultPath() (string, error) {
	if p := os.Getenv("RECALL_CONFIG"); p != "" {
		return p, nil
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "recall", "config.yaml"), nil
}

// Load reads and parses a config file, applying defaults and validation.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse parses raw YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks a Config for logical errors.
func Validate(cfg *Config) error {
	if cfg.Session.DefaultTarget < 0 {
		return fmt.Errorf("session.default_target must be >= 0, got %d", cfg.Session.DefaultTarget)
	}
	if cfg.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if cfg.Server.ReadTimeout < 0 || cfg.Server.WriteTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	if cfg.Stats.SnapshotKeep < 0 {
		return fmt.Errorf("stats.snapshot_keep must be >= 0, got %d", cfg.Stats.SnapshotKeep)
	}
	return nil
}

// Package config loads and validates the client application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Store mode values for the persistence backend.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// Config holds the complete client configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	API    APIConfig    `yaml:"api"`
	Store  StoreConfig  `yaml:"store"`
}

// ServerConfig configures the local dashboard server.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// APIConfig configures the remote feedback platform API.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

// StoreConfig selects the durable session-persistence backend.
type StoreConfig struct {
	Mode string `yaml:"mode"` // "file" or "postgres"
	Dir  string `yaml:"dir"`  // file mode: state directory
	DSN  string `yaml:"dsn"`  // postgres mode: connection string
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Address: ":3000"},
		API:    APIConfig{BaseURL: "http://127.0.0.1:8000"},
		Store:  StoreConfig{Mode: StoreFile, Dir: defaultStateDir()},
	}
}

// Load reads a YAML config file, filling unset fields with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("config: api.base_url is required")
	}
	switch c.Store.Mode {
	case StoreFile:
		if c.Store.Dir == "" {
			return fmt.Errorf("config: store.dir is required in file mode")
		}
	case StorePostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("config: store.dsn is required in postgres mode")
		}
	default:
		return fmt.Errorf("config: unknown store mode %q", c.Store.Mode)
	}
	return nil
}

// defaultStateDir places file-mode state under the user config directory,
// falling back to the working directory when none is available.
func defaultStateDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".feedbackcentral"
	}
	return filepath.Join(base, "feedbackcentral")
}

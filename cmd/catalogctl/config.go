package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the catalogctl configuration loaded from a TOML file.
type Config struct {
	Server ServerConfig `toml:"server"`
}

// ServerConfig points at the catalog service.
type ServerConfig struct {
	URL string `toml:"url"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{URL: "http://localhost:5050"},
	}
}

// LoadConfig reads and parses a TOML configuration file from the given path.
// Missing keys keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultDir returns the application data directory (~/.snapsolve).
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".snapsolve"), nil
}

// Load reads and parses the YAML config at path. ${VAR} references in API
// keys are expanded from the environment so secrets can stay out of the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	for i := range cfg.Models {
		cfg.Models[i].APIKey = os.ExpandEnv(cfg.Models[i].APIKey)
	}
	cfg.ImageHost.APIKey = os.ExpandEnv(cfg.ImageHost.APIKey)

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadDefault loads the config from ~/.snapsolve/config.yaml.
func LoadDefault() (*Config, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return Load(filepath.Join(dir, "config.yaml"))
}

func (c *Config) applyDefaults() {
	if c.Storage.Backend == "" {
		c.Storage.Backend = "file"
	}
	if c.Storage.Path == "" {
		if dir, err := DefaultDir(); err == nil {
			switch c.Storage.Backend {
			case "sqlite":
				c.Storage.Path = filepath.Join(dir, "snapsolve.db")
			default:
				c.Storage.Path = filepath.Join(dir, "storage")
			}
		}
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.mealdeck.app"

// Config holds client settings loaded from ~/.mealdeck/config.yaml.
// Every field can be left unset; Load fills in defaults.
type Config struct {
	BaseURL      string        `yaml:"baseUrl"`
	Timeout      time.Duration `yaml:"timeout"`
	RenewTimeout time.Duration `yaml:"renewTimeout"`
	CacheDir     string        `yaml:"cacheDir"`
	DataDir      string        `yaml:"dataDir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		Timeout:      30 * time.Second,
		RenewTimeout: 15 * time.Second,
	}
}

// Load reads the config file at path, falling back to defaults for unset
// fields. A missing file is not an error; a malformed one is.
// If path is empty, ~/.mealdeck/config.yaml is used.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, ".mealdeck", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RenewTimeout <= 0 {
		cfg.RenewTimeout = 15 * time.Second
	}

	return cfg, nil
}

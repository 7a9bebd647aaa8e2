// Package config loads the optional ttytap configuration file. Everything
// in it has a working default; command-line flags override whatever the
// file says.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds user defaults for the record and filter commands.
type Config struct {
	// HUD enables the recorder's live statistics overlay by default.
	HUD bool `yaml:"hud"`
	// RecordPath is the default recording sink for `ttytap record`.
	RecordPath string `yaml:"record_path"`
	// LogPath is the default JSONL activity log; empty disables logging.
	LogPath string `yaml:"log_path"`
	// BufferSize is the filter's read chunk size in bytes.
	BufferSize int `yaml:"buffer_size"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{BufferSize: 64 * 1024}
}

// Path returns the config file location: $TTYTAP_CONFIG if set, otherwise
// ~/.config/ttytap/config.yaml.
func Path() string {
	if p := os.Getenv("TTYTAP_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "ttytap", "config.yaml")
}

// Load reads the config file at Path. A missing file is not an error and
// yields the defaults.
func Load() (*Config, error) {
	cfg := Default()
	p := Path()
	if p == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", p, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", p, err)
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = Default().BufferSize
	}
	return cfg, nil
}

// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Environment variables that take precedence over the config file.
const (
	EnvAPIURL = "TUILIFT_API_URL"
	EnvToken  = "TUILIFT_TOKEN"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	API     APIConfig     `toml:"api"`
	Workout WorkoutConfig `toml:"workout"`
	History HistoryConfig `toml:"history"`
	Log     LogConfig     `toml:"log"`
}

// APIConfig maps the remote service settings.
type APIConfig struct {
	BaseURL      *string  `toml:"base-url"`
	Token        *string  `toml:"token"`
	TokenCommand []string `toml:"token-command"`
	TokenTTL     *string  `toml:"token-ttl"`
	Timeout      *string  `toml:"timeout"`
}

// WorkoutConfig maps live workout settings.
type WorkoutConfig struct {
	RestSeconds *int `toml:"rest-seconds"`
}

// HistoryConfig maps history browser defaults.
type HistoryConfig struct {
	Limit  *int `toml:"limit"`
	Months *int `toml:"months"`
	Window *int `toml:"window"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	File   *string `toml:"file"`
	Stdout *bool   `toml:"stdout"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// ApplyEnv overrides file values with the TUILIFT_* environment variables.
func (c *FileConfig) ApplyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.BaseURL = &v
	}
	if v := os.Getenv(EnvToken); v != "" {
		c.API.Token = &v
	}
}

// DefaultTemplate is written by `tuilift config` when no file exists.
const DefaultTemplate = `# tuilift configuration
# All keys are optional. Command-line flags override these values.

[api]
# base-url = "http://localhost:8000"
# Literal bearer token (TUILIFT_TOKEN overrides it).
# token = ""
# Command whose stdout is used as the bearer token, cached for token-ttl.
# token-command = ["gcloud", "auth", "print-identity-token"]
# token-ttl = "5m"
# timeout = "30s"

[workout]
# rest-seconds = 90

[history]
# limit = 50
# months = 3
# window = 5

[log]
# level = "info"
# file = "~/.local/state/tuilift/tuilift.log"
# stdout = false
`

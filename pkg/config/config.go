// Package config loads diagramforge settings.
//
// Settings come from three places, lowest precedence first: built-in
// defaults, an optional TOML config file, and the process environment.
// Command-line flags override all of them; that merge happens in the CLI
// layer, which treats the value returned here as the flag default.
//
// The config file lives at $XDG_CONFIG_HOME/diagramforge/config.toml
// (falling back to ~/.config/diagramforge/config.toml):
//
//	provider = "openai"
//	model    = "gpt-image-1"
//	size     = "1536x1024"
//	base_url = "https://api.openai.com/v1"
//	api_key  = "sk-..."       # discouraged; prefer OPENAI_API_KEY
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/diagramforge/diagramforge/pkg/errors"
	"github.com/diagramforge/diagramforge/pkg/imagegen"
)

// appName is the application name used for config directories.
const appName = "diagramforge"

// EnvAPIKey is the environment variable holding the image service credential.
const EnvAPIKey = "OPENAI_API_KEY"

// Config holds generation defaults and the service credential.
type Config struct {
	Provider string `toml:"provider"` // image provider name (default "openai")
	Model    string `toml:"model"`    // image model identifier
	Size     string `toml:"size"`     // target image size, WIDTHxHEIGHT
	BaseURL  string `toml:"base_url"` // API endpoint override
	APIKey   string `toml:"api_key"`  // service credential
}

// Load reads configuration from path, merged over built-in defaults.
//
// An empty path means [DefaultPath]; a missing file is not an error and
// yields the defaults. A file that exists but cannot be parsed is a
// CONFIG_INVALID error — a present-but-broken config should be fixed, not
// silently ignored.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Provider: "openai",
		Model:    imagegen.DefaultModel,
		Size:     imagegen.DefaultSize,
	}

	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return cfg.applyEnv(), nil
		}
	}

	if _, err := os.Stat(path); err != nil {
		return cfg.applyEnv(), nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, err, "parse config file %s", path)
	}
	return cfg.applyEnv(), nil
}

// applyEnv overlays environment values on top of file/default values.
func (c *Config) applyEnv() *Config {
	if key := os.Getenv(EnvAPIKey); key != "" {
		c.APIKey = key
	}
	return c
}

// DefaultPath returns the config file location following the XDG standard
// (~/.config/diagramforge/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

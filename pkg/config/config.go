// Package config loads application configuration from an optional TOML
// file with environment variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds every runtime setting. Zero values fall back to the
// defaults from [Default].
type Config struct {
	Listen string `toml:"listen"`

	Redis struct {
		Addr string `toml:"addr"`
	} `toml:"redis"`

	Registry struct {
		BaseURL string `toml:"base_url"`
	} `toml:"registry"`

	Unpkg struct {
		BaseURL string `toml:"base_url"`
	} `toml:"unpkg"`

	GitHub struct {
		BaseURL string `toml:"base_url"`
		Token   string `toml:"token"`
	} `toml:"github"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	cfg := &Config{Listen: ":8080"}
	return cfg
}

// Load reads configuration from path (skipped when path is empty or the
// file does not exist) and then applies NPM_ALT_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Optional file.
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setEnv(&c.Listen, "NPM_ALT_LISTEN")
	setEnv(&c.Redis.Addr, "NPM_ALT_REDIS_ADDR")
	setEnv(&c.Registry.BaseURL, "NPM_ALT_REGISTRY_URL")
	setEnv(&c.Unpkg.BaseURL, "NPM_ALT_UNPKG_URL")
	setEnv(&c.GitHub.BaseURL, "NPM_ALT_GITHUB_URL")
	setEnv(&c.GitHub.Token, "NPM_ALT_GITHUB_TOKEN")
	if c.GitHub.Token == "" {
		c.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}
}

func setEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

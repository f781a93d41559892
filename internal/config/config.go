// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Plex    PlexConfig    `toml:"plex"`
	TMDB    TMDBConfig    `toml:"tmdb"`
	History HistoryConfig `toml:"history"`
	Log     LogConfig     `toml:"log"`
}

type PlexConfig struct {
	URL          string `toml:"url"`
	Token        string `toml:"token"`
	Library      string `toml:"library"`
	LastVerified string `toml:"last_verified,omitempty"`
}

type TMDBConfig struct {
	APIKey       string `toml:"api_key"`
	LastVerified string `toml:"last_verified,omitempty"`
}

type HistoryConfig struct {
	Path string `toml:"path"`
}

type LogConfig struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

// Load reads and parses the configuration file. Unresolved ${VAR}
// references are reported through ConfigError.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Plex.Library == "" {
		c.Plex.Library = "Movies"
	}
	if c.History.Path == "" {
		c.History.Path = defaultHistoryPath()
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Set updates one field addressed by dotted key, as used by `config set`.
func (c *Config) Set(key, value string) error {
	switch key {
	case "plex.url":
		c.Plex.URL = value
	case "plex.token":
		c.Plex.Token = value
	case "plex.library":
		c.Plex.Library = value
	case "tmdb.api_key":
		c.TMDB.APIKey = value
	case "history.path":
		c.History.Path = value
	case "log.level":
		c.Log.Level = value
	case "log.path":
		c.Log.Path = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// Keys lists the dotted keys accepted by Set.
func Keys() []string {
	return []string{
		"plex.url", "plex.token", "plex.library",
		"tmdb.api_key", "history.path", "log.level", "log.path",
	}
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
// and reports the names that were not set.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		missing = append(missing, varName)
		return match
	})
	return out, missing
}

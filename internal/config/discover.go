package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./collectarr.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "collectarr", "config.toml")
}

func defaultHistoryPath() string {
	return filepath.Join(filepath.Dir(DefaultPath()), "history.db")
}

// Discover finds the config file using the standard search order.
// Search order:
//  1. COLLECTARR_CONFIG environment variable
//  2. ./collectarr.toml (current directory)
//  3. $XDG_CONFIG_HOME/collectarr/config.toml
//  4. /etc/collectarr/config.toml
func Discover() (string, error) {
	if envPath := os.Getenv("COLLECTARR_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("COLLECTARR_CONFIG=%s: %w", envPath, err)
		}
		return envPath, nil
	}

	paths := []string{
		"./collectarr.toml",
		DefaultPath(),
		"/etc/collectarr/config.toml",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("config not found, checked: %s", strings.Join(paths, ", "))
}

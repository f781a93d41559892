package config

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed default_config.toml
var defaultConfig string

// WriteDefault writes the starter collectarr.toml, as produced by
// `config init`, creating parent directories if needed. The starter file
// references ${PLEX_TOKEN} and ${TMDB_API_KEY} rather than inlining
// secrets.
func WriteDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfig), 0644)
}

// Write persists the config as TOML, used by `config set` and by the
// last_verified stamps of `config test`. Load resolves ${VAR} references,
// so writing a loaded config stores the resolved values.
func (c *Config) Write(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "collectarr.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[plex]
url = "http://plex.local:32400"
token = "secret"
library = "Films"

[tmdb]
api_key = "tmdb-key"

[log]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://plex.local:32400", cfg.Plex.URL)
	assert.Equal(t, "secret", cfg.Plex.Token)
	assert.Equal(t, "Films", cfg.Plex.Library)
	assert.Equal(t, "tmdb-key", cfg.TMDB.APIKey)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
[plex]
url = "http://localhost:32400"
token = "t"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Movies", cfg.Plex.Library)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NotEmpty(t, cfg.History.Path)
}

func TestLoadEnvSubstitution(t *testing.T) {
	t.Setenv("COLLECTARR_TEST_TOKEN", "from-env")
	path := writeConfig(t, `
[plex]
url = "http://localhost:32400"
token = "${COLLECTARR_TEST_TOKEN}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Plex.Token)
}

func TestLoadMissingEnvVar(t *testing.T) {
	path := writeConfig(t, `
[plex]
url = "http://localhost:32400"
token = "${COLLECTARR_UNSET_VAR_12345}"
`)

	_, err := Load(path)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"COLLECTARR_UNSET_VAR_12345"}, cfgErr.Missing)
}

func TestLoadBadTOML(t *testing.T) {
	path := writeConfig(t, "[plex\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestSet(t *testing.T) {
	cfg := &Config{}

	require.NoError(t, cfg.Set("plex.url", "http://plex:32400"))
	require.NoError(t, cfg.Set("plex.token", "tok"))
	require.NoError(t, cfg.Set("plex.library", "Films"))
	require.NoError(t, cfg.Set("tmdb.api_key", "k"))
	require.NoError(t, cfg.Set("log.level", "warn"))

	assert.Equal(t, "http://plex:32400", cfg.Plex.URL)
	assert.Equal(t, "tok", cfg.Plex.Token)
	assert.Equal(t, "Films", cfg.Plex.Library)
	assert.Equal(t, "k", cfg.TMDB.APIKey)
	assert.Equal(t, "warn", cfg.Log.Level)

	err := cfg.Set("plex.nope", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}

func TestKeysMatchSet(t *testing.T) {
	cfg := &Config{}
	for _, key := range Keys() {
		assert.NoError(t, cfg.Set(key, "v"), "key %s", key)
	}
}

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "collectarr.toml")
	require.NoError(t, WriteDefault(path))

	t.Setenv("PLEX_TOKEN", "tok")
	t.Setenv("TMDB_API_KEY", "key")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tok", cfg.Plex.Token)
	assert.Equal(t, "Movies", cfg.Plex.Library)
}

func TestWriteRoundTrip(t *testing.T) {
	cfg := validConfig()
	cfg.TMDB.APIKey = "k"
	cfg.Plex.LastVerified = "2026-08-31T12:00:00Z"

	path := filepath.Join(t.TempDir(), "out", "config.toml")
	require.NoError(t, cfg.Write(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Plex, got.Plex)
	assert.Equal(t, cfg.TMDB, got.TMDB)
}

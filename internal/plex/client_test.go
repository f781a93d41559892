package plex

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const identityXML = `<MediaContainer friendlyName="Den" version="1.40.0" machineIdentifier="abc123"/>`

const sectionsXML = `<MediaContainer>
	<Directory key="1" title="Movies" type="movie"/>
	<Directory key="2" title="TV Shows" type="show"/>
</MediaContainer>`

func TestIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token123", r.Header.Get("X-Plex-Token"))
		_, _ = w.Write([]byte(identityXML))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "token123", testLogger())
	id, err := c.Identity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Den", id.Name)
	assert.Equal(t, "1.40.0", id.Version)
	assert.Equal(t, "abc123", id.MachineID)
}

func TestIdentityUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad-token", testLogger())
	_, err := c.Identity(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestFindSection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sectionsXML))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", testLogger())

	sec, err := c.FindSection(context.Background(), "movies")
	require.NoError(t, err)
	assert.Equal(t, "1", sec.Key)
	assert.Equal(t, "Movies", sec.Title)

	_, err = c.FindSection(context.Background(), "Anime")
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestGetConnectionError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "t", testLogger())
	_, err := c.Sections(context.Background())
	assert.Error(t, err)
}

package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchTitles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/search/movie", r.URL.Path)
		assert.Equal(t, "alien", r.URL.Query().Get("query"))
		assert.NotEmpty(t, r.URL.Query().Get("api_key"))
		fmt.Fprint(w, `{"page":1,"total_pages":1,"results":[
			{"id":1,"title":"Alien","release_date":"1979-05-25"},
			{"id":2,"title":"Aliens","release_date":"1986-07-18"},
			{"id":3,"title":"Alien 3","release_date":"1992-05-22"}
		]}`)
	}))
	defer srv.Close()

	c := NewClient("key", WithBaseURL(srv.URL))
	titles, err := c.SearchTitles(context.Background(), "alien", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alien", "Aliens"}, titles)
}

func TestCollectionTitles(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/3/collection/8091", r.URL.Path)
		fmt.Fprint(w, `{"id":8091,"name":"Alien Collection","parts":[
			{"id":1,"title":"Alien","release_date":"1979-05-25"},
			{"id":2,"title":"Aliens","release_date":"1986-07-18"},
			{"id":3,"title":"Untitled Alien","release_date":""}
		]}`)
	}))
	defer srv.Close()

	c := NewClient("key", WithBaseURL(srv.URL))
	titles, err := c.CollectionTitles(context.Background(), 8091)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alien (1979)", "Aliens (1986)", "Untitled Alien"}, titles)

	// Second call is served from cache.
	_, err = c.CollectionTitles(context.Background(), 8091)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDiscoverTitlesPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/discover/movie", r.URL.Path)
		assert.Equal(t, "41077", r.URL.Query().Get("with_companies"))
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, `{"page":1,"total_pages":2,"results":[
				{"id":1,"title":"Lady Bird","release_date":"2017-11-03"}]}`)
		case "2":
			fmt.Fprint(w, `{"page":2,"total_pages":2,"results":[
				{"id":2,"title":"Hereditary","release_date":"2018-06-08"},
				{"id":1,"title":"Lady Bird","release_date":"2017-11-03"}]}`)
		default:
			t.Errorf("unexpected page request: %s", r.URL.RawQuery)
		}
	}))
	defer srv.Close()

	c := NewClient("key", WithBaseURL(srv.URL))
	titles, err := c.DiscoverTitles(context.Background(), 41077, 0, nil)
	require.NoError(t, err)
	// Unique and sorted.
	assert.Equal(t, []string{"Hereditary (2018)", "Lady Bird (2017)"}, titles)
}

func TestDiscoverTitlesNeedsFilter(t *testing.T) {
	c := NewClient("key")
	_, err := c.DiscoverTitles(context.Background(), 0, 0, nil)
	assert.Error(t, err)
}

func TestUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad", WithBaseURL(srv.URL))
	err := c.Validate(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestMovieYearAndLabel(t *testing.T) {
	m := Movie{Title: "Alien", ReleaseDate: "1979-05-25"}
	assert.Equal(t, 1979, m.Year())
	assert.Equal(t, "Alien (1979)", m.Label())

	m = Movie{Title: "Unknown", ReleaseDate: ""}
	assert.Equal(t, 0, m.Year())
	assert.Equal(t, "Unknown", m.Label())
}

// Package tmdb provides a client for The Movie Database API, used as a
// source of candidate titles: keyword search, franchise collections, and
// discovery by production company or keyword.
package tmdb

import (
	"fmt"
	"strconv"
)

// Movie represents TMDB movie metadata, reduced to what title sourcing needs.
type Movie struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"` // "2024-03-01"
}

// Year extracts the year from ReleaseDate, 0 when unknown.
func (m *Movie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// Label formats the movie as "Title (Year)", the candidate-title format the
// matcher's parser understands.
func (m *Movie) Label() string {
	if year := m.Year(); year > 0 {
		return fmt.Sprintf("%s (%d)", m.Title, year)
	}
	return m.Title
}

// searchResponse is the paged envelope of search and discover endpoints.
type searchResponse struct {
	Page         int     `json:"page"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
	Results      []Movie `json:"results"`
}

// collectionResponse is the envelope of /3/collection/{id}.
type collectionResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Parts []Movie `json:"parts"`
}

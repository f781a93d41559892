// Package match resolves free-text movie titles against a library catalog.
// It scores search results, disambiguates with optional human help, and
// drives whole batches of titles while deduplicating by catalog identity.
package match

import (
	"context"
	"errors"
	"fmt"
)

// ErrCancelled signals a user-driven abort. The whole batch stops and the
// caller must not perform any collection mutation afterward.
var ErrCancelled = errors.New("cancelled by user")

// Item is one catalog entry. ID is the library's stable unique key
// (Plex's ratingKey); Year is 0 when the library has none on record.
type Item struct {
	ID    string
	Title string
	Year  int
}

// Label formats the item as "Title (Year)" for user-facing lists.
func (i Item) Label() string {
	if i.Year > 0 {
		return fmt.Sprintf("%s (%d)", i.Title, i.Year)
	}
	return i.Title
}

// Searcher queries the library catalog by bare title. The search is
// server-side and may over-return; the scorer filters locally.
type Searcher interface {
	SearchMovies(ctx context.Context, query string) ([]Item, error)
}

// Progress receives incremental batch progress so large batches stay
// observable while searches run one network round trip at a time.
type Progress interface {
	Step(current, total int, message string)
}

package plex

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/vmunix/collectarr/internal/collection"
	"github.com/vmunix/collectarr/internal/match"
)

// movieType is Plex's numeric type for movie items.
const movieType = "1"

// Library is one Plex library section. It implements match.Searcher and
// collection.Store for the resolution core.
type Library struct {
	client  *Client
	section Section

	machineID string // cached from Identity, needed for collection URIs
}

// Name returns the section title.
func (l *Library) Name() string {
	return l.section.Title
}

// videoXML is the XML representation of a movie item.
type videoXML struct {
	RatingKey string `xml:"ratingKey,attr"`
	Title     string `xml:"title,attr"`
	Year      int    `xml:"year,attr"`
	Type      string `xml:"type,attr"`
}

// videosResponse is the XML response for item listings and searches.
type videosResponse struct {
	Videos []videoXML `xml:"Video"`
}

// SearchMovies performs a server-side title search within the section.
// The server may over-return; local scoring decides what matches.
func (l *Library) SearchMovies(ctx context.Context, query string) ([]match.Item, error) {
	path := fmt.Sprintf("/library/sections/%s/search", l.section.Key)
	q := url.Values{}
	q.Set("type", movieType)
	q.Set("query", query)

	var result videosResponse
	if err := l.client.get(ctx, path+"?"+q.Encode(), &result); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	items := make([]match.Item, 0, len(result.Videos))
	for _, v := range result.Videos {
		if v.Type != "" && v.Type != "movie" {
			continue
		}
		items = append(items, match.Item{ID: v.RatingKey, Title: v.Title, Year: v.Year})
	}
	return items, nil
}

// directoryXML is the XML representation of a collection.
type directoryXML struct {
	RatingKey string `xml:"ratingKey,attr"`
	Title     string `xml:"title,attr"`
	Smart     int    `xml:"smart,attr"`
}

// collectionsResponse is the XML response from the collections listing.
type collectionsResponse struct {
	Directories []directoryXML `xml:"Directory"`
}

// Collections lists all collections in the section.
func (l *Library) Collections(ctx context.Context) ([]collection.Info, error) {
	path := fmt.Sprintf("/library/sections/%s/collections", l.section.Key)

	var result collectionsResponse
	if err := l.client.get(ctx, path, &result); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	infos := make([]collection.Info, len(result.Directories))
	for i, d := range result.Directories {
		infos[i] = collection.Info{
			Key:   d.RatingKey,
			Name:  d.Title,
			Smart: d.Smart == 1,
		}
	}
	return infos, nil
}

// FindCollection looks up a collection by case-insensitive exact name.
// Returns nil when absent.
func (l *Library) FindCollection(ctx context.Context, name string) (*collection.Info, error) {
	infos, err := l.Collections(ctx)
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		if strings.EqualFold(info.Name, name) {
			return &info, nil
		}
	}
	return nil, nil
}

// CollectionItems lists the members of a static collection.
func (l *Library) CollectionItems(ctx context.Context, key string) ([]match.Item, error) {
	path := fmt.Sprintf("/library/collections/%s/children", key)

	var result videosResponse
	if err := l.client.get(ctx, path, &result); err != nil {
		return nil, fmt.Errorf("list collection items: %w", err)
	}

	items := make([]match.Item, len(result.Videos))
	for i, v := range result.Videos {
		items[i] = match.Item{ID: v.RatingKey, Title: v.Title, Year: v.Year}
	}
	return items, nil
}

// CreateStatic creates a static collection from item identities.
func (l *Library) CreateStatic(ctx context.Context, name string, ids []string) error {
	uri, err := l.metadataURI(ctx, ids)
	if err != nil {
		return err
	}

	q := url.Values{}
	q.Set("type", movieType)
	q.Set("title", name)
	q.Set("smart", "0")
	q.Set("sectionId", l.section.Key)
	q.Set("uri", uri)

	if err := l.client.send(ctx, http.MethodPost, "/library/collections", q); err != nil {
		return fmt.Errorf("create collection %q: %w", name, err)
	}
	return nil
}

// CreateSmart creates a rule-based collection via the modern endpoint.
// Servers without it answer 400/404, surfaced as ErrSmartUnsupported so the
// reconciler can fall back to the legacy pathway.
func (l *Library) CreateSmart(ctx context.Context, name string, filter collection.Filter) error {
	q := url.Values{}
	q.Set("type", movieType)
	q.Set("title", name)
	q.Set("smart", "1")
	q.Set("sectionId", l.section.Key)
	for field, value := range filter {
		q.Set(field, value)
	}

	err := l.client.send(ctx, http.MethodPost, "/library/collections", q)
	if err != nil {
		if isCapabilityError(err) {
			return fmt.Errorf("%w: %v", collection.ErrSmartUnsupported, err)
		}
		return fmt.Errorf("create smart collection %q: %w", name, err)
	}
	return nil
}

// CreateSmartLegacy creates a smart collection by constructing the filter
// URI directly, the way older servers expect it.
func (l *Library) CreateSmartLegacy(ctx context.Context, name string, filter collection.Filter) error {
	machineID, err := l.machineIdentifier(ctx)
	if err != nil {
		return err
	}

	filterQ := url.Values{}
	filterQ.Set("type", movieType)
	for field, value := range filter {
		filterQ.Set(field, value)
	}
	uri := fmt.Sprintf("server://%s/com.plexapp.plugins.library/library/sections/%s/all?%s",
		machineID, l.section.Key, filterQ.Encode())

	q := url.Values{}
	q.Set("type", movieType)
	q.Set("title", name)
	q.Set("smart", "1")
	q.Set("sectionId", l.section.Key)
	q.Set("uri", uri)

	if err := l.client.send(ctx, http.MethodPost, "/library/collections", q); err != nil {
		return fmt.Errorf("create smart collection %q (legacy): %w", name, err)
	}
	return nil
}

// AddItems adds item identities to an existing static collection.
func (l *Library) AddItems(ctx context.Context, key string, ids []string) error {
	uri, err := l.metadataURI(ctx, ids)
	if err != nil {
		return err
	}

	q := url.Values{}
	q.Set("uri", uri)

	path := fmt.Sprintf("/library/collections/%s/items", key)
	if err := l.client.send(ctx, http.MethodPut, path, q); err != nil {
		return fmt.Errorf("add items: %w", err)
	}
	return nil
}

// Delete removes a collection entirely. Member items are untouched.
func (l *Library) Delete(ctx context.Context, key string) error {
	path := fmt.Sprintf("/library/collections/%s", key)
	if err := l.client.send(ctx, http.MethodDelete, path, nil); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	return nil
}

// metadataURI builds the server:// URI addressing a set of items.
func (l *Library) metadataURI(ctx context.Context, ids []string) (string, error) {
	machineID, err := l.machineIdentifier(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("server://%s/com.plexapp.plugins.library/library/metadata/%s",
		machineID, strings.Join(ids, ",")), nil
}

func (l *Library) machineIdentifier(ctx context.Context) (string, error) {
	if l.machineID != "" {
		return l.machineID, nil
	}
	identity, err := l.client.Identity(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch machine identifier: %w", err)
	}
	if identity.MachineID == "" {
		return "", errors.New("plex: server reported no machine identifier")
	}
	l.machineID = identity.MachineID
	return l.machineID, nil
}

// isCapabilityError reports whether an HTTP failure looks like a server
// that does not understand the modern smart-collection request.
func isCapabilityError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "status: 400") || strings.Contains(msg, "status: 404")
}

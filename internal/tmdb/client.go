package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"
)

const defaultBaseURL = "https://api.themoviedb.org"
const defaultCacheTTL = 24 * time.Hour

// ErrUnauthorized is returned when the API key is rejected.
var ErrUnauthorized = errors.New("tmdb: authentication failed (invalid API key)")

// maxDiscoverPages caps pagination so a huge company catalog cannot run away.
const maxDiscoverPages = 50

// Progress receives page-fetch progress during discovery.
type Progress interface {
	Step(current, total int, message string)
}

// Client is a TMDB API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *cache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithCacheTTL sets the cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = newCache(ttl)
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new TMDB client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: newCache(defaultCacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate checks that the API key is accepted by the server.
func (c *Client) Validate(ctx context.Context) error {
	var result map[string]any
	return c.get(ctx, "/3/configuration", nil, &result)
}

// SearchTitles returns up to limit movie titles matching a keyword.
func (c *Client) SearchTitles(ctx context.Context, keyword string, limit int) ([]string, error) {
	q := url.Values{}
	q.Set("query", keyword)

	var result searchResponse
	if err := c.get(ctx, "/3/search/movie", q, &result); err != nil {
		return nil, fmt.Errorf("search %q: %w", keyword, err)
	}

	titles := make([]string, 0, limit)
	for _, movie := range result.Results {
		if movie.Title == "" {
			continue
		}
		titles = append(titles, movie.Title)
		if len(titles) >= limit {
			break
		}
	}
	return titles, nil
}

// CollectionTitles returns the "Title (Year)" labels of every part of a
// TMDB collection (franchise).
func (c *Client) CollectionTitles(ctx context.Context, collectionID int64) ([]string, error) {
	key := fmt.Sprintf("collection:%d", collectionID)
	if titles, ok := c.cache.get(key); ok {
		return titles, nil
	}

	var result collectionResponse
	path := fmt.Sprintf("/3/collection/%d", collectionID)
	if err := c.get(ctx, path, nil, &result); err != nil {
		return nil, fmt.Errorf("collection %d: %w", collectionID, err)
	}

	titles := make([]string, 0, len(result.Parts))
	for _, movie := range result.Parts {
		if movie.Title != "" {
			titles = append(titles, movie.Label())
		}
	}

	c.cache.set(key, titles)
	return titles, nil
}

// DiscoverTitles fetches every movie for a production company and/or
// keyword, following pagination. Both IDs set behaves as an OR: two
// discover runs merged. Returns sorted unique "Title (Year)" labels.
func (c *Client) DiscoverTitles(ctx context.Context, companyID, keywordID int64, progress Progress) ([]string, error) {
	key := fmt.Sprintf("discover:%d:%d", companyID, keywordID)
	if titles, ok := c.cache.get(key); ok {
		return titles, nil
	}

	var filters []url.Values
	if companyID > 0 {
		q := url.Values{}
		q.Set("with_companies", fmt.Sprintf("%d", companyID))
		filters = append(filters, q)
	}
	if keywordID > 0 {
		q := url.Values{}
		q.Set("with_keywords", fmt.Sprintf("%d", keywordID))
		filters = append(filters, q)
	}
	if len(filters) == 0 {
		return nil, errors.New("tmdb: discover needs a company or keyword id")
	}

	unique := make(map[string]bool)
	for _, filter := range filters {
		if err := c.discoverPages(ctx, filter, unique, progress); err != nil {
			return nil, err
		}
	}

	titles := make([]string, 0, len(unique))
	for label := range unique {
		titles = append(titles, label)
	}
	sort.Strings(titles)

	c.cache.set(key, titles)
	return titles, nil
}

// discoverPages walks one discover filter page by page.
func (c *Client) discoverPages(ctx context.Context, filter url.Values, unique map[string]bool, progress Progress) error {
	page := 1
	totalPages := 1
	for page <= totalPages && page <= maxDiscoverPages {
		q := url.Values{}
		for field, values := range filter {
			q[field] = values
		}
		q.Set("language", "en-US")
		q.Set("sort_by", "popularity.desc")
		q.Set("page", fmt.Sprintf("%d", page))

		var result searchResponse
		if err := c.get(ctx, "/3/discover/movie", q, &result); err != nil {
			return fmt.Errorf("discover page %d: %w", page, err)
		}

		totalPages = result.TotalPages
		if totalPages < 1 {
			totalPages = 1
		}
		if progress != nil {
			shown := totalPages
			if shown > maxDiscoverPages {
				shown = maxDiscoverPages
			}
			progress.Step(page, shown, fmt.Sprintf("page %d", page))
		}

		for _, movie := range result.Results {
			if movie.Title != "" {
				unique[movie.Label()] = true
			}
		}
		page++
	}
	return nil
}

// get performs a GET against path with query values and decodes JSON.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	reqURL := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("TMDB API error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Package plex is an HTTP/XML adapter for the Plex Media Server API. It
// provides the catalog search and collection mutation capabilities the
// resolution core consumes, scoped to one movie library section.
package plex

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnauthorized is returned on a 401 from the server: bad or expired
// token. Fatal for the whole operation, never retried.
var ErrUnauthorized = errors.New("plex: unauthorized (check token)")

// ErrSectionNotFound is returned when the configured library section does
// not exist on the server.
var ErrSectionNotFound = errors.New("plex: library section not found")

// defaultTimeout bounds each call so an unreachable server cannot hang a
// batch; a timed-out search is a per-item failure, not a fatal one.
const defaultTimeout = 5 * time.Second

// Client talks to one Plex Media Server.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a Plex client.
func NewClient(baseURL, token string, log *slog.Logger, opts ...Option) *Client {
	if log == nil {
		log = slog.Default()
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		log:     log.With("component", "plex"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Identity holds Plex server identity information. Fetching it doubles as
// the connection and authorization test.
type Identity struct {
	Name      string
	Version   string
	MachineID string
}

// identityResponse is the XML response from the root endpoint.
type identityResponse struct {
	XMLName      xml.Name `xml:"MediaContainer"`
	FriendlyName string   `xml:"friendlyName,attr"`
	Version      string   `xml:"version,attr"`
	MachineID    string   `xml:"machineIdentifier,attr"`
}

// Identity returns the server name, version, and machine identifier.
func (c *Client) Identity(ctx context.Context) (*Identity, error) {
	var result identityResponse
	if err := c.get(ctx, "/", &result); err != nil {
		return nil, err
	}
	return &Identity{
		Name:      result.FriendlyName,
		Version:   result.Version,
		MachineID: result.MachineID,
	}, nil
}

// Section represents a Plex library section.
type Section struct {
	Key   string `xml:"key,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

// sectionsResponse is the XML response from /library/sections.
type sectionsResponse struct {
	XMLName  xml.Name  `xml:"MediaContainer"`
	Sections []Section `xml:"Directory"`
}

// Sections returns all library sections.
func (c *Client) Sections(ctx context.Context) ([]Section, error) {
	var result sectionsResponse
	if err := c.get(ctx, "/library/sections", &result); err != nil {
		return nil, err
	}
	return result.Sections, nil
}

// FindSection finds a library section by name (case-insensitive).
// Returns ErrSectionNotFound when absent.
func (c *Client) FindSection(ctx context.Context, name string) (*Section, error) {
	sections, err := c.Sections(ctx)
	if err != nil {
		return nil, err
	}

	for _, sec := range sections {
		if strings.EqualFold(sec.Title, name) {
			return &sec, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrSectionNotFound, name)
}

// Library binds a client to one library section.
func (c *Client) Library(section Section) *Library {
	return &Library{client: c, section: section}
}

// get performs a GET and decodes the XML response into result.
func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := xml.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// send performs a bodyless request (POST, PUT, DELETE) against path with
// the given query values.
func (c *Client) send(ctx context.Context, method, path string, query url.Values) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Plex-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return nil
}

// Package scrape extracts "Title (Year)" candidate lists from curated film
// list pages: Wikipedia "List of X films" articles and the Criterion
// Collection catalog.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// KnownLists maps curated list names to their source pages.
var KnownLists = map[string]string{
	"A24":                                 "https://en.wikipedia.org/wiki/List_of_A24_films",
	"Academy Award Best Picture Winners":  "https://en.wikipedia.org/wiki/Academy_Award_for_Best_Picture",
	"Cannes Palme d'Or Winners":           "https://en.wikipedia.org/wiki/Palme_d%27Or",
	"Pixar":                               "https://en.wikipedia.org/wiki/List_of_Pixar_films",
	"Studio Ghibli":                       "https://en.wikipedia.org/wiki/List_of_Studio_Ghibli_works",
	"MCU":                                 "https://en.wikipedia.org/wiki/List_of_Marvel_Cinematic_Universe_films",
	"DCEU":                                "https://en.wikipedia.org/wiki/List_of_DC_Extended_Universe_films",
	"Disney Animation":                    "https://en.wikipedia.org/wiki/List_of_Walt_Disney_Animation_Studios_films",
	"DreamWorks Animation":                "https://en.wikipedia.org/wiki/List_of_DreamWorks_Animation_productions",
	"Neon":                                "https://en.wikipedia.org/wiki/List_of_Neon_films",
	"The Criterion Collection":            "https://www.criterion.com/shop/browse/list?sort=spine_number",
}

var (
	footnoteRegex = regexp.MustCompile(`\[.*?\]`)
	yearRegex     = regexp.MustCompile(`\d{4}`)
)

// userAgent mirrors a desktop browser; Wikipedia serves bot UAs a reduced page.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Scraper fetches and parses film list pages.
type Scraper struct {
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a scraper.
func New(log *slog.Logger) *Scraper {
	if log == nil {
		log = slog.Default()
	}
	return &Scraper{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log.With("component", "scraper"),
	}
}

// NewWithClient creates a scraper with a custom HTTP client (for testing).
func NewWithClient(hc *http.Client, log *slog.Logger) *Scraper {
	s := New(log)
	s.httpClient = hc
	return s
}

// FilmList fetches pageURL and returns sorted unique "Title (Year)" strings.
func (s *Scraper) FilmList(ctx context.Context, pageURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	var titles []string
	if strings.Contains(pageURL, "criterion.com") {
		titles = parseCriterion(doc)
	} else {
		titles = parseWikipedia(doc, s.log)
	}

	return sortedUnique(titles), nil
}

// parseCriterion reads the Criterion list table (g-title / g-year cells).
func parseCriterion(doc *goquery.Document) []string {
	var titles []string
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		t := strings.TrimSpace(row.Find("td.g-title").First().Text())
		y := strings.TrimSpace(row.Find("td.g-year").First().Text())
		if t != "" && yearRegex.MatchString(y) {
			titles = append(titles, fmt.Sprintf("%s (%s)", t, yearRegex.FindString(y)))
		}
	})
	return titles
}

// parseWikipedia scans every wikitable, identifying title and date columns
// by header text. Tables with unclear headers are skipped so random data
// never leaks into the list.
func parseWikipedia(doc *goquery.Document, log *slog.Logger) []string {
	var titles []string

	tables := doc.Find("table.wikitable")
	log.Debug("scanning film tables", "tables", tables.Length())

	tables.Each(func(_ int, table *goquery.Selection) {
		titleIdx, dateIdx := findColumns(table)
		if titleIdx < 0 || dateIdx < 0 {
			return
		}

		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td, th")
			if cells.Length() <= titleIdx || cells.Length() <= dateIdx {
				return
			}

			titleText := cleanCell(cells.Eq(titleIdx).Text())
			dateText := cells.Eq(dateIdx).Text()

			year := yearRegex.FindString(dateText)
			if titleText != "" && year != "" {
				titles = append(titles, fmt.Sprintf("%s (%s)", titleText, year))
			}
		})
	})

	return titles
}

// findColumns locates the title and date columns of one wikitable.
// A column whose header mentions both a title word and a date word counts
// as a date column only, so "Year of Film" never steals the title slot.
func findColumns(table *goquery.Selection) (titleIdx, dateIdx int) {
	titleIdx, dateIdx = -1, -1

	var titleCols, dateCols []int
	table.Find("th").Each(func(i int, th *goquery.Selection) {
		h := strings.ToLower(strings.TrimSpace(th.Text()))
		if strings.Contains(h, "title") || strings.Contains(h, "film") || strings.Contains(h, "winner") {
			titleCols = append(titleCols, i)
		}
		if strings.Contains(h, "release") || strings.Contains(h, "date") || strings.Contains(h, "year") {
			dateCols = append(dateCols, i)
		}
	})

	isDate := make(map[int]bool)
	for _, i := range dateCols {
		isDate[i] = true
	}

	for _, i := range titleCols {
		if !isDate[i] {
			titleIdx = i
			break
		}
	}
	if titleIdx < 0 && len(titleCols) > 0 {
		titleIdx = titleCols[0]
	}
	if len(dateCols) > 0 {
		dateIdx = dateCols[0]
	}
	return titleIdx, dateIdx
}

// cleanCell strips footnote markers and stray quotes from a table cell.
func cleanCell(s string) string {
	s = footnoteRegex.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return strings.Trim(s, `"“”`)
}

func sortedUnique(titles []string) []string {
	seen := make(map[string]bool, len(titles))
	unique := titles[:0]
	for _, t := range titles {
		if !seen[t] {
			seen[t] = true
			unique = append(unique, t)
		}
	}
	sort.Strings(unique)
	return unique
}

package title

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// yearSuffixRegex matches a trailing " (YYYY)" group. Only the final
// parenthetical is consumed, and only when it is exactly four digits, so
// "Title (With Parentheses) (2023)" keeps its inner parenthetical.
var yearSuffixRegex = regexp.MustCompile(`^(.*?)\s*\((\d{4})\)$`)

// Query is a parsed candidate title: the bare title and an optional
// release year (0 means no year was supplied).
type Query struct {
	Title string
	Year  int
}

// String formats the query back as "Title (Year)" or just the title.
func (q Query) String() string {
	if q.Year > 0 {
		return fmt.Sprintf("%s (%d)", q.Title, q.Year)
	}
	return q.Title
}

// Parse splits a raw string like "Alien (1979)" into title and year.
// A string without a trailing four-digit parenthetical is all title.
func Parse(raw string) Query {
	raw = strings.TrimSpace(raw)

	matches := yearSuffixRegex.FindStringSubmatch(raw)
	if matches == nil {
		return Query{Title: raw}
	}

	year, err := strconv.Atoi(matches[2])
	if err != nil {
		return Query{Title: raw}
	}

	return Query{
		Title: strings.TrimSpace(matches[1]),
		Year:  year,
	}
}

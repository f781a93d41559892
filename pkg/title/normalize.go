// Package title provides title canonicalization and title/year parsing
// for matching user-entered movie titles against a library catalog.
package title

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// abbrevRegex matches the dotted abbreviations we expand, as whole words only.
// Operates on lowercased input.
var abbrevRegex = regexp.MustCompile(`\b(dr|st|vs|pt|vol)\.`)

// abbreviations expands dotted short forms so that "Mulholland Dr." and
// "Mulholland Drive" compare equal. The table reads street-name style on
// purpose: "dr." becomes "drive", not "doctor". A genuine honorific like
// "Dr. Strange" therefore normalizes to "drive strange" on both sides of a
// comparison, which keeps matching consistent even though the word is wrong.
var abbreviations = map[string]string{
	"dr":  "drive",
	"st":  "street",
	"vs":  "versus",
	"pt":  "part",
	"vol": "volume",
}

// Normalize canonicalizes a title for comparison.
// Lowercases, removes accents, expands dotted abbreviations, strips
// punctuation, drops a single leading article, and collapses whitespace.
// Idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToLower(s)
	s = removeAccents(s)

	s = abbrevRegex.ReplaceAllStringFunc(s, func(match string) string {
		abbrev := strings.TrimSuffix(match, ".")
		if full, ok := abbreviations[abbrev]; ok {
			return full
		}
		return match
	})

	// Keep only letters, digits, and whitespace
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	s = b.String()

	s = stripLeadingArticle(s)

	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

func stripLeadingArticle(s string) string {
	s = strings.TrimSpace(s)
	articles := []string{"the ", "a ", "an "}
	for _, art := range articles {
		if strings.HasPrefix(s, art) {
			return strings.TrimPrefix(s, art)
		}
	}
	return s
}

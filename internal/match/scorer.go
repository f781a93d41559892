package match

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/vmunix/collectarr/pkg/title"
)

// fuzzyThreshold is deliberately high: it keeps short titles ("Time") from
// latching onto longer ones ("No Time to Die") even when the years line up.
const fuzzyThreshold = 0.85

// yearTolerance allows release year vs theatrical year to differ by one.
const yearTolerance = 1

// matchRule identifies which title rule accepted a candidate.
type matchRule int

const (
	ruleNone matchRule = iota
	ruleExact
	ruleCandidateSuperset // candidate extends the query ("precious based on the novel...")
	ruleQuerySuperset     // query extends the candidate
	ruleFuzzy
)

// scoredItem is a candidate that survived the year gate and title rules,
// with its similarity ratio for ranking.
type scoredItem struct {
	item  Item
	rule  matchRule
	ratio float64
}

// goodMatches filters candidates for a query and ranks survivors by
// similarity, descending. The sort is stable so ties keep encounter order.
//
// Per candidate: a hard year gate first (both years present and more than
// one year apart means rejection regardless of title), then title rules in
// order: exact normalized equality, one-sided word-boundary supersets,
// and finally a fuzzy ratio that only applies when a tolerant year match
// occurred.
func goodMatches(q title.Query, candidates []Item) []scoredItem {
	qNorm := title.Normalize(q.Title)

	var good []scoredItem
	for _, cand := range candidates {
		yearsMatch := false
		if q.Year > 0 && cand.Year > 0 {
			diff := q.Year - cand.Year
			if diff < 0 {
				diff = -diff
			}
			if diff > yearTolerance {
				continue
			}
			yearsMatch = true
		}

		cNorm := title.Normalize(cand.Title)
		ratio := similarity(qNorm, cNorm)

		rule := titleRule(qNorm, cNorm)
		if rule == ruleNone && yearsMatch && ratio > fuzzyThreshold {
			rule = ruleFuzzy
		}
		if rule == ruleNone {
			continue
		}

		good = append(good, scoredItem{item: cand, rule: rule, ratio: ratio})
	}

	sort.SliceStable(good, func(i, j int) bool {
		return good[i].ratio > good[j].ratio
	})

	return good
}

// titleRule applies the exact and superset rules; first match wins.
func titleRule(qNorm, cNorm string) matchRule {
	switch {
	case qNorm == cNorm:
		return ruleExact
	case wordBoundaryPrefix(cNorm, qNorm):
		return ruleCandidateSuperset
	case wordBoundaryPrefix(qNorm, cNorm):
		return ruleQuerySuperset
	default:
		return ruleNone
	}
}

// wordBoundaryPrefix reports whether s starts with prefix and the prefix
// ends at a word boundary (end of string or a space).
func wordBoundaryPrefix(s, prefix string) bool {
	if prefix == "" || !strings.HasPrefix(s, prefix) {
		return false
	}
	return len(s) == len(prefix) || s[len(prefix)] == ' '
}

// similarity is a normalized edit-distance ratio in [0, 1].
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	sim, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		return 0
	}
	return float64(sim)
}

package match

import (
	"fmt"

	"github.com/vmunix/collectarr/pkg/title"
)

// PickOutcome tags the result of an interactive list selection.
type PickOutcome int

const (
	Picked PickOutcome = iota
	PickSkipped
	PickCancelled
)

// Chooser presents a ranked list of options to a human and returns the
// chosen zero-based index, or a skip/cancel outcome. Implementations must
// bounds-check numeric input and re-prompt on malformed input.
type Chooser interface {
	PickIndex(header string, options []string) (int, PickOutcome)
}

// SkipAmbiguous is a non-interactive Chooser that skips every ambiguous
// title instead of prompting.
type SkipAmbiguous struct{}

// PickIndex always skips.
func (SkipAmbiguous) PickIndex(string, []string) (int, PickOutcome) {
	return 0, PickSkipped
}

// Outcome tags the result of resolving one candidate title. Cancellation is
// an explicit value rather than control-flow unwinding so the batch loop can
// audit it.
type Outcome int

const (
	Accepted Outcome = iota
	Skipped
	Cancelled
)

// Resolver turns a ranked good-matches list into zero or one accepted item,
// escalating to the chooser only when the ranking is genuinely ambiguous.
type Resolver struct {
	chooser Chooser
}

// NewResolver creates a resolver that consults chooser for ambiguous titles.
func NewResolver(chooser Chooser) *Resolver {
	return &Resolver{chooser: chooser}
}

// resolve picks from the ranked good matches for one raw title.
//
// No survivors means unresolved. A single survivor is accepted without
// interaction. With several survivors the top one is auto-accepted only when
// it is the sole candidate matching its rule (exact or a one-sided
// superset). Everything else goes to the chooser, presented in ranking
// order.
func (r *Resolver) resolve(raw string, q title.Query, good []scoredItem) (Item, Outcome) {
	switch len(good) {
	case 0:
		return Item{}, Skipped
	case 1:
		return good[0].item, Accepted
	}

	// Auto-accept only when the winning rule is unambiguous: the top item
	// matched exactly (or via a one-sided superset rule) and no other
	// candidate matched the same way. Two exact matches, say a remake with
	// the same title, always go to the user.
	best := good[0]
	switch best.rule {
	case ruleExact, ruleCandidateSuperset, ruleQuerySuperset:
		if countRule(good, best.rule) == 1 {
			return best.item, Accepted
		}
	}

	options := make([]string, len(good))
	for i, s := range good {
		options[i] = s.item.Label()
	}

	header := fmt.Sprintf("Multiple matches for %q:", raw)
	idx, outcome := r.chooser.PickIndex(header, options)
	switch outcome {
	case Picked:
		return good[idx].item, Accepted
	case PickCancelled:
		return Item{}, Cancelled
	default:
		return Item{}, Skipped
	}
}

func countRule(good []scoredItem, rule matchRule) int {
	n := 0
	for _, s := range good {
		if s.rule == rule {
			n++
		}
	}
	return n
}

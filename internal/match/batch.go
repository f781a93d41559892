package match

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/collectarr/pkg/title"
)

// Match pairs a raw input title with the catalog item it resolved to.
type Match struct {
	Raw  string
	Item Item
}

// Batch is the aggregate outcome of one run: matched pairs in input order
// plus the raw inputs that stayed unresolved. Every Item.ID appears at most
// once across Matched.
type Batch struct {
	Matched   []Match
	Unmatched []string
}

// Matcher drives scoring and resolution over an ordered list of titles
// against one library section.
type Matcher struct {
	searcher Searcher
	resolver *Resolver
	progress Progress
	logger   *slog.Logger
	workers  int
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithProgress sets a progress reporter for batch runs.
func WithProgress(p Progress) MatcherOption {
	return func(m *Matcher) {
		m.progress = p
	}
}

// WithWorkers enables a bounded pool that runs catalog searches ahead of
// the resolution loop. Resolution still happens sequentially in input
// order; this only overlaps the network round trips. n <= 1 keeps searches
// strictly sequential.
func WithWorkers(n int) MatcherOption {
	return func(m *Matcher) {
		m.workers = n
	}
}

// NewMatcher creates a batch matcher.
func NewMatcher(searcher Searcher, resolver *Resolver, logger *slog.Logger, opts ...MatcherOption) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Matcher{
		searcher: searcher,
		resolver: resolver,
		logger:   logger.With("component", "matcher"),
		workers:  1,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// searchResult holds one completed search, slotted by input position.
type searchResult struct {
	items []Item
	err   error
}

// MatchAll resolves raw titles in input order.
//
// A failed search logs the error and records the title as unmatched; the
// batch continues. A resolved item whose identity was already accepted is
// silently collapsed. A cancel from the chooser aborts everything with
// ErrCancelled and the partial result is discarded.
func (m *Matcher) MatchAll(ctx context.Context, raws []string) (*Batch, error) {
	queries := make([]title.Query, len(raws))
	for i, raw := range raws {
		queries[i] = title.Parse(raw)
	}

	var pending []chan searchResult
	if m.workers > 1 {
		sctx, cancel := context.WithCancel(ctx)
		defer cancel()
		pending = m.startSearches(sctx, queries)
	}

	batch := &Batch{}
	seen := make(map[string]bool)

	for i, raw := range raws {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if m.progress != nil {
			m.progress.Step(i+1, len(raws), queries[i].Title)
		}

		var items []Item
		var err error
		if pending != nil {
			r := <-pending[i]
			items, err = r.items, r.err
		} else {
			items, err = m.searcher.SearchMovies(ctx, queries[i].Title)
		}
		if err != nil {
			m.logger.Warn("search failed", "title", raw, "error", err)
			batch.Unmatched = append(batch.Unmatched, raw)
			continue
		}

		good := goodMatches(queries[i], items)
		item, outcome := m.resolver.resolve(raw, queries[i], good)
		switch outcome {
		case Cancelled:
			m.logger.Info("batch cancelled", "at", raw, "index", i)
			return nil, ErrCancelled
		case Skipped:
			batch.Unmatched = append(batch.Unmatched, raw)
		case Accepted:
			if seen[item.ID] {
				m.logger.Debug("duplicate match collapsed", "title", raw, "id", item.ID)
				continue
			}
			seen[item.ID] = true
			batch.Matched = append(batch.Matched, Match{Raw: raw, Item: item})
		}
	}

	return batch, nil
}

// startSearches feeds all searches through a bounded worker pool, one
// buffered channel per input position. The resolution loop consumes slots
// in input order while later searches are still in flight, so progress and
// prompts appear as soon as the first search lands rather than after the
// whole network phase. Per-item errors are delivered in the slot, never
// propagated, so the batch loop applies the same recovery as the
// sequential path. Cancelling ctx stops the dispatch of unstarted searches.
func (m *Matcher) startSearches(ctx context.Context, queries []title.Query) []chan searchResult {
	slots := make([]chan searchResult, len(queries))
	for i := range slots {
		slots[i] = make(chan searchResult, 1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	go func() {
		for i, q := range queries {
			i, q := i, q
			if err := gctx.Err(); err != nil {
				slots[i] <- searchResult{err: err}
				continue
			}
			g.Go(func() error {
				items, err := m.searcher.SearchMovies(gctx, q.Title)
				slots[i] <- searchResult{items: items, err: err}
				return nil
			})
		}
		// Goroutines only fill their slot; the group never fails.
		_ = g.Wait()
	}()

	return slots
}

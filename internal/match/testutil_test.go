package match

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSearcher returns canned results per query and can fail specific
// titles. Safe for concurrent use so worker-pool tests can share it.
type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]Item
	fail    map[string]error
	calls   []string
}

func (f *fakeSearcher) SearchMovies(_ context.Context, query string) ([]Item, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	f.mu.Unlock()
	if err, ok := f.fail[query]; ok {
		return nil, err
	}
	return f.results[query], nil
}

// scriptedChooser replays a fixed sequence of selections.
type scriptedChooser struct {
	picks []scriptedPick
	asked []string
}

type scriptedPick struct {
	index   int
	outcome PickOutcome
}

func (c *scriptedChooser) PickIndex(header string, options []string) (int, PickOutcome) {
	c.asked = append(c.asked, header)
	if len(c.picks) == 0 {
		return 0, PickSkipped
	}
	pick := c.picks[0]
	c.picks = c.picks[1:]
	return pick.index, pick.outcome
}

// recordingProgress captures progress callbacks.
type recordingProgress struct {
	steps []string
}

func (p *recordingProgress) Step(current, total int, message string) {
	p.steps = append(p.steps, message)
}

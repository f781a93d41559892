package collection

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/collectarr/internal/match"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore implements Store in memory and records mutations.
type fakeStore struct {
	existing *Info
	items    []match.Item

	smartErr       error
	smartLegacyErr error

	created      map[string][]string
	createdSmart map[string]Filter
	legacySmart  map[string]Filter
	added        map[string][]string
	deleted      []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		created:      make(map[string][]string),
		createdSmart: make(map[string]Filter),
		legacySmart:  make(map[string]Filter),
		added:        make(map[string][]string),
	}
}

func (f *fakeStore) FindCollection(_ context.Context, name string) (*Info, error) {
	if f.existing != nil && strings.EqualFold(f.existing.Name, name) {
		return f.existing, nil
	}
	return nil, nil
}

func (f *fakeStore) CollectionItems(_ context.Context, key string) ([]match.Item, error) {
	return f.items, nil
}

func (f *fakeStore) CreateStatic(_ context.Context, name string, ids []string) error {
	f.created[name] = ids
	return nil
}

func (f *fakeStore) CreateSmart(_ context.Context, name string, filter Filter) error {
	if f.smartErr != nil {
		return f.smartErr
	}
	f.createdSmart[name] = filter
	return nil
}

func (f *fakeStore) CreateSmartLegacy(_ context.Context, name string, filter Filter) error {
	if f.smartLegacyErr != nil {
		return f.smartLegacyErr
	}
	f.legacySmart[name] = filter
	return nil
}

func (f *fakeStore) AddItems(_ context.Context, key string, ids []string) error {
	f.added[key] = append(f.added[key], ids...)
	return nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

// scriptedPrompter replays fixed answers.
type scriptedPrompter struct {
	choices  []rune // 0 means cancel
	confirms []bool
	prompts  []string
}

func (p *scriptedPrompter) Choose(prompt string, choices string) (rune, bool) {
	p.prompts = append(p.prompts, prompt)
	if len(p.choices) == 0 {
		return 0, false
	}
	c := p.choices[0]
	p.choices = p.choices[1:]
	if c == 0 {
		return 0, false
	}
	return c, true
}

func (p *scriptedPrompter) Confirm(prompt string) bool {
	p.prompts = append(p.prompts, prompt)
	if len(p.confirms) == 0 {
		return false
	}
	c := p.confirms[0]
	p.confirms = p.confirms[1:]
	return c
}

func items(ids ...string) []match.Item {
	out := make([]match.Item, len(ids))
	for i, id := range ids {
		out[i] = match.Item{ID: id, Title: "Movie " + id, Year: 2000}
	}
	return out
}

func TestBuildStaticFreshCreateNeedsConfirm(t *testing.T) {
	store := newFakeStore()
	prompter := &scriptedPrompter{confirms: []bool{true}}
	r := NewReconciler(store, prompter, testLogger())

	res, err := r.BuildStatic(context.Background(), "Pixar", items("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, res.Action)
	assert.Equal(t, 2, res.Added)
	assert.Equal(t, []string{"a", "b"}, store.created["Pixar"])
}

func TestBuildStaticFreshCreateDeclined(t *testing.T) {
	store := newFakeStore()
	prompter := &scriptedPrompter{confirms: []bool{false}}
	r := NewReconciler(store, prompter, testLogger())

	res, err := r.BuildStatic(context.Background(), "Pixar", items("a"))
	require.NoError(t, err)
	assert.Equal(t, ActionCancelled, res.Action)
	assert.Empty(t, store.created)
}

func TestBuildStaticAppendSkipsExistingMembers(t *testing.T) {
	// Existing "Pixar" holds {A, B}; matched set is {B, C}.
	store := newFakeStore()
	store.existing = &Info{Key: "col-1", Name: "Pixar"}
	store.items = items("a", "b")

	prompter := &scriptedPrompter{choices: []rune{'a'}}
	r := NewReconciler(store, prompter, testLogger())

	res, err := r.BuildStatic(context.Background(), "pixar", items("b", "c"))
	require.NoError(t, err)
	assert.Equal(t, ActionAppended, res.Action)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 1, res.AlreadyPresent)
	assert.Equal(t, []string{"c"}, store.added["col-1"])
}

func TestBuildStaticAppendAllPresent(t *testing.T) {
	store := newFakeStore()
	store.existing = &Info{Key: "col-1", Name: "Pixar"}
	store.items = items("a", "b")

	prompter := &scriptedPrompter{choices: []rune{'a'}}
	r := NewReconciler(store, prompter, testLogger())

	res, err := r.BuildStatic(context.Background(), "Pixar", items("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, ActionAppended, res.Action)
	assert.Equal(t, 0, res.Added)
	assert.Equal(t, 2, res.AlreadyPresent)
	assert.Empty(t, store.added["col-1"], "no AddItems call when nothing is new")
}

func TestBuildStaticOverwriteDeletesFirst(t *testing.T) {
	store := newFakeStore()
	store.existing = &Info{Key: "col-1", Name: "Pixar"}

	prompter := &scriptedPrompter{choices: []rune{'o'}}
	r := NewReconciler(store, prompter, testLogger())

	res, err := r.BuildStatic(context.Background(), "Pixar", items("x"))
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, res.Action)
	assert.Equal(t, []string{"col-1"}, store.deleted)
	assert.Equal(t, []string{"x"}, store.created["Pixar"])
	// Overwrite consent stands in for the final confirm.
	for _, p := range prompter.prompts {
		assert.NotContains(t, p, "(y/n)")
	}
}

func TestBuildStaticCancel(t *testing.T) {
	store := newFakeStore()
	store.existing = &Info{Key: "col-1", Name: "Pixar"}

	prompter := &scriptedPrompter{choices: []rune{'c'}}
	r := NewReconciler(store, prompter, testLogger())

	res, err := r.BuildStatic(context.Background(), "Pixar", items("x"))
	require.NoError(t, err)
	assert.Equal(t, ActionCancelled, res.Action)
	assert.Empty(t, store.deleted)
	assert.Empty(t, store.created)
}

func TestBuildStaticOntoSmartOffersNoAppend(t *testing.T) {
	store := newFakeStore()
	store.existing = &Info{Key: "col-9", Name: "A24", Smart: true}

	prompter := &scriptedPrompter{choices: []rune{'o'}}
	r := NewReconciler(store, prompter, testLogger())

	res, err := r.BuildStatic(context.Background(), "A24", items("x"))
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, res.Action)
	require.Len(t, prompter.prompts, 1)
	assert.NotContains(t, prompter.prompts[0], "(A)ppend")
}

func TestBuildSmartFresh(t *testing.T) {
	store := newFakeStore()
	r := NewReconciler(store, &scriptedPrompter{}, testLogger())

	res, err := r.BuildSmart(context.Background(), "A24", Filter{"studio": "A24"}, nil)
	require.NoError(t, err)
	assert.Equal(t, ActionCreatedSmart, res.Action)
	assert.Equal(t, Filter{"studio": "A24"}, store.createdSmart["A24"])
}

func TestBuildSmartOverwritesExistingSmart(t *testing.T) {
	// Scenario: existing smart "A24", user overwrites with a new filter.
	store := newFakeStore()
	store.existing = &Info{Key: "col-9", Name: "A24", Smart: true}

	prompter := &scriptedPrompter{choices: []rune{'o'}}
	r := NewReconciler(store, prompter, testLogger())

	res, err := r.BuildSmart(context.Background(), "A24", Filter{"studio": "A24"}, nil)
	require.NoError(t, err)
	assert.Equal(t, ActionCreatedSmart, res.Action)
	assert.Equal(t, []string{"col-9"}, store.deleted)
	require.Len(t, prompter.prompts, 1)
	assert.NotContains(t, prompter.prompts[0], "(A)ppend")
}

func TestBuildSmartOntoStaticOffersNoAppend(t *testing.T) {
	// Smart rules never merge onto an existing static collection's members.
	store := newFakeStore()
	store.existing = &Info{Key: "col-2", Name: "Favorites"}

	prompter := &scriptedPrompter{choices: []rune{0}} // escape
	r := NewReconciler(store, prompter, testLogger())

	res, err := r.BuildSmart(context.Background(), "Favorites", Filter{"studio": "Neon"}, nil)
	require.NoError(t, err)
	assert.Equal(t, ActionCancelled, res.Action)
	require.Len(t, prompter.prompts, 1)
	assert.NotContains(t, prompter.prompts[0], "(A)ppend")
}

func TestBuildSmartLegacyFallback(t *testing.T) {
	store := newFakeStore()
	store.smartErr = ErrSmartUnsupported

	r := NewReconciler(store, &scriptedPrompter{}, testLogger())

	res, err := r.BuildSmart(context.Background(), "A24", Filter{"studio": "A24"}, nil)
	require.NoError(t, err)
	assert.Equal(t, ActionCreatedSmart, res.Action)
	assert.Equal(t, Filter{"studio": "A24"}, store.legacySmart["A24"])
}

func TestBuildSmartStaticFallbackAfterBothPathwaysFail(t *testing.T) {
	store := newFakeStore()
	store.smartErr = ErrSmartUnsupported
	store.smartLegacyErr = errors.New("http 400")

	prompter := &scriptedPrompter{confirms: []bool{true}}
	r := NewReconciler(store, prompter, testLogger())

	res, err := r.BuildSmart(context.Background(), "A24", Filter{"studio": "A24"}, items("m1", "m2"))
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, res.Action)
	assert.Equal(t, []string{"m1", "m2"}, store.created["A24"])
}

func TestBuildSmartFailsWithNothingToFallBackOn(t *testing.T) {
	store := newFakeStore()
	store.smartErr = ErrSmartUnsupported
	store.smartLegacyErr = errors.New("http 400")

	r := NewReconciler(store, &scriptedPrompter{}, testLogger())

	_, err := r.BuildSmart(context.Background(), "A24", Filter{"studio": "A24"}, nil)
	assert.Error(t, err)
}

func TestBuildSmartNonCapabilityErrorPropagates(t *testing.T) {
	store := newFakeStore()
	store.smartErr = errors.New("http 500")

	r := NewReconciler(store, &scriptedPrompter{}, testLogger())

	_, err := r.BuildSmart(context.Background(), "A24", Filter{"studio": "A24"}, items("x"))
	assert.Error(t, err)
	assert.Empty(t, store.legacySmart, "legacy pathway is only for capability errors")
}

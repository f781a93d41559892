// Package collection reconciles a resolved set of catalog items against the
// library's collection state: create fresh, append to an existing static
// collection, or overwrite. Smart (rule-based) collections are handled with a
// legacy creation fallback for older servers.
package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vmunix/collectarr/internal/match"
)

// ErrSmartUnsupported is returned by a Store whose server does not support
// the modern smart-collection creation endpoint.
var ErrSmartUnsupported = errors.New("smart collections not supported by server")

// Filter is a server-evaluated membership rule, e.g. {"studio": "A24"}.
// Opaque to the reconciler beyond pass-through.
type Filter map[string]string

// Info describes an existing collection.
type Info struct {
	Key   string // the collection's own catalog identity
	Name  string
	Smart bool
}

// Store mutates collection state in one library section.
type Store interface {
	// FindCollection looks up a collection by case-insensitive exact name.
	// Returns nil when absent.
	FindCollection(ctx context.Context, name string) (*Info, error)
	CollectionItems(ctx context.Context, key string) ([]match.Item, error)
	CreateStatic(ctx context.Context, name string, ids []string) error
	// CreateSmart may return ErrSmartUnsupported.
	CreateSmart(ctx context.Context, name string, filter Filter) error
	// CreateSmartLegacy builds the filter URI by hand for older servers.
	CreateSmartLegacy(ctx context.Context, name string, filter Filter) error
	AddItems(ctx context.Context, key string, ids []string) error
	Delete(ctx context.Context, key string) error
}

// Prompter is the human-interaction contract the reconciler needs.
// ok == false means the user cancelled (escape).
type Prompter interface {
	// Choose reads one of the given choice runes (case-insensitive).
	Choose(prompt string, choices string) (rune, bool)
	// Confirm asks a y/n question; cancel reads as "no".
	Confirm(prompt string) bool
}

// Action is the decision the reconciler executed.
type Action int

const (
	ActionCancelled Action = iota
	ActionCreated
	ActionCreatedSmart
	ActionAppended
)

func (a Action) String() string {
	switch a {
	case ActionCreated:
		return "created"
	case ActionCreatedSmart:
		return "created-smart"
	case ActionAppended:
		return "appended"
	default:
		return "cancelled"
	}
}

// Result summarizes a reconciliation.
type Result struct {
	Action         Action
	Added          int
	AlreadyPresent int
}

// Reconciler drives the create/append/overwrite state machine for one
// target collection name.
type Reconciler struct {
	store    Store
	prompter Prompter
	logger   *slog.Logger
}

// NewReconciler creates a reconciler.
func NewReconciler(store Store, prompter Prompter, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		store:    store,
		prompter: prompter,
		logger:   logger.With("component", "reconciler"),
	}
}

// BuildStatic creates or extends a static collection from resolved items.
//
// With no existing collection, creation happens after an explicit y/n
// confirmation. An existing static collection offers Append, Overwrite, or
// Cancel; an existing smart collection offers only Overwrite or Cancel,
// since rule-based collections have no membership list to append to.
// Consent given through Append/Overwrite stands in for the final confirm.
func (r *Reconciler) BuildStatic(ctx context.Context, name string, items []match.Item) (*Result, error) {
	existing, err := r.store.FindCollection(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("look up collection %q: %w", name, err)
	}

	if existing == nil {
		prompt := fmt.Sprintf("Create collection %q with %d items? (y/n): ", name, len(items))
		if !r.prompter.Confirm(prompt) {
			return &Result{Action: ActionCancelled}, nil
		}
		return r.createStatic(ctx, name, items)
	}

	if existing.Smart {
		choice, ok := r.prompter.Choose(
			fmt.Sprintf("Collection %q exists and is smart. (O)verwrite or (C)ancel? ", existing.Name), "oc")
		if !ok || choice == 'c' {
			return &Result{Action: ActionCancelled}, nil
		}
		return r.overwriteStatic(ctx, existing, name, items)
	}

	choice, ok := r.prompter.Choose(
		fmt.Sprintf("Collection %q already exists. (A)ppend, (O)verwrite, or (C)ancel? ", existing.Name), "aoc")
	if !ok || choice == 'c' {
		return &Result{Action: ActionCancelled}, nil
	}
	if choice == 'a' {
		return r.appendItems(ctx, existing, items)
	}
	return r.overwriteStatic(ctx, existing, name, items)
}

// BuildSmart creates a smart collection from a filter. An existing
// collection of either kind only offers Overwrite or Cancel: smart rules are
// never silently mixed onto existing membership. When both smart creation
// pathways fail, the user may fall back to a static collection built from
// the already-matched items, or abort.
func (r *Reconciler) BuildSmart(ctx context.Context, name string, filter Filter, matched []match.Item) (*Result, error) {
	existing, err := r.store.FindCollection(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("look up collection %q: %w", name, err)
	}

	if existing != nil {
		kind := "static"
		if existing.Smart {
			kind = "smart"
		}
		choice, ok := r.prompter.Choose(
			fmt.Sprintf("Collection %q exists (%s). (O)verwrite or (C)ancel? ", existing.Name, kind), "oc")
		if !ok || choice == 'c' {
			return &Result{Action: ActionCancelled}, nil
		}
		if err := r.store.Delete(ctx, existing.Key); err != nil {
			return nil, fmt.Errorf("delete collection %q: %w", existing.Name, err)
		}
	}

	err = r.store.CreateSmart(ctx, name, filter)
	if err == nil {
		return &Result{Action: ActionCreatedSmart}, nil
	}
	if !errors.Is(err, ErrSmartUnsupported) {
		return nil, fmt.Errorf("create smart collection %q: %w", name, err)
	}

	r.logger.Warn("smart collection endpoint unsupported, trying legacy pathway", "collection", name)
	legacyErr := r.store.CreateSmartLegacy(ctx, name, filter)
	if legacyErr == nil {
		return &Result{Action: ActionCreatedSmart}, nil
	}
	r.logger.Error("legacy smart creation failed", "collection", name, "error", legacyErr)

	if len(matched) == 0 {
		return nil, fmt.Errorf("create smart collection %q: %w", name, legacyErr)
	}
	prompt := fmt.Sprintf("Smart creation failed. Create a static collection from %d matched items instead? (y/n): ", len(matched))
	if !r.prompter.Confirm(prompt) {
		return &Result{Action: ActionCancelled}, nil
	}
	return r.createStatic(ctx, name, matched)
}

func (r *Reconciler) createStatic(ctx context.Context, name string, items []match.Item) (*Result, error) {
	if err := r.store.CreateStatic(ctx, name, itemIDs(items)); err != nil {
		return nil, fmt.Errorf("create collection %q: %w", name, err)
	}
	r.logger.Info("collection created", "collection", name, "items", len(items))
	return &Result{Action: ActionCreated, Added: len(items)}, nil
}

func (r *Reconciler) overwriteStatic(ctx context.Context, existing *Info, name string, items []match.Item) (*Result, error) {
	if err := r.store.Delete(ctx, existing.Key); err != nil {
		return nil, fmt.Errorf("delete collection %q: %w", existing.Name, err)
	}
	return r.createStatic(ctx, name, items)
}

// appendItems adds only the items whose identity is not already a member.
// Items already present are counted and reported, never treated as errors.
func (r *Reconciler) appendItems(ctx context.Context, existing *Info, items []match.Item) (*Result, error) {
	members, err := r.store.CollectionItems(ctx, existing.Key)
	if err != nil {
		return nil, fmt.Errorf("list items of %q: %w", existing.Name, err)
	}

	present := make(map[string]bool, len(members))
	for _, m := range members {
		present[m.ID] = true
	}

	var toAdd []string
	already := 0
	for _, item := range items {
		if present[item.ID] {
			already++
			continue
		}
		toAdd = append(toAdd, item.ID)
	}

	if len(toAdd) > 0 {
		if err := r.store.AddItems(ctx, existing.Key, toAdd); err != nil {
			return nil, fmt.Errorf("append to %q: %w", existing.Name, err)
		}
	}

	r.logger.Info("collection appended",
		"collection", existing.Name, "added", len(toAdd), "already_present", already)
	return &Result{Action: ActionAppended, Added: len(toAdd), AlreadyPresent: already}, nil
}

func itemIDs(items []match.Item) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/vmunix/collectarr/internal/collection"
	"github.com/vmunix/collectarr/internal/config"
	"github.com/vmunix/collectarr/internal/console"
	"github.com/vmunix/collectarr/internal/history"
	"github.com/vmunix/collectarr/internal/match"
	"github.com/vmunix/collectarr/internal/plex"
	"github.com/vmunix/collectarr/internal/scrape"
	"github.com/vmunix/collectarr/internal/tmdb"
)

// searchWorkers bounds concurrent Plex searches during a batch run.
const searchWorkers = 5

// App holds the wired dependencies shared by every command.
type App struct {
	cfgPath string
	cfg     *config.Config
	log     *slog.Logger
	con     *console.Console
}

// newApp discovers and loads configuration and sets up logging and the
// terminal surface.
func newApp(cfgPath string) (*App, error) {
	var err error
	if cfgPath == "" {
		cfgPath, err = config.Discover()
		if err != nil {
			return nil, fmt.Errorf("%w\nrun `collectarr config init` to create one", err)
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &config.ConfigError{Path: cfgPath, Errors: errs}
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	return &App{
		cfgPath: cfgPath,
		cfg:     cfg,
		log:     log,
		con:     console.New(os.Stdin, os.Stdout),
	}, nil
}

// newLogger builds the application logger. Without a log path, output goes
// to stderr only at warn and above so prompts stay readable.
func newLogger(cfg config.LogConfig) (*slog.Logger, error) {
	var w io.Writer
	level := parseLevel(cfg.Level)

	if cfg.Path != "" {
		f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
	} else {
		w = os.Stderr
		if level < slog.LevelWarn {
			level = slog.LevelWarn
		}
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// library connects to Plex and resolves the configured movie section.
func (a *App) library(ctx context.Context) (*plex.Library, error) {
	client := plex.NewClient(a.cfg.Plex.URL, a.cfg.Plex.Token, a.log)
	section, err := client.FindSection(ctx, a.cfg.Plex.Library)
	if err != nil {
		return nil, err
	}
	return client.Library(*section), nil
}

// tmdbClient returns a TMDB client, or an error when no key is configured.
func (a *App) tmdbClient() (*tmdb.Client, error) {
	if a.cfg.TMDB.APIKey == "" {
		return nil, errors.New("tmdb.api_key not configured; set it with `collectarr config set tmdb.api_key <key>`")
	}
	return tmdb.NewClient(a.cfg.TMDB.APIKey), nil
}

func (a *App) scraper() *scrape.Scraper {
	return scrape.New(a.log)
}

// buildStatic runs the full pipeline for one title list: match against the
// library, then reconcile a static collection, then record the build.
func (a *App) buildStatic(ctx context.Context, name, mode string, titles []string) error {
	lib, err := a.library(ctx)
	if err != nil {
		return err
	}

	batch, err := a.matchTitles(ctx, lib, titles)
	if err != nil || batch == nil {
		return err
	}

	items := matchedItems(batch)
	if len(items) == 0 {
		a.con.Warnf("no titles matched; nothing to build")
		return nil
	}

	rec := collection.NewReconciler(lib, a.con, a.log)
	result, err := rec.BuildStatic(ctx, name, items)
	if err != nil {
		return err
	}

	a.report(ctx, name, mode, batch, result)
	return nil
}

// buildSmart matches the title list first so a static fallback is available
// when the server rejects both smart creation pathways.
func (a *App) buildSmart(ctx context.Context, name, mode string, filter collection.Filter, titles []string) error {
	lib, err := a.library(ctx)
	if err != nil {
		return err
	}

	batch, err := a.matchTitles(ctx, lib, titles)
	if err != nil || batch == nil {
		return err
	}

	rec := collection.NewReconciler(lib, a.con, a.log)
	result, err := rec.BuildSmart(ctx, name, filter, matchedItems(batch))
	if err != nil {
		return err
	}

	a.report(ctx, name, mode, batch, result)
	return nil
}

// matchTitles resolves titles interactively. A nil batch with nil error
// means the user cancelled.
func (a *App) matchTitles(ctx context.Context, lib *plex.Library, titles []string) (*match.Batch, error) {
	a.con.Printf("Matching %d titles against %q...\n", len(titles), lib.Name())

	resolver := match.NewResolver(a.con)
	matcher := match.NewMatcher(lib, resolver, a.log,
		match.WithProgress(a.con),
		match.WithWorkers(searchWorkers),
	)

	batch, err := matcher.MatchAll(ctx, titles)
	if errors.Is(err, match.ErrCancelled) {
		a.con.Warnf("cancelled")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if len(batch.Unmatched) > 0 {
		a.con.Warnf("%d titles had no match:", len(batch.Unmatched))
		for _, raw := range batch.Unmatched {
			a.con.Printf("  - %s\n", raw)
		}
	}
	return batch, nil
}

// report prints the outcome and records non-cancelled builds in history.
func (a *App) report(ctx context.Context, name, mode string, batch *match.Batch, result *collection.Result) {
	switch result.Action {
	case collection.ActionCancelled:
		a.con.Warnf("cancelled; collection %q unchanged", name)
		return
	case collection.ActionCreated:
		a.con.Successf("created collection %q with %d items", name, result.Added)
	case collection.ActionCreatedSmart:
		a.con.Successf("created smart collection %q", name)
	case collection.ActionAppended:
		a.con.Successf("appended %d items to %q (%d already present)", result.Added, name, result.AlreadyPresent)
	}

	store, err := history.Open(a.cfg.History.Path)
	if err != nil {
		a.log.Warn("history unavailable", "error", err)
		return
	}
	defer store.Close()

	err = store.Add(ctx, history.Record{
		Name:      name,
		Library:   a.cfg.Plex.Library,
		Mode:      mode,
		Matched:   len(batch.Matched),
		Unmatched: len(batch.Unmatched),
		Action:    result.Action.String(),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		a.log.Warn("recording build failed", "error", err)
	}
}

func matchedItems(batch *match.Batch) []match.Item {
	items := make([]match.Item, len(batch.Matched))
	for i, m := range batch.Matched {
		items[i] = m.Item
	}
	return items
}

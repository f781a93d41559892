package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/collectarr/internal/match"
	"github.com/vmunix/collectarr/internal/tmdb"
)

// Bundled title lists for the most common franchises, used when no TMDB
// key is configured. TMDB stays authoritative when available.
//
//go:embed franchises.json
var franchiseFallbackJSON []byte

var franchiseCmd = &cobra.Command{
	Use:   "franchise [name]",
	Short: "Build a collection for a known film franchise",
	Long: `Builds a static collection from a franchise's filmography. Titles come
from the TMDB collection when an API key is configured, otherwise from a
bundled list for well-known franchises. Without a name argument, pick from
the menu.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cfgFlag)
		if err != nil {
			return err
		}

		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return app.runFranchise(cmd.Context(), name)
	},
}

func init() {
	rootCmd.AddCommand(franchiseCmd)
}

func (a *App) runFranchise(ctx context.Context, name string) error {
	name, collectionID, err := a.pickFranchise(name)
	if err != nil || name == "" {
		return err
	}

	titles, err := a.franchiseTitles(ctx, name, collectionID)
	if err != nil {
		return err
	}
	return a.buildStatic(ctx, name, "franchise", titles)
}

// pickFranchise resolves the franchise name from the argument or a menu.
// An empty name with nil error means the user cancelled.
func (a *App) pickFranchise(name string) (string, int64, error) {
	if name != "" {
		for known, id := range tmdb.KnownFranchises {
			if strings.EqualFold(known, name) {
				return known, id, nil
			}
		}
		return "", 0, fmt.Errorf("unknown franchise %q; run `collectarr franchise` to list them", name)
	}

	names := make([]string, 0, len(tmdb.KnownFranchises))
	for known := range tmdb.KnownFranchises {
		names = append(names, known)
	}
	sort.Strings(names)

	idx, outcome := a.con.PickIndex("Pick a franchise:", names)
	if outcome != match.Picked {
		return "", 0, nil
	}
	return names[idx], tmdb.KnownFranchises[names[idx]], nil
}

// franchiseTitles fetches the filmography from TMDB, falling back to the
// bundled lists when no key is configured.
func (a *App) franchiseTitles(ctx context.Context, name string, collectionID int64) ([]string, error) {
	client, err := a.tmdbClient()
	if err == nil {
		titles, fetchErr := client.CollectionTitles(ctx, collectionID)
		if fetchErr != nil {
			return nil, fetchErr
		}
		return titles, nil
	}

	fallback, loadErr := franchiseFallback()
	if loadErr != nil {
		return nil, loadErr
	}
	if titles, ok := fallback[name]; ok {
		a.con.Warnf("no TMDB key configured; using bundled %s list", name)
		return titles, nil
	}
	return nil, fmt.Errorf("franchise %q needs TMDB: %w", name, err)
}

func franchiseFallback() (map[string][]string, error) {
	var lists map[string][]string
	if err := json.Unmarshal(franchiseFallbackJSON, &lists); err != nil {
		return nil, fmt.Errorf("bundled franchise data: %w", err)
	}
	return lists, nil
}

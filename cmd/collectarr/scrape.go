package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/collectarr/internal/match"
	"github.com/vmunix/collectarr/internal/scrape"
)

var scrapeName string

var scrapeCmd = &cobra.Command{
	Use:   "scrape [list-or-url]",
	Short: "Build a collection from a scraped film list page",
	Long: `Scrapes a film list page into titles and builds a static collection
from the matches. The argument is either the name of a known list or any
Wikipedia film-list URL. Without an argument, pick from the menu.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cfgFlag)
		if err != nil {
			return err
		}

		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		return app.runScrape(cmd.Context(), arg)
	},
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeName, "name", "", "Collection name (defaults to the list name)")
	rootCmd.AddCommand(scrapeCmd)
}

func (a *App) runScrape(ctx context.Context, arg string) error {
	name, pageURL, err := a.pickList(arg)
	if err != nil || pageURL == "" {
		return err
	}
	if scrapeName != "" {
		name = scrapeName
	}
	if name == "" {
		name, _ = a.con.ReadLine("Collection name: ")
		if name == "" {
			return errors.New("a collection name is required for URL scrapes")
		}
	}

	a.con.Printf("Scraping %s...\n", pageURL)
	titles, err := a.scraper().FilmList(ctx, pageURL)
	if err != nil {
		return err
	}
	if len(titles) == 0 {
		return fmt.Errorf("no films found at %s", pageURL)
	}
	a.con.Printf("Found %d films.\n", len(titles))

	return a.buildStatic(ctx, name, "scrape", titles)
}

// pickList resolves the scrape target from the argument or a menu. An empty
// URL with nil error means the user cancelled.
func (a *App) pickList(arg string) (name, pageURL string, err error) {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return "", arg, nil
	}
	if arg != "" {
		for known, u := range scrape.KnownLists {
			if strings.EqualFold(known, arg) {
				return known, u, nil
			}
		}
		return "", "", fmt.Errorf("unknown list %q; run `collectarr scrape` to list them, or pass a URL", arg)
	}

	names := make([]string, 0, len(scrape.KnownLists))
	for known := range scrape.KnownLists {
		names = append(names, known)
	}
	sort.Strings(names)

	idx, outcome := a.con.PickIndex("Pick a film list:", names)
	if outcome != match.Picked {
		return "", "", nil
	}
	return names[idx], scrape.KnownLists[names[idx]], nil
}

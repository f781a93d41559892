package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/collectarr/internal/collection"
	"github.com/vmunix/collectarr/internal/match"
	"github.com/vmunix/collectarr/internal/tmdb"
)

// studioNames lists the known studios in display form; lookups go through
// tmdb.KnownStudios by lowercase alias.
var studioNames = []string{
	"A24",
	"DCEU",
	"Disney Animation",
	"DreamWorks Animation",
	"HBO",
	"MCU",
	"Neon",
	"Netflix",
	"Pixar",
	"Searchlight Pictures",
	"Studio Ghibli",
	"The Criterion Collection",
}

var studioSmart bool

var studioCmd = &cobra.Command{
	Use:   "studio [name]",
	Short: "Build a collection for a studio's filmography",
	Long: `Builds a collection of a studio's movies, discovered through TMDB.
With --smart, the collection is created as a server-evaluated rule instead
of a fixed membership list; if the server cannot, a static collection built
from the matched titles is offered instead.`,
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
		return app.runStudio(cmd.Context(), name, studioSmart)
	},
}

func init() {
	studioCmd.Flags().BoolVar(&studioSmart, "smart", false, "Create a smart (rule-based) collection")
	rootCmd.AddCommand(studioCmd)
}

func (a *App) runStudio(ctx context.Context, name string, smart bool) error {
	name, studio, err := a.pickStudio(name)
	if err != nil || name == "" {
		return err
	}

	client, err := a.tmdbClient()
	if err != nil {
		return err
	}

	a.con.Printf("Discovering %s movies on TMDB...\n", name)
	titles, err := client.DiscoverTitles(ctx, studio.Company, studio.Keyword, a.con)
	if err != nil {
		return err
	}
	if len(titles) == 0 {
		return fmt.Errorf("TMDB returned no movies for %q", name)
	}
	a.con.Printf("Found %d movies.\n", len(titles))

	if smart {
		return a.buildSmart(ctx, name, "smart", collection.Filter{"studio": name}, titles)
	}
	return a.buildStatic(ctx, name, "studio", titles)
}

// pickStudio resolves the studio from the argument or a menu. An empty name
// with nil error means the user cancelled.
func (a *App) pickStudio(name string) (string, tmdb.Studio, error) {
	if name != "" {
		if studio, ok := tmdb.KnownStudios[strings.ToLower(name)]; ok {
			return displayStudio(name), studio, nil
		}
		return "", tmdb.Studio{}, fmt.Errorf("unknown studio %q; run `collectarr studio` to list them", name)
	}

	idx, outcome := a.con.PickIndex("Pick a studio:", studioNames)
	if outcome != match.Picked {
		return "", tmdb.Studio{}, nil
	}
	name = studioNames[idx]
	return name, tmdb.KnownStudios[strings.ToLower(name)], nil
}

// displayStudio maps an alias typed in any case onto the display name.
func displayStudio(name string) string {
	for _, display := range studioNames {
		if strings.EqualFold(display, name) {
			return display
		}
	}
	return name
}

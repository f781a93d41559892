package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <keyword...>",
	Short: "Search TMDB for movie titles",
	Long: `Searches TMDB by keyword and prints matching movie titles, useful for
composing a title list before running build.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cfgFlag)
		if err != nil {
			return err
		}

		client, err := app.tmdbClient()
		if err != nil {
			return err
		}

		keyword := strings.Join(args, " ")
		titles, err := client.SearchTitles(cmd.Context(), keyword, searchLimit)
		if err != nil {
			return err
		}
		if len(titles) == 0 {
			return fmt.Errorf("no movies found for %q", keyword)
		}

		for _, t := range titles {
			app.con.Printf("%s\n", t)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "Maximum results")
	rootCmd.AddCommand(searchCmd)
}

package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

var cfgFlag string

var rootCmd = &cobra.Command{
	Use:   "collectarr",
	Short: "Build curated Plex movie collections",
	Long: `collectarr - curated Plex movie collections

Resolves lists of movie titles against a Plex library and builds
collections from the matches. Title lists come from manual input,
TMDB franchises and studios, or scraped film list pages.

Run without arguments for the interactive menu.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cfgFlag)
		if err != nil {
			return err
		}
		return app.runMenu(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFlag, "config", "", "Config file path (overrides discovery)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("collectarr {{.Version}}\n")
}

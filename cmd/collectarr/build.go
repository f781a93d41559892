package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var buildFile string

var buildCmd = &cobra.Command{
	Use:   "build <name> [title...]",
	Short: "Build a static collection from a list of titles",
	Long: `Builds a static collection from movie titles given as arguments,
read from a file (--file), or entered interactively. Titles may carry a
year suffix, e.g. "Dune (2021)", to disambiguate remakes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cfgFlag)
		if err != nil {
			return err
		}

		titles := args[1:]
		if buildFile != "" {
			titles, err = readTitleFile(buildFile)
			if err != nil {
				return err
			}
		}
		if len(titles) == 0 {
			titles = app.promptTitles()
		}
		if len(titles) == 0 {
			return errors.New("no titles given")
		}

		return app.buildStatic(cmd.Context(), args[0], "manual", titles)
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildFile, "file", "f", "", "Read titles from a file, one per line")
	rootCmd.AddCommand(buildCmd)
}

// promptTitles collects titles interactively until a blank line.
func (a *App) promptTitles() []string {
	a.con.Printf("Enter titles, one per line. Blank line finishes, esc cancels.\n")

	var titles []string
	for {
		line, ok := a.con.ReadLine(fmt.Sprintf("%3d> ", len(titles)+1))
		if !ok {
			return nil
		}
		if line == "" {
			return titles
		}
		titles = append(titles, line)
	}
}

// readTitleFile reads one title per line, skipping blanks and # comments.
func readTitleFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read title file: %w", err)
	}

	var titles []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		titles = append(titles, line)
	}
	return titles, nil
}

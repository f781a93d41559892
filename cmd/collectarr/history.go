package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vmunix/collectarr/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent collection builds",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cfgFlag)
		if err != nil {
			return err
		}
		return app.showHistory(cmd.Context(), historyLimit)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of builds to show")
	rootCmd.AddCommand(historyCmd)
}

func (a *App) showHistory(ctx context.Context, limit int) error {
	store, err := history.Open(a.cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(ctx, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		a.con.Printf("no builds recorded yet\n")
		return nil
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Name,
			r.Mode,
			r.Action,
			strconv.Itoa(r.Matched),
			strconv.Itoa(r.Unmatched),
		}
	}
	a.con.Table([]string{"WHEN", "COLLECTION", "MODE", "ACTION", "MATCHED", "UNMATCHED"}, rows)
	return nil
}

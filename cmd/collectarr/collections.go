package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List collections in the configured library",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cfgFlag)
		if err != nil {
			return err
		}
		return app.listCollections(cmd.Context())
	},
}

var collectionsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a collection (member movies are untouched)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cfgFlag)
		if err != nil {
			return err
		}
		return app.deleteCollection(cmd.Context(), args[0])
	},
}

func init() {
	collectionsCmd.AddCommand(collectionsDeleteCmd)
	rootCmd.AddCommand(collectionsCmd)
}

func (a *App) listCollections(ctx context.Context) error {
	lib, err := a.library(ctx)
	if err != nil {
		return err
	}

	infos, err := lib.Collections(ctx)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		a.con.Printf("no collections in %q\n", lib.Name())
		return nil
	}

	rows := make([][]string, len(infos))
	for i, info := range infos {
		kind := "static"
		if info.Smart {
			kind = "smart"
		}
		rows[i] = []string{info.Name, kind}
	}
	a.con.Table([]string{"NAME", "TYPE"}, rows)
	return nil
}

func (a *App) deleteCollection(ctx context.Context, name string) error {
	lib, err := a.library(ctx)
	if err != nil {
		return err
	}

	info, err := lib.FindCollection(ctx, name)
	if err != nil {
		return err
	}
	if info == nil {
		return fmt.Errorf("no collection named %q in %q", name, lib.Name())
	}

	if !a.con.Confirm(fmt.Sprintf("Delete collection %q?", info.Name)) {
		a.con.Warnf("cancelled")
		return nil
	}
	if err := lib.Delete(ctx, info.Key); err != nil {
		return err
	}
	a.con.Successf("deleted collection %q", info.Name)
	return nil
}

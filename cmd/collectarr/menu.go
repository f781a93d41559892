package main

import (
	"context"
	"errors"
	"fmt"
)

// runMenu is the no-argument entry point: a loop of numbered modes. A mode
// failure prints the error and returns to the menu rather than exiting.
func (a *App) runMenu(ctx context.Context) error {
	a.con.Header(fmt.Sprintf("collectarr %s | %s, library %q", version, a.cfg.Plex.URL, a.cfg.Plex.Library))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		a.con.Printf(`
  1) Build collection from titles
  2) Franchise collection
  3) Studio collection
  4) Smart studio collection
  5) Scrape a film list
  6) List collections
  7) Build history
  8) Settings
  q) Quit

`)
		choice, ok := a.con.ReadLine("> ")
		if !ok || choice == "q" || choice == "quit" {
			return nil
		}

		var err error
		switch choice {
		case "1":
			err = a.menuManual(ctx)
		case "2":
			err = a.runFranchise(ctx, "")
		case "3":
			err = a.runStudio(ctx, "", false)
		case "4":
			err = a.runStudio(ctx, "", true)
		case "5":
			err = a.runScrape(ctx, "")
		case "6":
			err = a.listCollections(ctx)
		case "7":
			err = a.showHistory(ctx, 20)
		case "8":
			err = a.menuSettings(ctx)
		default:
			a.con.Warnf("unknown choice %q", choice)
			continue
		}

		if errors.Is(err, context.Canceled) {
			return err
		}
		if err != nil {
			a.con.Errorf("%v", err)
		}
	}
}

// menuSettings shows the effective config and offers a connection test.
// Editing goes through `collectarr config set`, which survives re-runs.
func (a *App) menuSettings(ctx context.Context) error {
	a.showConfig()
	if a.con.Confirm("Test connections now?") {
		return a.testConfig(ctx)
	}
	return nil
}

func (a *App) menuManual(ctx context.Context) error {
	name, ok := a.con.ReadLine("Collection name: ")
	if !ok || name == "" {
		return nil
	}
	titles := a.promptTitles()
	if len(titles) == 0 {
		return nil
	}
	return a.buildStatic(ctx, name, "manual", titles)
}

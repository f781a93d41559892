package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/vmunix/collectarr/internal/config"
	"github.com/vmunix/collectarr/internal/plex"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter config file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultPath()
		if len(args) > 0 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Printf("wrote %s\nedit it, then run `collectarr config test`\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, cfg, err := loadForEditing()
		if err != nil {
			return err
		}
		fmt.Printf("# %s\n", path)
		return toml.NewEncoder(os.Stdout).Encode(redactConfig(cfg))
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Update one config value",
	Long:  "Updates one value in the config file. Keys: " + strings.Join(config.Keys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, cfg, err := loadForEditing()
		if err != nil {
			return err
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Write(path); err != nil {
			return err
		}
		fmt.Printf("set %s in %s\n", args[0], path)
		return nil
	},
}

var configTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Validate the config and test Plex and TMDB connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cfgFlag)
		if err != nil {
			return err
		}
		return app.testConfig(cmd.Context())
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd, configSetCmd, configTestCmd)
	rootCmd.AddCommand(configCmd)
}

// loadForEditing loads the config without validating, so `config set` can
// repair an incomplete file.
func loadForEditing() (string, *config.Config, error) {
	path := cfgFlag
	if path == "" {
		var err error
		path, err = config.Discover()
		if err != nil {
			return "", nil, fmt.Errorf("%w\nrun `collectarr config init` to create one", err)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return "", nil, err
	}
	return path, cfg, nil
}

// testConfig checks both backends and stamps last_verified on success.
func (a *App) testConfig(ctx context.Context) error {
	now := time.Now().UTC().Format(time.RFC3339)
	failed := false

	client := plex.NewClient(a.cfg.Plex.URL, a.cfg.Plex.Token, a.log)
	identity, err := client.Identity(ctx)
	if err != nil {
		failed = true
		a.con.Errorf("plex: %v", err)
	} else if _, err := client.FindSection(ctx, a.cfg.Plex.Library); err != nil {
		failed = true
		a.con.Errorf("plex: %v", err)
	} else {
		a.con.Successf("plex: %s (%s), library %q found", identity.Name, identity.Version, a.cfg.Plex.Library)
		a.cfg.Plex.LastVerified = now
	}

	if a.cfg.TMDB.APIKey == "" {
		a.con.Warnf("tmdb: no API key configured (franchise and studio modes disabled)")
	} else if tm, err := a.tmdbClient(); err == nil {
		if err := tm.Validate(ctx); err != nil {
			failed = true
			a.con.Errorf("tmdb: %v", err)
		} else {
			a.con.Successf("tmdb: API key valid")
			a.cfg.TMDB.LastVerified = now
		}
	}

	if err := a.cfg.Write(a.cfgPath); err != nil {
		a.log.Warn("could not update config", "error", err)
	}
	if failed {
		return errors.New("configuration test failed")
	}
	return nil
}

// showConfig prints the effective config with secrets redacted.
func (a *App) showConfig() {
	a.con.Header(a.cfgPath)
	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(redactConfig(a.cfg)); err == nil {
		a.con.Printf("%s", buf.String())
	}
}

func redactConfig(cfg *config.Config) config.Config {
	redacted := *cfg
	redacted.Plex.Token = redact(cfg.Plex.Token)
	redacted.TMDB.APIKey = redact(cfg.TMDB.APIKey)
	return redacted
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}

// Package cli wires the cobra command surface over the registry, resolver,
// and sync engine.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/hawk-tools/hawk-hooks/internal/config"
	"github.com/hawk-tools/hawk-hooks/internal/registry"
	"github.com/hawk-tools/hawk-hooks/internal/syncer"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "hawk-hooks",
	Short: "Manage declarative components for AI coding tools",
	Long: `hawk-hooks keeps AI coding tools (Claude, Gemini, Codex, OpenCode, Cursor,
Antigravity) in sync with one registry of skills, hooks, commands, agents,
and MCP server definitions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		handler := tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		})
		slog.SetDefault(slog.New(handler))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command with the build version injected via ldflags.
// Errors are printed here because the root command silences cobra's own
// reporting.
func Execute(version string) error {
	rootCmd.Version = version
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	}
	return err
}

// openStore resolves the hawk-hooks home and returns the config store plus
// the component registry rooted inside it.
func openStore() (*config.Store, *registry.Registry, error) {
	home, err := config.DefaultHome()
	if err != nil {
		return nil, nil, err
	}
	store := config.NewStore(home)
	return store, registry.New(store.RegistryRoot()), nil
}

// openEngine builds a sync engine over the default store and registry.
func openEngine() (*syncer.Engine, error) {
	store, reg, err := openStore()
	if err != nil {
		return nil, err
	}
	return syncer.New(store, reg, slog.Default()), nil
}

package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func init() {
	registerCmd.AddCommand(registerListCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(unregisterCmd)
}

var registerCmd = &cobra.Command{
	Use:   "register <dir>",
	Short: "Register a directory in the sync hierarchy",
	Long: `Register a directory so its .hawk-hooks.yaml participates as a layer in
the directory chain of every project beneath it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		if err := store.RegisterDir(abs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", abs)
		return nil
	},
}

var registerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered directories",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		dirs, err := store.RegisteredDirs()
		if err != nil {
			return err
		}
		if len(dirs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No directories registered.")
			return nil
		}
		for _, d := range dirs {
			fmt.Fprintln(cmd.OutOrStdout(), d)
		}
		return nil
	},
}

var unregisterCmd = &cobra.Command{
	Use:   "unregister <dir>",
	Short: "Remove a directory from the sync hierarchy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		removed, err := store.UnregisterDir(args[0])
		if err != nil {
			return err
		}
		if !removed {
			fmt.Fprintln(cmd.OutOrStdout(), "Directory was not registered.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Unregistered.")
		return nil
	},
}

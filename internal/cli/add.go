package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hawk-tools/hawk-hooks/internal/component"
	"github.com/hawk-tools/hawk-hooks/internal/manifest"
)

func init() {
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <type> <name> <source>",
	Short: "Copy a component into the registry",
	Long: `Add a component to the registry under <type>/<name>, copying the source
file or directory tree.

Example:
  hawk-hooks add skill tdd ./skills/tdd
  hawk-hooks add hook commit-lint ./commit-lint.sh
  hawk-hooks add mcp github ./github-server.json`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, ok := component.Parse(args[0])
		if !ok {
			return fmt.Errorf("unknown component type %q", args[0])
		}
		name, source := args[1], args[2]

		_, reg, err := openStore()
		if err != nil {
			return err
		}

		if clash, err := reg.DetectClash(t, name); err != nil {
			return err
		} else if clash {
			return fmt.Errorf("%s %q clashes with an existing registry entry", t, name)
		}

		dst, err := reg.Add(t, name, source)
		if err != nil {
			return err
		}

		// Directory-backed components may carry metadata; a bad manifest
		// rejects the add so the registry never holds invalid entries.
		m, err := manifest.Load(dst)
		if err != nil {
			reg.Remove(t, name)
			return fmt.Errorf("reading manifest: %w", err)
		}
		if m != nil {
			if err := m.CheckVersion(); err != nil {
				reg.Remove(t, name)
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Added %s/%s -> %s\n", t, name, dst)
		return nil
	},
}

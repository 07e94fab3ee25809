package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hawk-tools/hawk-hooks/internal/component"
)

func init() {
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:   "remove <type> <name>",
	Short: "Delete a component from the registry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, ok := component.Parse(args[0])
		if !ok {
			return fmt.Errorf("unknown component type %q", args[0])
		}
		name := args[1]

		_, reg, err := openStore()
		if err != nil {
			return err
		}

		removed, err := reg.Remove(t, name)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Fprintf(cmd.OutOrStdout(), "%s/%s was not in the registry.\n", t, name)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s/%s. Run 'hawk-hooks sync' to drop its links.\n", t, name)
		return nil
	},
}

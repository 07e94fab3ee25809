package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hawk-tools/hawk-hooks/internal/syncer"
	"github.com/hawk-tools/hawk-hooks/internal/tool"
)

var (
	syncDryRun bool
	syncTools  []string
)

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Report what would change without writing")
	syncCmd.Flags().StringSliceVar(&syncTools, "tool", nil, "Limit sync to specific tools (default: all)")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync [project-dir...]",
	Short: "Reconcile tool config directories with the resolved component sets",
	Long: `Sync the global scope, plus any given project directories, for every
enabled tool. Without arguments only the global scope is synced.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine()
		if err != nil {
			return err
		}
		tools, err := selectTools(syncTools)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		results, err := engine.SyncGlobal(tools, syncDryRun)
		if err != nil {
			return fmt.Errorf("global sync: %w", err)
		}
		fmt.Fprintf(out, "%s\n", scopeHeading("global", syncDryRun))
		fmt.Fprint(out, syncer.FormatSyncResults(results))

		failed := anyErrors(results)
		for _, dir := range args {
			if _, err := os.Stat(dir); err != nil {
				return fmt.Errorf("project directory %s: %w", dir, err)
			}
			results, err := engine.SyncDirectory(dir, tools, syncDryRun)
			if err != nil {
				return fmt.Errorf("syncing %s: %w", dir, err)
			}
			fmt.Fprintf(out, "%s\n", scopeHeading(dir, syncDryRun))
			fmt.Fprint(out, syncer.FormatSyncResults(results))
			failed = failed || anyErrors(results)
		}

		if failed {
			return fmt.Errorf("sync finished with errors")
		}
		return nil
	},
}

// selectTools maps --tool values onto tool names, defaulting to all tools.
func selectTools(requested []string) ([]tool.Name, error) {
	if len(requested) == 0 {
		return tool.All(), nil
	}
	var tools []tool.Name
	for _, s := range requested {
		n, ok := tool.Parse(s)
		if !ok {
			return nil, fmt.Errorf("unknown tool %q", s)
		}
		tools = append(tools, n)
	}
	return tools, nil
}

func scopeHeading(scope string, dryRun bool) string {
	heading := color.New(color.Bold).Sprintf("== %s ==", scope)
	if dryRun {
		heading += color.YellowString(" (dry run)")
	}
	return heading
}

func anyErrors(results []*tool.SyncResult) bool {
	for _, r := range results {
		if len(r.Errors) > 0 {
			return true
		}
	}
	return false
}

package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hawk-tools/hawk-hooks/internal/component"
	"github.com/hawk-tools/hawk-hooks/internal/manifest"
)

var (
	listTypeFilter string
	listJSON       bool
)

func init() {
	listCmd.Flags().StringVar(&listTypeFilter, "type", "", "Filter by component type")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry is one registry entry prepared for display.
type listEntry struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registry components",
	RunE: func(cmd *cobra.Command, args []string) error {
		var filter *component.Type
		if listTypeFilter != "" {
			t, ok := component.Parse(listTypeFilter)
			if !ok {
				return fmt.Errorf("unknown component type %q", listTypeFilter)
			}
			filter = &t
		}

		_, reg, err := openStore()
		if err != nil {
			return err
		}
		byType, err := reg.List(filter)
		if err != nil {
			return err
		}

		var entries []listEntry
		for _, t := range component.All() {
			for _, name := range byType[t] {
				entry := listEntry{Type: string(t), Name: name}
				if path, err := reg.GetPath(t, name); err == nil {
					if m, err := manifest.Load(path); err == nil && m != nil {
						entry.Version = m.Version
					}
				}
				entries = append(entries, entry)
			}
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "Registry is empty.")
			return nil
		}
		if listJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tNAME\tVERSION")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Type, e.Name, e.Version)
		}
		return w.Flush()
	},
}

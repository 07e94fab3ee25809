package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hawk-tools/hawk-hooks/internal/component"
	"github.com/hawk-tools/hawk-hooks/internal/manifest"
	"github.com/hawk-tools/hawk-hooks/internal/platform"
	"github.com/hawk-tools/hawk-hooks/internal/registry"
	"github.com/hawk-tools/hawk-hooks/internal/tool"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the registry and tool directories",
	Long: `Validate registry entries and their manifests, and look for broken
symlinks in each tool's global config directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, reg, err := openStore()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		failures := checkRegistry(out, reg)
		failures += checkToolLinks(out, reg)

		if failures > 0 {
			return fmt.Errorf("doctor found %d problem(s)", failures)
		}
		fmt.Fprintln(out, "All checks passed.")
		return nil
	},
}

// checkRegistry validates every entry's manifest, when present.
func checkRegistry(out io.Writer, reg *registry.Registry) int {
	entries, err := reg.ListFlat()
	if err != nil {
		fail(out, "registry", err.Error())
		return 1
	}

	failures := 0
	for _, e := range entries {
		path, err := reg.GetPath(e.Type, e.Name)
		if err != nil {
			fail(out, fmt.Sprintf("%s/%s", e.Type, e.Name), err.Error())
			failures++
			continue
		}
		m, err := manifest.Load(path)
		if err != nil {
			fail(out, fmt.Sprintf("%s/%s", e.Type, e.Name), err.Error())
			failures++
			continue
		}
		if m == nil {
			ok(out, fmt.Sprintf("%s/%s", e.Type, e.Name))
			continue
		}

		res, err := manifest.ValidateFile(filepath.Join(path, manifest.FileName))
		verErr := m.CheckVersion()
		switch {
		case err != nil:
			fail(out, fmt.Sprintf("%s/%s", e.Type, e.Name), err.Error())
			failures++
		case !res.Valid:
			for _, issue := range res.Issues {
				fail(out, fmt.Sprintf("%s/%s%s", e.Type, e.Name, issue.Path), issue.Message)
			}
			failures++
		case verErr != nil:
			fail(out, fmt.Sprintf("%s/%s", e.Type, e.Name), verErr.Error())
			failures++
		default:
			ok(out, fmt.Sprintf("%s/%s", e.Type, e.Name))
		}
	}
	return failures
}

// checkToolLinks looks for dangling registry symlinks under each tool's
// global directory.
func checkToolLinks(out io.Writer, reg *registry.Registry) int {
	failures := 0
	for _, name := range tool.All() {
		ad := tool.ForName(name)
		globalDir, err := ad.GlobalDir()
		if err != nil {
			continue
		}
		for _, t := range component.All() {
			typeDir := filepath.Join(globalDir, t.Dir())
			entries, err := os.ReadDir(typeDir)
			if err != nil {
				continue
			}
			for _, entry := range entries {
				link := filepath.Join(typeDir, entry.Name())
				target, err := platform.ReadSymlinkTarget(link)
				if err != nil {
					continue // not a symlink; generated files are checked by sync
				}
				if _, err := os.Stat(target); err != nil {
					fail(out, link, "dangling symlink -> "+target)
					failures++
				}
			}
		}
	}
	return failures
}

func ok(out io.Writer, subject string) {
	fmt.Fprintf(out, "  %s %s\n", color.GreenString("[ OK ]"), subject)
}

func fail(out io.Writer, subject, msg string) {
	fmt.Fprintf(out, "  %s %s: %s\n", color.RedString("[FAIL]"), subject, msg)
}

package tool

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// runnerMarker identifies shim files generated by this system, so sync can
// tell its own output apart from hand-authored hook entries.
const runnerMarker = "# hawk-hooks runner"

// runnerEntryNames is the lookup order for the entry script of a
// directory-backed hook.
var runnerEntryNames = []string{"run.sh", "run.bash", "run.py", "run.js", "run.mjs", "run"}

// interpreters maps script extensions to the command that runs them.
var interpreters = map[string]string{
	".sh":   "bash",
	".bash": "bash",
	".py":   "python3",
	".js":   "node",
	".mjs":  "node",
}

// BuildRunner generates the executable shim a tool invokes to run the hook
// stored at entryPath (a script file, or a directory with a run.* entry).
// The interpreter is selected by file extension; extensionless scripts are
// executed directly.
func BuildRunner(name, entryPath string) (string, error) {
	script, err := resolveHookScript(entryPath)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("#!/usr/bin/env bash\n")
	fmt.Fprintf(&b, "%s: %s\n", runnerMarker, name)
	if interp, ok := interpreters[filepath.Ext(script)]; ok {
		fmt.Fprintf(&b, "exec %s %q \"$@\"\n", interp, script)
	} else {
		fmt.Fprintf(&b, "exec %q \"$@\"\n", script)
	}
	return b.String(), nil
}

// IsRunner reports whether data is a shim generated by BuildRunner.
func IsRunner(data []byte) bool {
	return bytes.Contains(data, []byte(runnerMarker))
}

// resolveHookScript returns the script a hook entry executes: the entry
// itself when it is a file, or its run.* entry when it is a directory.
func resolveHookScript(entryPath string) (string, error) {
	info, err := os.Stat(entryPath)
	if err != nil {
		return "", fmt.Errorf("missing from registry")
	}
	if !info.IsDir() {
		return entryPath, nil
	}
	for _, candidate := range runnerEntryNames {
		p := filepath.Join(entryPath, candidate)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("no run.* entry script in %s", entryPath)
}

package tool

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildRunnerInterpreterByExtension(t *testing.T) {
	tests := []struct {
		script string
		interp string
	}{
		{"hook.sh", "bash"},
		{"hook.bash", "bash"},
		{"hook.py", "python3"},
		{"hook.js", "node"},
		{"hook.mjs", "node"},
	}

	for _, tt := range tests {
		t.Run(tt.script, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.script)
			if err := os.WriteFile(path, []byte("#!"), 0o755); err != nil {
				t.Fatal(err)
			}

			shim, err := BuildRunner("fmt", path)
			if err != nil {
				t.Fatalf("build runner: %v", err)
			}
			wantExec := fmt.Sprintf("exec %s %q \"$@\"\n", tt.interp, path)
			if !strings.Contains(shim, wantExec) {
				t.Errorf("shim = %q, want exec line %q", shim, wantExec)
			}
			if !strings.HasPrefix(shim, "#!/usr/bin/env bash\n") {
				t.Errorf("shim missing shebang: %q", shim)
			}
			if !IsRunner([]byte(shim)) {
				t.Error("generated shim not recognized as a runner")
			}
		})
	}
}

func TestBuildRunnerExtensionlessScriptExecsDirectly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hook")
	if err := os.WriteFile(path, []byte("#!"), 0o755); err != nil {
		t.Fatal(err)
	}

	shim, err := BuildRunner("fmt", path)
	if err != nil {
		t.Fatal(err)
	}
	want := fmt.Sprintf("exec %q \"$@\"\n", path)
	if !strings.Contains(shim, want) {
		t.Errorf("shim = %q, want exec line %q", shim, want)
	}
}

func TestBuildRunnerDirectoryEntryLookup(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "run.py")
	if err := os.WriteFile(entry, []byte("pass"), 0o755); err != nil {
		t.Fatal(err)
	}

	shim, err := BuildRunner("greeter", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(shim, fmt.Sprintf("exec python3 %q", entry)) {
		t.Errorf("shim = %q, want python3 entry %q", shim, entry)
	}
}

func TestBuildRunnerDirectoryWithoutEntryFails(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0o644)

	_, err := BuildRunner("greeter", dir)
	if err == nil || !strings.Contains(err.Error(), "no run.") {
		t.Errorf("error = %v, want missing run.* entry", err)
	}
}

func TestBuildRunnerMissingEntryFails(t *testing.T) {
	_, err := BuildRunner("ghost", filepath.Join(t.TempDir(), "nope"))
	if err == nil || !strings.Contains(err.Error(), "missing from registry") {
		t.Errorf("error = %v, want missing-from-registry", err)
	}
}

func TestIsRunnerRejectsHandAuthoredScripts(t *testing.T) {
	if IsRunner([]byte("#!/usr/bin/env bash\necho custom hook\n")) {
		t.Error("hand-authored script misidentified as a runner")
	}
}

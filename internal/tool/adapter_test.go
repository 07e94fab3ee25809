package tool

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hawk-tools/hawk-hooks/internal/component"
	"github.com/hawk-tools/hawk-hooks/internal/resolver"
)

// setupRegistry builds a registry root with one entry per exercised type.
func setupRegistry(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "registry")

	write := func(rel, content string) {
		t.Helper()
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	write("skills/tdd", "use tdd\n")
	write("skills/react", "use react\n")
	write("agents/reviewer", "review prs\n")
	write("hooks/greeter/run.py", "print('hi')\n")
	write("mcp/context7", `{"command": "npx", "args": ["-y", "context7"]}`)
	return root
}

func testAdapter() *adapter {
	return &adapter{
		name:        Gemini,
		dirName:     ".gemini",
		hookSupport: HookNative,
		mcp:         inlineJSON{file: "settings.json", key: "mcpServers", marker: "hawkManaged"},
	}
}

func skillSet(names ...string) *resolver.ResolvedSet {
	return resolver.NewSet(map[component.Type][]string{component.Skill: names})
}

func TestSyncLinksComponents(t *testing.T) {
	reg := setupRegistry(t)
	target := t.TempDir()
	a := testAdapter()

	set := resolver.NewSet(map[component.Type][]string{
		component.Skill: {"tdd"},
		component.Agent: {"reviewer"},
	})
	res := a.Sync(set, target, reg, false)
	if len(res.Errors) > 0 {
		t.Fatalf("errors: %v", res.Errors)
	}
	wantLinked := []string{"skill/tdd", "agent/reviewer"}
	if !reflect.DeepEqual(res.Linked, wantLinked) {
		t.Errorf("linked = %v, want %v", res.Linked, wantLinked)
	}

	link := filepath.Join(target, "skills", "tdd")
	dest, err := os.Readlink(link)
	if err != nil {
		t.Fatalf("readlink: %v", err)
	}
	if want := filepath.Join(reg, "skills", "tdd"); dest != want {
		t.Errorf("link target = %q, want %q", dest, want)
	}
}

func TestSyncIsIdempotent(t *testing.T) {
	reg := setupRegistry(t)
	target := t.TempDir()
	a := testAdapter()
	set := resolver.NewSet(map[component.Type][]string{
		component.Skill: {"tdd"},
		component.Hook:  {"greeter"},
		component.MCP:   {"context7"},
	})

	if res := a.Sync(set, target, reg, false); len(res.Errors) > 0 {
		t.Fatalf("first pass errors: %v", res.Errors)
	}
	res := a.Sync(set, target, reg, false)
	if res.Changed() {
		t.Errorf("second pass reported changes: linked=%v unlinked=%v errors=%v",
			res.Linked, res.Unlinked, res.Errors)
	}
}

func TestSyncDryRunReportsWithoutMutating(t *testing.T) {
	reg := setupRegistry(t)
	a := testAdapter()
	set := resolver.NewSet(map[component.Type][]string{
		component.Skill: {"tdd"},
		component.Hook:  {"greeter"},
		component.MCP:   {"context7"},
	})

	dryTarget := t.TempDir()
	dry := a.Sync(set, dryTarget, reg, true)

	realTarget := t.TempDir()
	actual := a.Sync(set, realTarget, reg, false)

	if !reflect.DeepEqual(dry.Linked, actual.Linked) {
		t.Errorf("dry-run linked %v differs from real run %v", dry.Linked, actual.Linked)
	}
	entries, err := os.ReadDir(dryTarget)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("dry run created entries: %v", entries)
	}
}

func TestSyncRefusesToReplaceUnownedEntry(t *testing.T) {
	reg := setupRegistry(t)
	target := t.TempDir()
	a := testAdapter()

	skillsDir := filepath.Join(target, "skills")
	if err := os.MkdirAll(skillsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	handFile := filepath.Join(skillsDir, "tdd")
	if err := os.WriteFile(handFile, []byte("my own notes\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res := a.Sync(skillSet("tdd"), target, reg, false)
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "not owned by hawk-hooks") {
		t.Fatalf("errors = %v, want ownership conflict", res.Errors)
	}
	if len(res.Linked) != 0 {
		t.Errorf("linked = %v, want none", res.Linked)
	}
	data, err := os.ReadFile(handFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "my own notes\n" {
		t.Errorf("hand-authored file replaced: %q", data)
	}

	// Dry run reports the same conflict.
	dry := a.Sync(skillSet("tdd"), target, reg, true)
	if !reflect.DeepEqual(dry.Errors, res.Errors) {
		t.Errorf("dry-run errors %v differ from real run %v", dry.Errors, res.Errors)
	}
}

func TestSyncRefusesToReplaceForeignSymlink(t *testing.T) {
	reg := setupRegistry(t)
	target := t.TempDir()
	a := testAdapter()

	elsewhere := filepath.Join(t.TempDir(), "elsewhere")
	if err := os.WriteFile(elsewhere, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	skillsDir := filepath.Join(target, "skills")
	if err := os.MkdirAll(skillsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(elsewhere, filepath.Join(skillsDir, "tdd")); err != nil {
		t.Fatal(err)
	}

	res := a.Sync(skillSet("tdd"), target, reg, false)
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "not owned by hawk-hooks") {
		t.Fatalf("errors = %v, want ownership conflict", res.Errors)
	}
	dest, err := os.Readlink(filepath.Join(skillsDir, "tdd"))
	if err != nil || dest != elsewhere {
		t.Errorf("foreign symlink replaced: %q, %v", dest, err)
	}
}

func TestSyncReplacesStaleOwnedLink(t *testing.T) {
	reg := setupRegistry(t)
	target := t.TempDir()
	a := testAdapter()

	// A link into the registry under the wrong source is ours to fix.
	skillsDir := filepath.Join(target, "skills")
	if err := os.MkdirAll(skillsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(reg, "skills", "react"), filepath.Join(skillsDir, "tdd")); err != nil {
		t.Fatal(err)
	}

	res := a.Sync(skillSet("tdd"), target, reg, false)
	if len(res.Errors) > 0 {
		t.Fatalf("errors: %v", res.Errors)
	}
	if !reflect.DeepEqual(res.Linked, []string{"skill/tdd"}) {
		t.Errorf("linked = %v, want [skill/tdd]", res.Linked)
	}
	dest, err := os.Readlink(filepath.Join(skillsDir, "tdd"))
	if err != nil || dest != filepath.Join(reg, "skills", "tdd") {
		t.Errorf("link target = %q, %v", dest, err)
	}
}

func TestSyncRefusesToOverwriteHandAuthoredHook(t *testing.T) {
	reg := setupRegistry(t)
	target := t.TempDir()
	a := testAdapter()

	hooksDir := filepath.Join(target, "hooks")
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		t.Fatal(err)
	}
	handHook := filepath.Join(hooksDir, "greeter")
	if err := os.WriteFile(handHook, []byte("#!/bin/sh\necho mine\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	set := resolver.NewSet(map[component.Type][]string{component.Hook: {"greeter"}})
	res := a.Sync(set, target, reg, false)
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "not owned by hawk-hooks") {
		t.Fatalf("errors = %v, want ownership conflict", res.Errors)
	}
	data, err := os.ReadFile(handHook)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "#!/bin/sh\necho mine\n" {
		t.Errorf("hand-authored hook overwritten: %q", data)
	}
}

func TestSyncPrunesOnlyOwnedEntries(t *testing.T) {
	reg := setupRegistry(t)
	target := t.TempDir()
	a := testAdapter()

	if res := a.Sync(skillSet("tdd"), target, reg, false); len(res.Errors) > 0 {
		t.Fatalf("errors: %v", res.Errors)
	}

	skillsDir := filepath.Join(target, "skills")
	handFile := filepath.Join(skillsDir, "handwritten.md")
	if err := os.WriteFile(handFile, []byte("mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	foreignLink := filepath.Join(skillsDir, "foreign")
	if err := os.Symlink(filepath.Join(t.TempDir(), "elsewhere"), foreignLink); err != nil {
		t.Fatal(err)
	}

	res := a.Sync(skillSet(), target, reg, false)
	if !reflect.DeepEqual(res.Unlinked, []string{"skill/tdd"}) {
		t.Errorf("unlinked = %v, want [skill/tdd]", res.Unlinked)
	}
	if _, err := os.Lstat(filepath.Join(skillsDir, "tdd")); !os.IsNotExist(err) {
		t.Error("owned link survived prune")
	}
	for _, keep := range []string{handFile, foreignLink} {
		if _, err := os.Lstat(keep); err != nil {
			t.Errorf("pruned unowned entry %s: %v", keep, err)
		}
	}
}

func TestSyncRemovedSkillSurvivesOthers(t *testing.T) {
	reg := setupRegistry(t)
	target := t.TempDir()
	a := testAdapter()

	a.Sync(skillSet("tdd", "react"), target, reg, false)
	res := a.Sync(skillSet("react"), target, reg, false)

	if !reflect.DeepEqual(res.Unlinked, []string{"skill/tdd"}) {
		t.Errorf("unlinked = %v, want [skill/tdd]", res.Unlinked)
	}
	if _, err := os.Readlink(filepath.Join(target, "skills", "react")); err != nil {
		t.Errorf("surviving link broken: %v", err)
	}
}

func TestSyncWritesHookShim(t *testing.T) {
	reg := setupRegistry(t)
	target := t.TempDir()
	a := testAdapter()
	set := resolver.NewSet(map[component.Type][]string{component.Hook: {"greeter"}})

	res := a.Sync(set, target, reg, false)
	if len(res.Errors) > 0 {
		t.Fatalf("errors: %v", res.Errors)
	}

	shimPath := filepath.Join(target, "hooks", "greeter")
	data, err := os.ReadFile(shimPath)
	if err != nil {
		t.Fatal(err)
	}
	if !IsRunner(data) {
		t.Errorf("shim not a runner: %q", data)
	}
	if !strings.Contains(string(data), "python3") {
		t.Errorf("shim = %q, want python3 interpreter", data)
	}
	info, err := os.Stat(shimPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o100 == 0 {
		t.Errorf("shim not executable: %v", info.Mode())
	}
}

func TestSyncHooksUnsupportedToolErrors(t *testing.T) {
	reg := setupRegistry(t)
	target := t.TempDir()
	a := &adapter{
		name:        Codex,
		dirName:     ".codex",
		hookSupport: HookUnsupported,
		mcp:         inlineTOML{file: "config.toml", key: "mcp_servers", marker: "hawk_managed"},
	}
	set := resolver.NewSet(map[component.Type][]string{component.Hook: {"greeter"}})

	res := a.Sync(set, target, reg, false)
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %v, want one", res.Errors)
	}
	if !strings.Contains(res.Errors[0], "codex") || !strings.Contains(res.Errors[0], "greeter") {
		t.Errorf("error = %q, want tool and hook names", res.Errors[0])
	}
	if _, err := os.Stat(filepath.Join(target, "hooks")); !os.IsNotExist(err) {
		t.Error("unsupported tool still got a hooks dir")
	}
}

func TestSyncMissingRegistryEntryIsIsolated(t *testing.T) {
	reg := setupRegistry(t)
	target := t.TempDir()
	a := testAdapter()

	res := a.Sync(skillSet("ghost", "tdd"), target, reg, false)
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "skill/ghost: missing from registry") {
		t.Fatalf("errors = %v, want single skill/ghost entry", res.Errors)
	}
	if !reflect.DeepEqual(res.Linked, []string{"skill/tdd"}) {
		t.Errorf("linked = %v, want [skill/tdd]", res.Linked)
	}
}

func TestSyncMCPPreservesHandAuthoredEntries(t *testing.T) {
	reg := setupRegistry(t)
	target := t.TempDir()
	a := testAdapter()
	settings := filepath.Join(target, "settings.json")

	hand := map[string]any{
		"theme": "dark",
		"mcpServers": map[string]any{
			"mine": map[string]any{"command": "my-server"},
		},
	}
	data, _ := json.Marshal(hand)
	if err := os.WriteFile(settings, data, 0o644); err != nil {
		t.Fatal(err)
	}

	set := resolver.NewSet(map[component.Type][]string{component.MCP: {"context7"}})
	res := a.Sync(set, target, reg, false)
	if len(res.Errors) > 0 {
		t.Fatalf("errors: %v", res.Errors)
	}
	if !reflect.DeepEqual(res.Linked, []string{"mcp/context7"}) {
		t.Errorf("linked = %v, want [mcp/context7]", res.Linked)
	}

	root, err := readJSONFile(settings)
	if err != nil {
		t.Fatal(err)
	}
	if root["theme"] != "dark" {
		t.Error("unrelated setting lost")
	}
	servers := root["mcpServers"].(map[string]any)
	if _, ok := servers["mine"]; !ok {
		t.Error("hand-authored server lost")
	}
	entry := servers["context7"].(map[string]any)
	if owned, _ := entry["hawkManaged"].(bool); !owned {
		t.Errorf("owned entry missing marker: %v", entry)
	}

	// Dropping the server removes only the owned entry.
	res = a.Sync(resolver.NewSet(nil), target, reg, false)
	if !reflect.DeepEqual(res.Unlinked, []string{"mcp/context7"}) {
		t.Errorf("unlinked = %v, want [mcp/context7]", res.Unlinked)
	}
	root, _ = readJSONFile(settings)
	servers = root["mcpServers"].(map[string]any)
	if _, ok := servers["context7"]; ok {
		t.Error("owned server survived removal")
	}
	if _, ok := servers["mine"]; !ok {
		t.Error("hand-authored server removed")
	}
}

func TestSidecarJSONKeepsPrimaryFileClean(t *testing.T) {
	target := t.TempDir()
	w := sidecarJSON{file: ".mcp.json", sidecar: ".mcp.hawk.json", key: "mcpServers"}

	servers := map[string]MCPServer{
		"context7": {"command": "npx", "args": []any{"-y", "context7"}},
	}
	if err := w.write(servers, target); err != nil {
		t.Fatal(err)
	}

	root, err := readJSONFile(filepath.Join(target, ".mcp.json"))
	if err != nil {
		t.Fatal(err)
	}
	entry := root["mcpServers"].(map[string]any)["context7"].(map[string]any)
	for key := range entry {
		if key != "command" && key != "args" {
			t.Errorf("unexpected key %q in primary entry", key)
		}
	}

	owned, err := w.owned(target)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := owned["context7"]; !ok || len(owned) != 1 {
		t.Errorf("owned = %v, want context7 only", owned)
	}

	// A later pass without the server drops it from both files.
	if err := w.write(nil, target); err != nil {
		t.Fatal(err)
	}
	root, _ = readJSONFile(filepath.Join(target, ".mcp.json"))
	if section, _ := root["mcpServers"].(map[string]any); len(section) != 0 {
		t.Errorf("stale entries remain: %v", section)
	}
	owned, _ = w.owned(target)
	if len(owned) != 0 {
		t.Errorf("sidecar still claims entries: %v", owned)
	}
}

func TestSidecarJSONPreservesHandAuthoredEntries(t *testing.T) {
	target := t.TempDir()
	w := sidecarJSON{file: ".mcp.json", sidecar: ".mcp.hawk.json", key: "mcpServers"}

	hand := map[string]any{"mcpServers": map[string]any{
		"mine": map[string]any{"command": "my-server"},
	}}
	data, _ := json.Marshal(hand)
	if err := os.WriteFile(filepath.Join(target, ".mcp.json"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := w.write(map[string]MCPServer{"context7": {"command": "npx"}}, target); err != nil {
		t.Fatal(err)
	}
	if err := w.write(nil, target); err != nil {
		t.Fatal(err)
	}

	root, err := readJSONFile(filepath.Join(target, ".mcp.json"))
	if err != nil {
		t.Fatal(err)
	}
	section := root["mcpServers"].(map[string]any)
	if _, ok := section["mine"]; !ok {
		t.Error("hand-authored entry lost across passes")
	}
	if _, ok := section["context7"]; ok {
		t.Error("owned entry survived removal")
	}
}

func TestInlineTOMLRoundTrip(t *testing.T) {
	target := t.TempDir()
	w := inlineTOML{file: "config.toml", key: "mcp_servers", marker: "hawk_managed"}

	if err := os.WriteFile(filepath.Join(target, "config.toml"),
		[]byte("model = \"o4\"\n\n[mcp_servers.mine]\ncommand = \"my-server\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := w.write(map[string]MCPServer{"context7": {"command": "npx"}}, target); err != nil {
		t.Fatal(err)
	}

	root, err := readTOMLFile(filepath.Join(target, "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if root["model"] != "o4" {
		t.Error("unrelated setting lost")
	}
	section := root["mcp_servers"].(map[string]any)
	if _, ok := section["mine"]; !ok {
		t.Error("hand-authored server lost")
	}
	entry := section["context7"].(map[string]any)
	if owned, _ := entry["hawk_managed"].(bool); !owned {
		t.Errorf("owned entry missing marker: %v", entry)
	}

	owned, err := w.owned(target)
	if err != nil {
		t.Fatal(err)
	}
	if def, ok := owned["context7"]; !ok || def["command"] != "npx" {
		t.Errorf("owned = %v, want context7 with command npx", owned)
	}
}

func TestForNameCoversEveryTool(t *testing.T) {
	for _, n := range All() {
		ad := ForName(n)
		if ad == nil {
			t.Fatalf("no adapter for %s", n)
		}
		if ad.Name() != string(n) {
			t.Errorf("adapter name = %q, want %q", ad.Name(), n)
		}
	}
}

func TestParse(t *testing.T) {
	if n, ok := Parse("claude"); !ok || n != Claude {
		t.Errorf("parse(claude) = %v, %v", n, ok)
	}
	if _, ok := Parse("emacs"); ok {
		t.Error("parse accepted an unknown tool")
	}
}

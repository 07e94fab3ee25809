package config

import (
	"path/filepath"
	"reflect"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/hawk-tools/hawk-hooks/internal/component"
)

func TestGlobalConfigParsesPluralKeys(t *testing.T) {
	doc := `
components:
  skills: [tdd, react]
  hooks: [fmt]
  prompts: [review]
tools:
  codex:
    enabled: false
  claude:
    dir: /opt/claude
env:
  NODE_ENV: production
`
	var c GlobalConfig
	if err := yaml.Unmarshal([]byte(doc), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got := c.Names(component.Skill); !reflect.DeepEqual(got, []string{"tdd", "react"}) {
		t.Errorf("skills = %v", got)
	}
	// "prompts" is the historical spelling of commands.
	if got := c.Names(component.Command); !reflect.DeepEqual(got, []string{"review"}) {
		t.Errorf("commands = %v", got)
	}
	if c.ToolEnabled("codex") {
		t.Error("codex should be disabled")
	}
	if !c.ToolEnabled("claude") || !c.ToolEnabled("never-mentioned") {
		t.Error("tools default to enabled")
	}
	if c.Tools["claude"].Dir != "/opt/claude" {
		t.Errorf("claude dir = %q", c.Tools["claude"].Dir)
	}
	if c.Env["NODE_ENV"] != "production" {
		t.Errorf("env = %v", c.Env)
	}
}

func TestTypeListsRejectsUnknownKeys(t *testing.T) {
	var c GlobalConfig
	err := yaml.Unmarshal([]byte("components:\n  gadgets: [x]\n"), &c)
	if err == nil {
		t.Fatal("unknown component type accepted")
	}
}

func TestSelectionPlainListEqualsEnabledForm(t *testing.T) {
	var plain, long DirConfig
	if err := yaml.Unmarshal([]byte("components:\n  skills: [tdd, react]\n"), &plain); err != nil {
		t.Fatal(err)
	}
	if err := yaml.Unmarshal([]byte("components:\n  skills:\n    enabled: [tdd, react]\n"), &long); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(plain.Components[component.Skill], long.Components[component.Skill]) {
		t.Errorf("plain form %v != enabled form %v",
			plain.Components[component.Skill], long.Components[component.Skill])
	}
	if plain.Components[component.Skill].Disabled != nil {
		t.Error("plain form produced a disabled list")
	}
}

func TestDirConfigToolAdjust(t *testing.T) {
	doc := `
profile: frontend
components:
  skills:
    disabled: [legacy]
tools:
  gemini:
    skills:
      extra: [gemini-extra]
      exclude: [generic]
`
	var d DirConfig
	if err := yaml.Unmarshal([]byte(doc), &d); err != nil {
		t.Fatal(err)
	}
	if d.Profile != "frontend" {
		t.Errorf("profile = %q", d.Profile)
	}

	adj, ok := d.Adjust("gemini", component.Skill)
	if !ok {
		t.Fatal("gemini adjustment missing")
	}
	if !reflect.DeepEqual(adj.Extra, []string{"gemini-extra"}) || !reflect.DeepEqual(adj.Exclude, []string{"generic"}) {
		t.Errorf("adjust = %+v", adj)
	}
	if _, ok := d.Adjust("claude", component.Skill); ok {
		t.Error("claude has no adjustment")
	}
	if _, ok := d.Adjust("", component.Skill); ok {
		t.Error("empty tool never adjusts")
	}
}

func TestStoreGlobalRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	c, err := store.LoadGlobal()
	if err != nil {
		t.Fatalf("load on fresh home: %v", err)
	}
	if len(c.Components) != 0 {
		t.Errorf("fresh global config not empty: %v", c.Components)
	}

	c.Components = TypeLists{component.Skill: {"tdd"}}
	c.Env = map[string]string{"NODE_ENV": "production"}
	if err := store.SaveGlobal(c); err != nil {
		t.Fatal(err)
	}
	got, err := store.LoadGlobal()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Names(component.Skill), []string{"tdd"}) {
		t.Errorf("round trip skills = %v", got.Names(component.Skill))
	}
	if !reflect.DeepEqual(got.Env, c.Env) {
		t.Errorf("round trip env = %v, want %v", got.Env, c.Env)
	}
}

func TestStoreProfileRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	p := &Profile{Name: "frontend", Components: TypeLists{component.Skill: {"react"}}}
	if err := store.SaveProfile(p); err != nil {
		t.Fatal(err)
	}
	got, err := store.LoadProfile("frontend")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Components[component.Skill], []string{"react"}) {
		t.Errorf("profile skills = %v", got.Components[component.Skill])
	}

	if _, err := store.LoadProfile("nope"); err == nil {
		t.Error("missing profile loaded without error")
	}
	if err := store.SaveProfile(&Profile{}); err == nil {
		t.Error("unnamed profile saved")
	}
}

func TestStoreDirConfigMissingIsNil(t *testing.T) {
	store := NewStore(t.TempDir())
	dc, err := store.LoadDirConfig(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if dc != nil {
		t.Errorf("missing dir config = %+v, want nil", dc)
	}
}

func TestStoreDirRegistration(t *testing.T) {
	store := NewStore(t.TempDir())
	a := filepath.Join(t.TempDir(), "b-project")
	b := filepath.Join(t.TempDir(), "a-project")

	for _, dir := range []string{a, b, a} { // second a is a no-op
		if err := store.RegisterDir(dir); err != nil {
			t.Fatal(err)
		}
	}

	dirs, err := store.RegisteredDirs()
	if err != nil {
		t.Fatal(err)
	}
	if len(dirs) != 2 {
		t.Fatalf("dirs = %v, want 2 unique entries", dirs)
	}
	if dirs[0] > dirs[1] {
		t.Errorf("dirs not sorted: %v", dirs)
	}

	found, err := store.UnregisterDir(a)
	if err != nil || !found {
		t.Fatalf("unregister = %v, %v; want true, nil", found, err)
	}
	found, err = store.UnregisterDir(a)
	if err != nil || found {
		t.Fatalf("second unregister = %v, %v; want false, nil", found, err)
	}
	dirs, _ = store.RegisteredDirs()
	if !reflect.DeepEqual(dirs, []string{b}) {
		t.Errorf("dirs after unregister = %v, want [%s]", dirs, b)
	}
}

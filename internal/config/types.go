// Package config defines the layered configuration documents consumed by the
// resolver and the store that loads them from disk. The resolver itself never
// touches the filesystem; it is handed these types as plain data.
package config

import (
	"fmt"

	"go.yaml.in/yaml/v3"

	"github.com/hawk-tools/hawk-hooks/internal/component"
)

// TypeLists maps component types to name lists. YAML keys are the plural
// registry spellings ("skills", "hooks", ...).
type TypeLists map[component.Type][]string

// UnmarshalYAML converts plural string keys into component types, rejecting
// unknown keys loudly rather than dropping them.
func (m *TypeLists) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string][]string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	out := make(TypeLists, len(raw))
	for key, names := range raw {
		t, ok := component.Parse(key)
		if !ok {
			return fmt.Errorf("unknown component type %q", key)
		}
		out[t] = names
	}
	*m = out
	return nil
}

// Selection is one type's directory-level override. The YAML form is either
// a plain list (shorthand for enabled-only) or {enabled: [...], disabled: [...]}.
type Selection struct {
	Enabled  []string `yaml:"enabled"`
	Disabled []string `yaml:"disabled"`
}

// UnmarshalYAML accepts both the plain-list and the enabled/disabled forms.
func (s *Selection) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		*s = Selection{Enabled: names}
		return nil
	}
	type plain Selection
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = Selection(p)
	return nil
}

// SelectionMap maps component types to their directory-level Selection.
type SelectionMap map[component.Type]Selection

// UnmarshalYAML converts plural string keys into component types.
func (m *SelectionMap) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]Selection
	if err := node.Decode(&raw); err != nil {
		return err
	}
	out := make(SelectionMap, len(raw))
	for key, sel := range raw {
		t, ok := component.Parse(key)
		if !ok {
			return fmt.Errorf("unknown component type %q", key)
		}
		out[t] = sel
	}
	*m = out
	return nil
}

// ToolAdjust is a per-tool tweak applied after a layer's own lists.
type ToolAdjust struct {
	Extra   []string `yaml:"extra"`
	Exclude []string `yaml:"exclude"`
}

// ToolAdjustMap maps component types to per-tool adjustments.
type ToolAdjustMap map[component.Type]ToolAdjust

// UnmarshalYAML converts plural string keys into component types.
func (m *ToolAdjustMap) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]ToolAdjust
	if err := node.Decode(&raw); err != nil {
		return err
	}
	out := make(ToolAdjustMap, len(raw))
	for key, adj := range raw {
		t, ok := component.Parse(key)
		if !ok {
			return fmt.Errorf("unknown component type %q", key)
		}
		out[t] = adj
	}
	*m = out
	return nil
}

// ToolSettings carries global per-tool switches: whether the tool is synced
// at all and an optional destination override for its global config dir.
type ToolSettings struct {
	Enabled *bool  `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// GlobalConfig is the source of truth at global scope. Env carries
// environment variables for the tools themselves; this module stores and
// round-trips them but never spawns tool processes.
type GlobalConfig struct {
	Components TypeLists               `yaml:"components"`
	Tools      map[string]ToolSettings `yaml:"tools"`
	Env        map[string]string       `yaml:"env,omitempty"`
}

// Names returns the global list for one type, order preserved.
func (c *GlobalConfig) Names(t component.Type) []string {
	if c == nil {
		return nil
	}
	return c.Components[t]
}

// ToolEnabled reports whether a tool participates in sync. Tools default to
// enabled; only an explicit enabled:false opts out.
func (c *GlobalConfig) ToolEnabled(tool string) bool {
	if c == nil {
		return true
	}
	ts, ok := c.Tools[tool]
	if !ok || ts.Enabled == nil {
		return true
	}
	return *ts.Enabled
}

// Profile is a named reusable partial config, mergeable into any layer.
type Profile struct {
	Name       string    `yaml:"name"`
	Components TypeLists `yaml:"components"`
}

// DirConfig is one directory's override layer.
type DirConfig struct {
	// Profile optionally names a stored Profile merged in before this
	// layer's own lists.
	Profile    string                   `yaml:"profile"`
	Components SelectionMap             `yaml:"components"`
	Tools      map[string]ToolAdjustMap `yaml:"tools"`
}

// Adjust returns the per-tool adjustment for (tool, t), if any.
func (d *DirConfig) Adjust(tool string, t component.Type) (ToolAdjust, bool) {
	if d == nil || tool == "" {
		return ToolAdjust{}, false
	}
	byType, ok := d.Tools[tool]
	if !ok {
		return ToolAdjust{}, false
	}
	adj, ok := byType[t]
	return adj, ok
}

// Package tool turns a resolved component set into tool-native filesystem
// state. One Adapter exists per supported AI coding tool; shared behavior
// (symlink materialization, hook-runner generation, marker-aware MCP merge)
// is factored into capability units the adapters compose.
package tool

import (
	"github.com/hawk-tools/hawk-hooks/internal/resolver"
)

// Name identifies a supported tool.
type Name string

const (
	Claude      Name = "claude"
	Gemini      Name = "gemini"
	Codex       Name = "codex"
	OpenCode    Name = "opencode"
	Cursor      Name = "cursor"
	Antigravity Name = "antigravity"
)

// All returns every supported tool in canonical order.
func All() []Name {
	return []Name{Claude, Gemini, Codex, OpenCode, Cursor, Antigravity}
}

// Parse converts a string to a tool Name, returning false if unknown.
func Parse(s string) (Name, bool) {
	for _, n := range All() {
		if string(n) == s {
			return n, true
		}
	}
	return "", false
}

// HookSupport states whether a tool can run arbitrary hook scripts itself.
type HookSupport string

const (
	HookNative      HookSupport = "native"
	HookUnsupported HookSupport = "unsupported"
)

// MCPServer is one server definition as stored in the registry: a free-form
// JSON object (command, args, env, url, ...) passed through to the tool.
type MCPServer map[string]any

// SyncResult is one tool's outcome for one sync pass.
type SyncResult struct {
	Tool     string
	Linked   []string // "type/name" entries created or refreshed
	Unlinked []string // stale entries removed
	Errors   []string
}

// Changed reports whether the pass did (or, in dry-run, would do) anything.
func (r *SyncResult) Changed() bool {
	return len(r.Linked) > 0 || len(r.Unlinked) > 0 || len(r.Errors) > 0
}

// Adapter is the per-tool surface the sync engine drives. Implementations
// differ only in paths, hook capability, and MCP file format.
type Adapter interface {
	// Name returns the tool's canonical name.
	Name() string
	// GlobalDir returns the tool's global config directory.
	GlobalDir() (string, error)
	// ProjectDir returns the tool's config directory inside a project.
	ProjectDir(projectDir string) string
	// HookSupport reports whether the tool runs hook scripts natively.
	HookSupport() HookSupport
	// Sync materializes the resolved set under targetDir and reconciles
	// stale entries. With dryRun no filesystem mutation occurs, but the
	// reported names match what a real run would link.
	Sync(set *resolver.ResolvedSet, targetDir, registryRoot string, dryRun bool) *SyncResult
	// WriteMCPConfig merges system-owned server entries into the tool's
	// native MCP config, replacing previously system-written entries and
	// preserving hand-authored ones.
	WriteMCPConfig(servers map[string]MCPServer, targetDir string) error
}

// ForName returns the adapter for a tool name.
func ForName(n Name) Adapter {
	return adapters[n]
}

// adapters is populated by each tool's constructor file.
var adapters = map[Name]Adapter{
	Claude:      newClaude(),
	Gemini:      newGemini(),
	Codex:       newCodex(),
	OpenCode:    newOpenCode(),
	Cursor:      newCursor(),
	Antigravity: newAntigravity(),
}

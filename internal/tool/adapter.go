package tool

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hawk-tools/hawk-hooks/internal/component"
	"github.com/hawk-tools/hawk-hooks/internal/platform"
	"github.com/hawk-tools/hawk-hooks/internal/registry"
	"github.com/hawk-tools/hawk-hooks/internal/resolver"
)

// adapter is the shared implementation behind every tool. Concrete tools
// supply a name, a config dir name, a hook capability, and an mcpWriter.
type adapter struct {
	name        Name
	dirName     string // e.g. ".claude", relative to $HOME and project roots
	hookSupport HookSupport
	mcp         mcpWriter
}

func (a *adapter) Name() string {
	return string(a.name)
}

func (a *adapter) GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, a.dirName), nil
}

func (a *adapter) ProjectDir(projectDir string) string {
	return filepath.Join(projectDir, a.dirName)
}

func (a *adapter) HookSupport() HookSupport {
	return a.hookSupport
}

func (a *adapter) WriteMCPConfig(servers map[string]MCPServer, targetDir string) error {
	return a.mcp.write(servers, targetDir)
}

// Sync reconciles targetDir against the resolved set: every resolved name
// becomes a symlink (hooks become generated runner shims) grouped by type
// subdirectory, and stale system-owned entries are removed. MCP entries are
// materialized by WriteMCPConfig, not here.
func (a *adapter) Sync(set *resolver.ResolvedSet, targetDir, registryRoot string, dryRun bool) *SyncResult {
	res := &SyncResult{Tool: string(a.name)}

	for _, t := range component.All() {
		if t == component.MCP {
			a.syncMCP(res, set.Names(t), targetDir, registryRoot, dryRun)
			continue
		}
		names := set.Names(t)

		if t == component.Hook {
			if a.hookSupport == HookUnsupported {
				if len(names) > 0 {
					res.Errors = append(res.Errors, fmt.Sprintf(
						"%s does not support hooks; skipped: %s", a.name, strings.Join(names, ", ")))
				}
				continue
			}
			a.syncHooks(res, names, targetDir, registryRoot, dryRun)
			continue
		}

		a.syncLinks(res, t, names, targetDir, registryRoot, dryRun)
	}

	return res
}

// syncLinks materializes one type's names as symlinks into the registry and
// prunes system-owned entries that are no longer resolved.
func (a *adapter) syncLinks(res *SyncResult, t component.Type, names []string, targetDir, registryRoot string, dryRun bool) {
	typeDir := filepath.Join(targetDir, t.Dir())
	desired := make(map[string]bool, len(names))

	for _, name := range names {
		desired[name] = true
		src := filepath.Join(registryRoot, t.Dir(), name)
		if _, err := os.Stat(src); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s/%s: missing from registry", t, name))
			continue
		}
		dst := filepath.Join(typeDir, name)

		if target, err := platform.ReadSymlinkTarget(dst); err == nil && target == src {
			continue // already linked, nothing to do
		}
		if _, err := os.Lstat(dst); err == nil && !a.owns(dst, registryRoot) {
			res.Errors = append(res.Errors, fmt.Sprintf(
				"%s/%s: %s exists and is not owned by hawk-hooks; skipped", t, name, dst))
			continue
		}

		res.Linked = append(res.Linked, string(t)+"/"+name)
		if dryRun {
			continue
		}
		if err := os.MkdirAll(typeDir, 0o755); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s/%s: %v", t, name, err))
			continue
		}
		if _, err := os.Lstat(dst); err == nil {
			if err := platform.RemoveSymlink(dst); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("%s/%s: %v", t, name, err))
				continue
			}
		}
		if err := platform.CreateSymlink(src, dst); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s/%s: %v", t, name, err))
		}
	}

	a.prune(res, t, typeDir, registryRoot, desired, dryRun)
}

// syncHooks materializes hooks as generated runner shims so the tool can
// invoke scripts of any interpreter through one executable entry point.
func (a *adapter) syncHooks(res *SyncResult, names []string, targetDir, registryRoot string, dryRun bool) {
	typeDir := filepath.Join(targetDir, component.Hook.Dir())
	desired := make(map[string]bool, len(names))

	for _, name := range names {
		desired[name] = true
		src := filepath.Join(registryRoot, component.Hook.Dir(), name)
		shim, err := BuildRunner(name, src)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("hook/%s: %v", name, err))
			continue
		}
		dst := filepath.Join(typeDir, name)

		if current, err := os.ReadFile(dst); err == nil {
			if string(current) == shim {
				continue // shim already up to date
			}
			if !IsRunner(current) {
				res.Errors = append(res.Errors, fmt.Sprintf(
					"hook/%s: %s exists and is not owned by hawk-hooks; skipped", name, dst))
				continue
			}
		}

		res.Linked = append(res.Linked, "hook/"+name)
		if dryRun {
			continue
		}
		if err := os.MkdirAll(typeDir, 0o755); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("hook/%s: %v", name, err))
			continue
		}
		if err := os.WriteFile(dst, []byte(shim), 0o755); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("hook/%s: %v", name, err))
		}
	}

	a.prune(res, component.Hook, typeDir, registryRoot, desired, dryRun)
}

// syncMCP reconciles the tool's MCP config against the resolved server
// definitions. The merge itself is WriteMCPConfig; this computes the diff
// first so dry-run reports match real runs and unchanged passes stay silent.
func (a *adapter) syncMCP(res *SyncResult, names []string, targetDir, registryRoot string, dryRun bool) {
	owned, err := a.mcp.owned(targetDir)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("mcp: %v", err))
		return
	}
	if len(names) == 0 && len(owned) == 0 {
		return
	}

	servers, loadErrs := LoadServers(registry.New(registryRoot), names)
	res.Errors = append(res.Errors, loadErrs...)

	changed := false
	for _, name := range names {
		def, ok := servers[name]
		if !ok {
			continue // load error already recorded
		}
		if prev, had := owned[name]; had && sameServer(prev, def) {
			continue
		}
		res.Linked = append(res.Linked, "mcp/"+name)
		changed = true
	}
	var stale []string
	for name := range owned {
		if _, wanted := servers[name]; !wanted {
			stale = append(stale, name)
		}
	}
	sort.Strings(stale)
	for _, name := range stale {
		res.Unlinked = append(res.Unlinked, "mcp/"+name)
		changed = true
	}

	if !changed || dryRun {
		return
	}
	if err := a.mcp.write(servers, targetDir); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("mcp: %v", err))
	}
}

// prune removes entries under typeDir that this system owns but that are no
// longer resolved. Ownership means a symlink pointing into the registry or a
// generated runner shim; anything else is hand-authored and left alone.
func (a *adapter) prune(res *SyncResult, t component.Type, typeDir, registryRoot string, desired map[string]bool, dryRun bool) {
	entries, err := os.ReadDir(typeDir)
	if err != nil {
		return // no type dir yet, nothing to prune
	}
	for _, entry := range entries {
		name := entry.Name()
		if desired[name] || strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(typeDir, name)
		if !a.owns(path, registryRoot) {
			continue
		}
		res.Unlinked = append(res.Unlinked, string(t)+"/"+name)
		if dryRun {
			continue
		}
		if err := platform.RemoveSymlink(path); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s/%s: %v", t, name, err))
		}
	}
}

// owns reports whether path was materialized by this system.
func (a *adapter) owns(path, registryRoot string) bool {
	if target, err := platform.ReadSymlinkTarget(path); err == nil {
		return strings.HasPrefix(target, registryRoot+string(os.PathSeparator))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return IsRunner(data)
}

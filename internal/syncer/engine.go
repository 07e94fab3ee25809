// Package syncer orchestrates resolver, registry, and adapters across the
// global scope and project directories. One tool's failure never aborts the
// others; every pass returns the full per-tool result list.
package syncer

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/hawk-tools/hawk-hooks/internal/config"
	"github.com/hawk-tools/hawk-hooks/internal/managed"
	"github.com/hawk-tools/hawk-hooks/internal/registry"
	"github.com/hawk-tools/hawk-hooks/internal/resolver"
	"github.com/hawk-tools/hawk-hooks/internal/tool"
)

// gitignoreUnit is the managed-block unit id for generated tool directories.
const gitignoreUnit = "tool-dirs"

// Engine drives sync passes.
type Engine struct {
	store *config.Store
	reg   *registry.Registry
	log   *slog.Logger
}

// New returns an Engine. A nil logger falls back to slog's default.
func New(store *config.Store, reg *registry.Registry, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{store: store, reg: reg, log: log}
}

// SyncGlobal resolves the global set once and applies it to every requested
// tool's global config directory. With dryRun nothing is written, but the
// reported names match a real run.
func (e *Engine) SyncGlobal(tools []tool.Name, dryRun bool) ([]*tool.SyncResult, error) {
	global, err := e.store.LoadGlobal()
	if err != nil {
		return nil, err
	}

	// No directory layers at global scope, so the set is tool-independent.
	set := resolver.Resolve(global, nil, "")
	e.log.Debug("resolved global set", "hash", set.Hash())

	var results []*tool.SyncResult
	for _, name := range tools {
		ad := tool.ForName(name)
		if ad == nil {
			results = append(results, &tool.SyncResult{
				Tool:   string(name),
				Errors: []string{fmt.Sprintf("unknown tool %q", name)},
			})
			continue
		}
		if !global.ToolEnabled(string(name)) {
			e.log.Debug("tool disabled in global config", "tool", name)
			continue
		}

		targetDir := global.Tools[string(name)].Dir
		if targetDir == "" {
			targetDir, err = ad.GlobalDir()
			if err != nil {
				results = append(results, &tool.SyncResult{
					Tool:   string(name),
					Errors: []string{err.Error()},
				})
				continue
			}
		}

		results = append(results, ad.Sync(set, targetDir, e.reg.Root(), dryRun))
	}
	return results, nil
}

// SyncDirectory builds the directory chain for projectDir, resolves per
// tool, and syncs into each tool's project config directory.
func (e *Engine) SyncDirectory(projectDir string, tools []tool.Name, dryRun bool) ([]*tool.SyncResult, error) {
	global, err := e.store.LoadGlobal()
	if err != nil {
		return nil, err
	}
	chain, err := e.DirChain(projectDir)
	if err != nil {
		return nil, err
	}

	var results []*tool.SyncResult
	var syncedDirs []string
	for _, name := range tools {
		ad := tool.ForName(name)
		if ad == nil {
			results = append(results, &tool.SyncResult{
				Tool:   string(name),
				Errors: []string{fmt.Sprintf("unknown tool %q", name)},
			})
			continue
		}
		if !global.ToolEnabled(string(name)) {
			continue
		}

		set := resolver.Resolve(global, chain, string(name))
		e.log.Debug("resolved directory set", "tool", name, "dir", projectDir, "hash", set.Hash())

		res := ad.Sync(set, ad.ProjectDir(projectDir), e.reg.Root(), dryRun)
		results = append(results, res)
		if !set.Empty() {
			syncedDirs = append(syncedDirs, filepath.Base(ad.ProjectDir(projectDir)))
		}
	}

	if !dryRun && len(syncedDirs) > 0 {
		if err := e.writeGitignoreBlock(projectDir, syncedDirs); err != nil {
			e.log.Warn("updating .gitignore", "dir", projectDir, "error", err)
		}
	}
	return results, nil
}

// DirChain builds the ordered layer chain for a target directory: every
// registered ancestor outermost-first, then the target's own local config as
// the final layer when the target itself is unregistered.
func (e *Engine) DirChain(target string) ([]resolver.Layer, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, err
	}
	registered, err := e.store.RegisteredDirs()
	if err != nil {
		return nil, err
	}

	var chain []resolver.Layer
	targetRegistered := false
	for _, dir := range registered {
		if !isAncestorOrSelf(dir, abs) {
			continue
		}
		if dir == abs {
			targetRegistered = true
		}
		layer, ok, err := e.layerFor(dir)
		if err != nil {
			return nil, err
		}
		if ok {
			chain = append(chain, layer)
		}
	}

	if !targetRegistered {
		layer, ok, err := e.layerFor(abs)
		if err != nil {
			return nil, err
		}
		if ok {
			chain = append(chain, layer)
		}
	}
	return chain, nil
}

// layerFor loads one directory's layer. A directory without a config file
// contributes no layer.
func (e *Engine) layerFor(dir string) (resolver.Layer, bool, error) {
	dc, err := e.store.LoadDirConfig(dir)
	if err != nil {
		return resolver.Layer{}, false, err
	}
	if dc == nil {
		return resolver.Layer{}, false, nil
	}
	layer := resolver.Layer{Dir: dc}
	if dc.Profile != "" {
		p, err := e.store.LoadProfile(dc.Profile)
		if err != nil {
			return resolver.Layer{}, false, fmt.Errorf("directory %s: %w", dir, err)
		}
		layer.Profile = p
	}
	return layer, true, nil
}

// writeGitignoreBlock keeps the project .gitignore aware of the generated
// tool directories via one managed block.
func (e *Engine) writeGitignoreBlock(projectDir string, dirs []string) error {
	var b strings.Builder
	for _, d := range dirs {
		b.WriteString(d)
		b.WriteString("/\n")
	}
	return managed.Upsert(filepath.Join(projectDir, ".gitignore"), gitignoreUnit, b.String())
}

// isAncestorOrSelf reports whether dir is target or one of its ancestors.
func isAncestorOrSelf(dir, target string) bool {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

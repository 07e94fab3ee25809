// Package resolver merges layered configuration into the final per-type
// component lists for one (tool, directory) evaluation. It is a pure
// function over its inputs: config loading and filesystem state live
// elsewhere.
package resolver

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/hawk-tools/hawk-hooks/internal/component"
	"github.com/hawk-tools/hawk-hooks/internal/config"
)

// Layer is one directory level of intent: an optional profile merged in
// first, then the directory's own overrides.
type Layer struct {
	Profile *config.Profile
	Dir     *config.DirConfig
}

// ResolvedSet holds one de-duplicated, order-stable name list per component
// type for a single (tool, directory) evaluation.
type ResolvedSet struct {
	components map[component.Type][]string
}

// NewSet builds a ResolvedSet directly from per-type lists. Intended for
// callers that already hold a materialized decision, such as adapters under
// test.
func NewSet(components map[component.Type][]string) *ResolvedSet {
	m := make(map[component.Type][]string, len(components))
	for t, names := range components {
		m[t] = append([]string(nil), names...)
	}
	return &ResolvedSet{components: m}
}

// Names returns the resolved list for one type, in resolution order.
func (s *ResolvedSet) Names(t component.Type) []string {
	if s == nil {
		return nil
	}
	return s.components[t]
}

// Empty reports whether nothing resolved for any type.
func (s *ResolvedSet) Empty() bool {
	if s == nil {
		return true
	}
	for _, names := range s.components {
		if len(names) > 0 {
			return false
		}
	}
	return true
}

// Hash returns a deterministic digest over the set's sorted contents. Two
// sets with the same membership hash identically regardless of list order;
// any membership difference changes the digest.
func (s *ResolvedSet) Hash() string {
	var lines []string
	if s != nil {
		for t, names := range s.components {
			for _, n := range names {
				lines = append(lines, string(t)+"/"+n)
			}
		}
	}
	sort.Strings(lines)

	h := sha256.New()
	for _, line := range lines {
		h.Write([]byte(line))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Resolve folds the global config and an ordered chain of directory layers
// (outermost first) into a ResolvedSet for one tool. An empty tool skips
// every layer's per-tool adjustments. Each type resolves independently; the
// per-layer step order is fixed: profile additions, directory additions,
// directory removals, tool extras, tool excludes.
func Resolve(global *config.GlobalConfig, chain []Layer, tool string) *ResolvedSet {
	set := &ResolvedSet{components: make(map[component.Type][]string)}
	for _, t := range component.All() {
		names := append([]string(nil), global.Names(t)...)
		for _, layer := range chain {
			names = applyLayer(names, layer, t, tool)
		}
		set.components[t] = names
	}
	return set
}

// ResolveSingle resolves with at most one layer built from a profile and a
// directory config. It is the no-chain form: a directory chain, when
// present, supersedes these arguments entirely.
func ResolveSingle(global *config.GlobalConfig, profile *config.Profile, dir *config.DirConfig, tool string) *ResolvedSet {
	if profile == nil && dir == nil {
		return Resolve(global, nil, tool)
	}
	return Resolve(global, []Layer{{Profile: profile, Dir: dir}}, tool)
}

// applyLayer produces a new list with one layer folded in. Additions are
// append-if-absent and never reorder an existing entry; removals drop every
// matching name.
func applyLayer(names []string, layer Layer, t component.Type, tool string) []string {
	out := append([]string(nil), names...)

	if layer.Profile != nil {
		out = appendAbsent(out, layer.Profile.Components[t])
	}
	if layer.Dir != nil {
		sel := layer.Dir.Components[t]
		out = appendAbsent(out, sel.Enabled)
		out = removeAll(out, sel.Disabled)

		if adj, ok := layer.Dir.Adjust(tool, t); ok {
			out = appendAbsent(out, adj.Extra)
			out = removeAll(out, adj.Exclude)
		}
	}
	return out
}

func appendAbsent(names, additions []string) []string {
	for _, a := range additions {
		if !containsName(names, a) {
			names = append(names, a)
		}
	}
	return names
}

func removeAll(names, removals []string) []string {
	if len(removals) == 0 {
		return names
	}
	drop := make(map[string]bool, len(removals))
	for _, r := range removals {
		drop[r] = true
	}
	out := names[:0]
	for _, n := range names {
		if !drop[n] {
			out = append(out, n)
		}
	}
	return out
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

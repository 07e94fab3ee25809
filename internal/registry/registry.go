// Package registry stores component content under a single root directory,
// one subdirectory per component type. Entries are plain files or directory
// trees copied in at add time; the registry never follows references back to
// the original source.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hawk-tools/hawk-hooks/internal/component"
)

// ValidationError reports a component name rejected before any filesystem
// operation was attempted.
type ValidationError struct {
	Name string
	Rule string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid component name %q: %s", e.Name, e.Rule)
}

// DuplicateError reports an add that would overwrite an existing entry.
type DuplicateError struct {
	Type component.Type
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s/%s already exists in the registry", e.Type, e.Name)
}

// Entry identifies one registered component.
type Entry struct {
	Type component.Type
	Name string
}

// Registry manages the on-disk component store rooted at a directory.
type Registry struct {
	root string
}

// New returns a registry rooted at dir. The directory is created lazily on
// the first Add.
func New(dir string) *Registry {
	return &Registry{root: dir}
}

// Root returns the registry root directory.
func (r *Registry) Root() string {
	return r.root
}

// validateName rejects names that would escape the registry layout or hide
// entries from listing.
func validateName(name string) error {
	switch {
	case name == "":
		return &ValidationError{Name: name, Rule: "empty"}
	case name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`):
		return &ValidationError{Name: name, Rule: "path traversal"}
	case strings.HasPrefix(name, "."):
		return &ValidationError{Name: name, Rule: "hidden"}
	}
	return nil
}

// entryPath returns the on-disk location for a component without checking
// existence.
func (r *Registry) entryPath(t component.Type, name string) string {
	return filepath.Join(r.root, t.Dir(), name)
}

// Add copies source (a file or directory tree) into the registry and returns
// the destination path. Adding over an existing entry fails with a
// DuplicateError and leaves the entry untouched.
func (r *Registry) Add(t component.Type, name, source string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	if _, err := os.Stat(source); err != nil {
		return "", fmt.Errorf("source %s: %w", source, err)
	}

	dst := r.entryPath(t, name)
	if _, err := os.Lstat(dst); err == nil {
		return "", &DuplicateError{Type: t, Name: name}
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	if err := copyTree(source, dst); err != nil {
		os.RemoveAll(dst)
		return "", fmt.Errorf("copy %s into registry: %w", source, err)
	}
	return dst, nil
}

// Remove deletes an entry. It reports whether the entry existed; removing an
// absent entry is not an error.
func (r *Registry) Remove(t component.Type, name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}
	dst := r.entryPath(t, name)
	if _, err := os.Lstat(dst); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := os.RemoveAll(dst); err != nil {
		return false, err
	}
	return true, nil
}

// Has reports whether an entry exists.
func (r *Registry) Has(t component.Type, name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}
	_, err := os.Lstat(r.entryPath(t, name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetPath returns the on-disk path of an entry, or an error if it does not
// exist.
func (r *Registry) GetPath(t component.Type, name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	dst := r.entryPath(t, name)
	if _, err := os.Lstat(dst); err != nil {
		return "", fmt.Errorf("%s/%s: %w", t, name, err)
	}
	return dst, nil
}

// DetectClash reports whether an existing entry of the same type collides
// with name when compared case-insensitively. Used to guard installs on
// case-insensitive filesystems.
func (r *Registry) DetectClash(t component.Type, name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}
	names, err := r.namesFor(t)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true, nil
		}
	}
	return false, nil
}

// List returns registered names grouped by type, each group sorted. A
// non-nil filter restricts the result to that type.
func (r *Registry) List(filter *component.Type) (map[component.Type][]string, error) {
	out := make(map[component.Type][]string)
	for _, t := range component.All() {
		if filter != nil && t != *filter {
			continue
		}
		names, err := r.namesFor(t)
		if err != nil {
			return nil, err
		}
		sort.Strings(names)
		out[t] = names
	}
	return out, nil
}

// ListFlat returns all entries in canonical type order, names sorted within
// each type.
func (r *Registry) ListFlat() ([]Entry, error) {
	var out []Entry
	for _, t := range component.All() {
		names, err := r.namesFor(t)
		if err != nil {
			return nil, err
		}
		sort.Strings(names)
		for _, name := range names {
			out = append(out, Entry{Type: t, Name: name})
		}
	}
	return out, nil
}

// namesFor lists entry names for one type, skipping dot-entries.
func (r *Registry) namesFor(t component.Type) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(r.root, t.Dir()))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

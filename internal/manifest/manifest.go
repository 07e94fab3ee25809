// Package manifest parses and validates the optional component.yaml metadata
// carried by directory-backed registry entries.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"go.yaml.in/yaml/v3"
)

// FileName is the manifest file looked up inside a component directory.
const FileName = "component.yaml"

// Manifest is the metadata a component may declare about itself.
type Manifest struct {
	Name        string   `yaml:"name" json:"name"`
	Version     string   `yaml:"version,omitempty" json:"version,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Parse reads and decodes a manifest file.
func Parse(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// Load returns the manifest inside a component directory, or (nil, nil) when
// the entry has none. File-backed components never carry a manifest.
func Load(entryPath string) (*Manifest, error) {
	info, err := os.Stat(entryPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}
	path := filepath.Join(entryPath, FileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return Parse(path)
}

// CheckVersion validates the manifest's version field as semver. An empty
// version is accepted; versioning is optional.
func (m *Manifest) CheckVersion() error {
	if m.Version == "" {
		return nil
	}
	if _, err := semver.NewVersion(m.Version); err != nil {
		return fmt.Errorf("manifest version %q: %w", m.Version, err)
	}
	return nil
}

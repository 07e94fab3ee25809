package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.yaml.in/yaml/v3"
)

const (
	// GlobalFile holds the GlobalConfig inside the hawk-hooks home.
	GlobalFile = "config.yaml"
	// DirsFile is the directory-registration index inside the home.
	DirsFile = "dirs.yaml"
	// ProfilesDir holds named profiles inside the home.
	ProfilesDir = "profiles"
	// RegistryDir is the component registry root inside the home.
	RegistryDir = "registry"
	// DirConfigFile is the per-project override file.
	DirConfigFile = ".hawk-hooks.yaml"
)

// Store loads and saves configuration documents under one home directory.
type Store struct {
	home string
}

// NewStore returns a Store rooted at home.
func NewStore(home string) *Store {
	return &Store{home: home}
}

// Home returns the store's root directory.
func (s *Store) Home() string {
	return s.home
}

// RegistryRoot returns the component registry root, honoring the
// HAWK_HOOKS_REGISTRY override.
func (s *Store) RegistryRoot() string {
	if v := envString("registry"); v != "" {
		return v
	}
	return filepath.Join(s.home, RegistryDir)
}

// LoadGlobal reads the global config. A missing file is an empty config,
// not an error: a fresh install has nothing enabled yet.
func (s *Store) LoadGlobal() (*GlobalConfig, error) {
	path := filepath.Join(s.home, GlobalFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var c GlobalConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &c, nil
}

// SaveGlobal writes the global config atomically.
func (s *Store) SaveGlobal(c *GlobalConfig) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling global config: %w", err)
	}
	return writeAtomic(filepath.Join(s.home, GlobalFile), data)
}

// LoadProfile reads a named profile from the profiles directory.
func (s *Store) LoadProfile(name string) (*Profile, error) {
	path := filepath.Join(s.home, ProfilesDir, name+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile %q: %w", name, err)
	}
	if p.Name == "" {
		p.Name = name
	}
	return &p, nil
}

// SaveProfile writes a profile atomically.
func (s *Store) SaveProfile(p *Profile) error {
	if p.Name == "" {
		return fmt.Errorf("profile name must not be empty")
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling profile %q: %w", p.Name, err)
	}
	return writeAtomic(filepath.Join(s.home, ProfilesDir, p.Name+".yaml"), data)
}

// LoadDirConfig reads a directory's override file. A directory without one
// returns (nil, nil).
func (s *Store) LoadDirConfig(dir string) (*DirConfig, error) {
	path := filepath.Join(dir, DirConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var d DirConfig
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &d, nil
}

// dirsIndex is the on-disk shape of the directory-registration index.
type dirsIndex struct {
	Dirs []string `yaml:"dirs"`
}

// RegisteredDirs returns every registered directory, sorted. Sorting by path
// naturally orders ancestors before their descendants.
func (s *Store) RegisteredDirs() ([]string, error) {
	path := filepath.Join(s.home, DirsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var idx dirsIndex
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	sort.Strings(idx.Dirs)
	return idx.Dirs, nil
}

// RegisterDir adds a directory to the registration index. Registering an
// already-registered directory is a no-op.
func (s *Store) RegisterDir(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	dirs, err := s.RegisteredDirs()
	if err != nil {
		return err
	}
	for _, d := range dirs {
		if d == abs {
			return nil
		}
	}
	dirs = append(dirs, abs)
	sort.Strings(dirs)
	data, err := yaml.Marshal(dirsIndex{Dirs: dirs})
	if err != nil {
		return err
	}
	return writeAtomic(filepath.Join(s.home, DirsFile), data)
}

// UnregisterDir removes a directory from the index and reports whether it
// was registered.
func (s *Store) UnregisterDir(dir string) (bool, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return false, err
	}
	dirs, err := s.RegisteredDirs()
	if err != nil {
		return false, err
	}
	kept := dirs[:0]
	found := false
	for _, d := range dirs {
		if d == abs {
			found = true
			continue
		}
		kept = append(kept, d)
	}
	if !found {
		return false, nil
	}
	data, err := yaml.Marshal(dirsIndex{Dirs: kept})
	if err != nil {
		return false, err
	}
	return true, writeAtomic(filepath.Join(s.home, DirsFile), data)
}

// writeAtomic writes data through a temp file and rename.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

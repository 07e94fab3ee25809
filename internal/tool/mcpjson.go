package tool

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// inlineJSON merges servers into a single JSON file, tagging every owned
// entry with a boolean marker field so the next merge can tell system-owned
// entries from hand-authored ones.
type inlineJSON struct {
	file   string // relative to targetDir
	key    string // top-level key holding the server map
	marker string // per-entry ownership field
}

func (w inlineJSON) write(servers map[string]MCPServer, targetDir string) error {
	path := filepath.Join(targetDir, w.file)

	root, err := readJSONFile(path)
	if err != nil {
		return err
	}
	if len(root) == 0 && len(servers) == 0 {
		return nil // nothing owned, nothing to own
	}

	section, _ := root[w.key].(map[string]any)
	if section == nil {
		section = map[string]any{}
	}

	// Drop every entry written by a previous pass; hand-authored entries
	// carry no marker and survive untouched.
	for name, raw := range section {
		if entry, ok := raw.(map[string]any); ok {
			if owned, _ := entry[w.marker].(bool); owned {
				delete(section, name)
			}
		}
	}

	for name, def := range servers {
		entry := make(map[string]any, len(def)+1)
		for k, v := range def {
			entry[k] = v
		}
		entry[w.marker] = true
		section[name] = entry
	}

	root[w.key] = section
	return writeJSONFile(path, root)
}

func (w inlineJSON) owned(targetDir string) (map[string]MCPServer, error) {
	root, err := readJSONFile(filepath.Join(targetDir, w.file))
	if err != nil {
		return nil, err
	}
	section, _ := root[w.key].(map[string]any)
	out := map[string]MCPServer{}
	for name, raw := range section {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if ownedEntry, _ := entry[w.marker].(bool); !ownedEntry {
			continue
		}
		def := make(MCPServer, len(entry))
		for k, v := range entry {
			if k == w.marker {
				continue
			}
			def[k] = v
		}
		out[name] = def
	}
	return out, nil
}

// sidecarJSON merges servers into a primary JSON file and records the owned
// entry names in a separate sidecar file, keeping the primary file free of
// marker fields for tools that reject unknown keys.
type sidecarJSON struct {
	file    string
	sidecar string
	key     string
}

// sidecarDoc is the sidecar file's shape.
type sidecarDoc struct {
	Servers []string `json:"servers"`
}

func (w sidecarJSON) write(servers map[string]MCPServer, targetDir string) error {
	path := filepath.Join(targetDir, w.file)
	sidePath := filepath.Join(targetDir, w.sidecar)

	root, err := readJSONFile(path)
	if err != nil {
		return err
	}

	owned, err := w.readSidecar(sidePath)
	if err != nil {
		return err
	}
	if len(root) == 0 && len(owned) == 0 && len(servers) == 0 {
		return nil
	}

	section, _ := root[w.key].(map[string]any)
	if section == nil {
		section = map[string]any{}
	}

	for _, name := range owned {
		delete(section, name)
	}

	names := make([]string, 0, len(servers))
	for name, def := range servers {
		section[name] = map[string]any(def)
		names = append(names, name)
	}
	sort.Strings(names)

	root[w.key] = section
	if err := writeJSONFile(path, root); err != nil {
		return err
	}
	return writeJSONFile(sidePath, sidecarDoc{Servers: names})
}

func (w sidecarJSON) owned(targetDir string) (map[string]MCPServer, error) {
	names, err := w.readSidecar(filepath.Join(targetDir, w.sidecar))
	if err != nil {
		return nil, err
	}
	root, err := readJSONFile(filepath.Join(targetDir, w.file))
	if err != nil {
		return nil, err
	}
	section, _ := root[w.key].(map[string]any)
	out := map[string]MCPServer{}
	for _, name := range names {
		if entry, ok := section[name].(map[string]any); ok {
			out[name] = MCPServer(entry)
		}
	}
	return out, nil
}

func (w sidecarJSON) readSidecar(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var doc sidecarDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc.Servers, nil
}

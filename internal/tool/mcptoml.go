package tool

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// inlineTOML merges servers into a TOML config file (codex keeps its MCP
// servers in config.toml), using the same per-entry boolean ownership marker
// as inlineJSON.
type inlineTOML struct {
	file   string
	key    string // table holding the server entries, e.g. "mcp_servers"
	marker string
}

func (w inlineTOML) write(servers map[string]MCPServer, targetDir string) error {
	path := filepath.Join(targetDir, w.file)

	root, err := readTOMLFile(path)
	if err != nil {
		return err
	}
	if len(root) == 0 && len(servers) == 0 {
		return nil
	}

	section, _ := root[w.key].(map[string]any)
	if section == nil {
		section = map[string]any{}
	}

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

	data, err := toml.Marshal(root)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	return writeFileAtomic(path, data)
}

func (w inlineTOML) owned(targetDir string) (map[string]MCPServer, error) {
	root, err := readTOMLFile(filepath.Join(targetDir, w.file))
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

func readTOMLFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, err
	}
	var root map[string]any
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return root, nil
}

package tool

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/hawk-tools/hawk-hooks/internal/component"
	"github.com/hawk-tools/hawk-hooks/internal/registry"
)

// serverFileName is the definition file inside a directory-backed mcp entry.
const serverFileName = "server.json"

//go:embed schema/mcpserver.schema.json
var mcpSchemaBytes []byte

var (
	mcpSchema     *jsonschema.Schema
	mcpSchemaOnce sync.Once
	mcpSchemaErr  error
)

func getMCPSchema() (*jsonschema.Schema, error) {
	mcpSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(mcpSchemaBytes))
		if err != nil {
			mcpSchemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("mcpserver.schema.json", doc); err != nil {
			mcpSchemaErr = err
			return
		}
		mcpSchema, mcpSchemaErr = c.Compile("mcpserver.schema.json")
	})
	return mcpSchema, mcpSchemaErr
}

// LoadServers reads per-name MCP server definitions from the registry.
// Definitions that are missing or invalid come back as error strings so one
// bad server never blocks the rest of a sync pass.
func LoadServers(reg *registry.Registry, names []string) (map[string]MCPServer, []string) {
	servers := make(map[string]MCPServer, len(names))
	var errs []string

	for _, name := range names {
		def, err := loadServer(reg, name)
		if err != nil {
			errs = append(errs, fmt.Sprintf("mcp/%s: %v", name, err))
			continue
		}
		servers[name] = def
	}
	return servers, errs
}

func loadServer(reg *registry.Registry, name string) (MCPServer, error) {
	path, err := reg.GetPath(component.MCP, name)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		path = filepath.Join(path, serverFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definition: %w", err)
	}

	schema, err := getMCPSchema()
	if err != nil {
		return nil, fmt.Errorf("loading server schema: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing definition: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("invalid definition: %v", err)
	}

	var def MCPServer
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing definition: %w", err)
	}
	return def, nil
}

// mcpWriter is the merge capability behind WriteMCPConfig. Layout differs
// per tool: one has a primary file plus a sidecar naming the owned entries,
// the others carry a per-entry boolean marker inside the entry itself.
type mcpWriter interface {
	write(servers map[string]MCPServer, targetDir string) error
	// owned returns the entries a previous pass wrote, keyed by name, with
	// any ownership marker stripped so definitions compare cleanly.
	owned(targetDir string) (map[string]MCPServer, error)
}

// sameServer compares two definitions via canonical JSON, which tolerates
// the int/float skew TOML round-trips introduce.
func sameServer(a, b MCPServer) bool {
	aj, errA := json.Marshal(map[string]any(a))
	bj, errB := json.Marshal(map[string]any(b))
	if errA != nil || errB != nil {
		return false
	}
	return string(aj) == string(bj)
}

// readJSONFile loads a JSON object file, returning an empty map when the
// file does not exist yet.
func readJSONFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, err
	}
	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return root, nil
}

func writeJSONFile(path string, root any) error {
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, append(data, '\n'))
}

func writeFileAtomic(path string, data []byte) error {
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

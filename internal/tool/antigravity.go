package tool

// newAntigravity builds the Antigravity adapter. No hook support; MCP
// servers live in mcp_config.json.
func newAntigravity() Adapter {
	return &adapter{
		name:        Antigravity,
		dirName:     ".antigravity",
		hookSupport: HookUnsupported,
		mcp: inlineJSON{
			file:   "mcp_config.json",
			key:    "mcpServers",
			marker: "hawkManaged",
		},
	}
}

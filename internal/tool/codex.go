package tool

// newCodex builds the Codex adapter. Codex has no hook mechanism, and its
// MCP servers live in TOML tables under mcp_servers in config.toml.
func newCodex() Adapter {
	return &adapter{
		name:        Codex,
		dirName:     ".codex",
		hookSupport: HookUnsupported,
		mcp: inlineTOML{
			file:   "config.toml",
			key:    "mcp_servers",
			marker: "hawk_managed",
		},
	}
}

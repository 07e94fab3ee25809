package tool

// newClaude builds the Claude Code adapter. Claude runs hook scripts
// natively and keeps MCP servers in .mcp.json; ownership is tracked in a
// sidecar file because Claude rejects unknown fields inside server entries.
func newClaude() Adapter {
	return &adapter{
		name:        Claude,
		dirName:     ".claude",
		hookSupport: HookNative,
		mcp: sidecarJSON{
			file:    ".mcp.json",
			sidecar: ".mcp.hawk.json",
			key:     "mcpServers",
		},
	}
}

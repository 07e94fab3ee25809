package tool

// newCursor builds the Cursor adapter. Cursor cannot run arbitrary hook
// scripts; hook entries are reported as skipped instead of linked.
func newCursor() Adapter {
	return &adapter{
		name:        Cursor,
		dirName:     ".cursor",
		hookSupport: HookUnsupported,
		mcp: inlineJSON{
			file:   "mcp.json",
			key:    "mcpServers",
			marker: "hawkManaged",
		},
	}
}

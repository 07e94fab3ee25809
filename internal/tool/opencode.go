package tool

// newOpenCode builds the OpenCode adapter. OpenCode runs hook scripts via
// its plugin layer and keeps MCP servers under the "mcp" key of
// opencode.json.
func newOpenCode() Adapter {
	return &adapter{
		name:        OpenCode,
		dirName:     ".opencode",
		hookSupport: HookNative,
		mcp: inlineJSON{
			file:   "opencode.json",
			key:    "mcp",
			marker: "hawkManaged",
		},
	}
}

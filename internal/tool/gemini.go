package tool

// newGemini builds the Gemini CLI adapter. Gemini keeps MCP servers inside
// settings.json and tolerates extra fields, so ownership is a per-entry
// boolean marker.
func newGemini() Adapter {
	return &adapter{
		name:        Gemini,
		dirName:     ".gemini",
		hookSupport: HookNative,
		mcp: inlineJSON{
			file:   "settings.json",
			key:    "mcpServers",
			marker: "hawkManaged",
		},
	}
}

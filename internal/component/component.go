// Package component defines the closed set of component types managed by
// hawk-hooks and their registry directory layout.
package component

// Type identifies a kind of managed component.
type Type string

const (
	Skill   Type = "skill"
	Hook    Type = "hook"
	Command Type = "command"
	Agent   Type = "agent"
	MCP     Type = "mcp"
)

// All returns every component type in canonical order.
func All() []Type {
	return []Type{Skill, Hook, Command, Agent, MCP}
}

// registryDirs maps each type to its subdirectory under the registry root.
var registryDirs = map[Type]string{
	Skill:   "skills",
	Hook:    "hooks",
	Command: "commands",
	Agent:   "agents",
	MCP:     "mcp",
}

// Dir returns the registry subdirectory for the type (e.g. "skills").
func (t Type) Dir() string {
	return registryDirs[t]
}

func (t Type) String() string {
	return string(t)
}

// Parse converts a string to a Type, returning false if invalid.
// It accepts singular and plural spellings; "prompt" is the historical
// name for the command type and maps onto it.
func Parse(s string) (Type, bool) {
	switch s {
	case "skill", "skills":
		return Skill, true
	case "hook", "hooks":
		return Hook, true
	case "command", "commands", "prompt", "prompts":
		return Command, true
	case "agent", "agents":
		return Agent, true
	case "mcp":
		return MCP, true
	default:
		return "", false
	}
}

package protocol

// MCPVersion is the newest protocol revision this server speaks.
const MCPVersion = "2025-06-18"

// SupportedVersions lists every protocol revision accepted during initialize,
// newest first.
var SupportedVersions = []string{
	"2025-06-18",
	"2025-03-26",
	"2024-11-05",
}

// NegotiateVersion returns requested if the server supports it, otherwise
// the newest supported revision.
func NegotiateVersion(requested string) string {
	for _, v := range SupportedVersions {
		if v == requested {
			return v
		}
	}
	return MCPVersion
}

// MCP method names.
const (
	MethodInitialize             = "initialize"
	MethodInitialized            = "notifications/initialized"
	MethodToolsList              = "tools/list"
	MethodToolsCall              = "tools/call"
	MethodResourcesList          = "resources/list"
	MethodResourcesTemplatesList = "resources/templates/list"
	MethodResourcesRead          = "resources/read"
	MethodPromptsList            = "prompts/list"
	MethodPromptsGet             = "prompts/get"
	MethodPing                   = "ping"
)

// CapabilityKind names one of the three families of invokable units a
// server exposes.
type CapabilityKind string

const (
	KindResource CapabilityKind = "resource"
	KindPrompt   CapabilityKind = "prompt"
	KindTool     CapabilityKind = "tool"
)

// Kinds returns all capability kinds in discovery order.
func Kinds() []CapabilityKind {
	return []CapabilityKind{KindResource, KindPrompt, KindTool}
}

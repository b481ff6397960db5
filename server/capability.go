package server

import (
	"context"
	"strings"

	"github.com/yosida95/uritemplate/v3"

	"github.com/codersgyan/lms-mcp/protocol"
	"github.com/codersgyan/lms-mcp/schema"
)

// Metadata describes a registered capability. It is what discovery
// requests return and is never mutated after registration.
type Metadata struct {
	Kind        protocol.CapabilityKind
	Name        string
	Title       string
	Description string

	// Args declares prompt arguments or tool input.
	Args schema.Args

	// URI and MimeType apply to resources only. A URI containing "{...}"
	// is an RFC 6570 template.
	URI      string
	MimeType string

	// Annotations apply to tools only.
	Annotations *ToolAnnotations
}

// IsTemplate reports whether the resource URI is a template.
func (m Metadata) IsTemplate() bool {
	return m.Kind == protocol.KindResource && strings.Contains(m.URI, "{")
}

// ResourceHandler produces the contents of a resource. params holds the
// variables extracted from a templated URI and is empty otherwise.
type ResourceHandler func(ctx context.Context, uri string, params map[string]string) ([]ResourceContent, error)

// PromptHandler expands a prompt template with validated arguments.
type PromptHandler func(ctx context.Context, args schema.Values) (*PromptResult, error)

// ToolHandler runs a tool with validated arguments.
type ToolHandler func(ctx context.Context, args schema.Values) (*ToolResult, error)

// Capability is a registered unit: metadata plus exactly one handler
// matching its kind.
type Capability struct {
	Metadata

	resource ResourceHandler
	prompt   PromptHandler
	tool     ToolHandler

	template *uritemplate.Template
}

// ResourceContent is one item of a resources/read result.
type ResourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"` // Base64 encoded binary data
}

// TextContent is a text content block used by prompts and tools.
type TextContent struct {
	Type string `json:"type"` // Always "text"
	Text string `json:"text"`
}

// Text builds a TextContent block.
func Text(s string) TextContent {
	return TextContent{Type: "text", Text: s}
}

// PromptMessage represents a message in a prompt result.
type PromptMessage struct {
	Role    string      `json:"role"` // "user" or "assistant"
	Content TextContent `json:"content"`
}

// UserMessage builds a user-role prompt message with text content.
func UserMessage(text string) PromptMessage {
	return PromptMessage{Role: "user", Content: Text(text)}
}

// PromptResult is the result of getting a prompt.
type PromptResult struct {
	Description string          `json:"description,omitempty"`
	Messages    []PromptMessage `json:"messages"`
}

// ToolResult is the result of a tool call. IsError marks a failure the
// tool reports to the model rather than to the protocol layer.
type ToolResult struct {
	Content []TextContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// TextResult wraps text as a single-block tool result.
func TextResult(text string) *ToolResult {
	return &ToolResult{Content: []TextContent{Text(text)}}
}

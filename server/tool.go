package server

import (
	"github.com/codersgyan/lms-mcp/schema"
)

// ToolBuilder provides a fluent API for registering tools.
type ToolBuilder struct {
	registry *Registry
	meta     Metadata
}

// Tool starts building a tool with the given name.
func (r *Registry) Tool(name string) *ToolBuilder {
	return &ToolBuilder{registry: r, meta: Metadata{Name: name}}
}

// Title sets the display title.
func (b *ToolBuilder) Title(title string) *ToolBuilder {
	b.meta.Title = title
	return b
}

// Description sets the tool description.
func (b *ToolBuilder) Description(desc string) *ToolBuilder {
	b.meta.Description = desc
	return b
}

// Input declares the tool arguments.
func (b *ToolBuilder) Input(args ...schema.Arg) *ToolBuilder {
	b.meta.Args = append(b.meta.Args, args...)
	return b
}

// Handler sets the handler and registers the tool. It returns
// *protocol.DuplicateCapabilityError if the name is taken.
func (b *ToolBuilder) Handler(fn ToolHandler) error {
	return b.registry.RegisterTool(b.meta, fn)
}

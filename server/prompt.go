package server

import (
	"github.com/codersgyan/lms-mcp/schema"
)

// PromptBuilder provides a fluent API for registering prompts.
type PromptBuilder struct {
	registry *Registry
	meta     Metadata
}

// Prompt starts building a prompt with the given name.
func (r *Registry) Prompt(name string) *PromptBuilder {
	return &PromptBuilder{registry: r, meta: Metadata{Name: name}}
}

// Title sets the display title.
func (b *PromptBuilder) Title(title string) *PromptBuilder {
	b.meta.Title = title
	return b
}

// Description sets the prompt description.
func (b *PromptBuilder) Description(desc string) *PromptBuilder {
	b.meta.Description = desc
	return b
}

// Argument adds a string argument. Prompt arguments travel as strings on
// the wire, so no other kind is accepted here.
func (b *PromptBuilder) Argument(name, description string, required bool) *PromptBuilder {
	arg := schema.Str(name, description)
	arg.Optional = !required
	b.meta.Args = append(b.meta.Args, arg)
	return b
}

// Handler sets the handler and registers the prompt.
func (b *PromptBuilder) Handler(fn PromptHandler) error {
	return b.registry.RegisterPrompt(b.meta, fn)
}

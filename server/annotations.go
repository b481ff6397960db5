package server

// ToolAnnotations provides metadata hints about tool behavior.
// These help clients understand what a tool does without calling it.
type ToolAnnotations struct {
	// ReadOnlyHint indicates the tool only reads data (no side effects).
	ReadOnlyHint *bool `json:"readOnlyHint,omitempty"`

	// DestructiveHint indicates the tool might make destructive changes.
	DestructiveHint *bool `json:"destructiveHint,omitempty"`

	// IdempotentHint indicates repeated calls with the same input have no
	// additional effect.
	IdempotentHint *bool `json:"idempotentHint,omitempty"`

	// OpenWorldHint indicates the tool reaches systems outside the server.
	OpenWorldHint *bool `json:"openWorldHint,omitempty"`
}

// Bool returns a pointer to a bool value for use in annotations.
func Bool(v bool) *bool {
	return &v
}

func (b *ToolBuilder) annotations() *ToolAnnotations {
	if b.meta.Annotations == nil {
		b.meta.Annotations = &ToolAnnotations{}
	}
	return b.meta.Annotations
}

// ReadOnly marks the tool as read-only and non-destructive.
func (b *ToolBuilder) ReadOnly() *ToolBuilder {
	a := b.annotations()
	a.ReadOnlyHint = Bool(true)
	a.DestructiveHint = Bool(false)
	return b
}

// Idempotent marks the tool as idempotent.
func (b *ToolBuilder) Idempotent() *ToolBuilder {
	b.annotations().IdempotentHint = Bool(true)
	return b
}

// ClosedWorld marks the tool as not accessing external systems.
func (b *ToolBuilder) ClosedWorld() *ToolBuilder {
	b.annotations().OpenWorldHint = Bool(false)
	return b
}

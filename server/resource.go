package server

// ResourceBuilder provides a fluent API for registering resources.
type ResourceBuilder struct {
	registry *Registry
	meta     Metadata
}

// Resource starts building a resource with the given name and URI (or
// URI template).
func (r *Registry) Resource(name, uri string) *ResourceBuilder {
	return &ResourceBuilder{registry: r, meta: Metadata{Name: name, URI: uri}}
}

// Title sets the display title.
func (b *ResourceBuilder) Title(title string) *ResourceBuilder {
	b.meta.Title = title
	return b
}

// Description sets the resource description.
func (b *ResourceBuilder) Description(desc string) *ResourceBuilder {
	b.meta.Description = desc
	return b
}

// MimeType sets the MIME type of the resource content.
func (b *ResourceBuilder) MimeType(mimeType string) *ResourceBuilder {
	b.meta.MimeType = mimeType
	return b
}

// Handler sets the handler and registers the resource.
func (b *ResourceBuilder) Handler(fn ResourceHandler) error {
	return b.registry.RegisterResource(b.meta, fn)
}

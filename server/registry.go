package server

import (
	"errors"
	"fmt"
	"iter"
	"sync"

	"github.com/yosida95/uritemplate/v3"

	"github.com/codersgyan/lms-mcp/protocol"
)

// Registry maps (kind, name) to capabilities. It is filled once during
// startup and read by the dispatcher afterwards.
type Registry struct {
	mu sync.RWMutex

	byKind map[protocol.CapabilityKind]map[string]*Capability
	order  map[protocol.CapabilityKind][]string

	// resources are read by URI, not by name
	byURI     map[string]*Capability
	templates []*Capability
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{
		byKind: make(map[protocol.CapabilityKind]map[string]*Capability),
		order:  make(map[protocol.CapabilityKind][]string),
		byURI:  make(map[string]*Capability),
	}
	for _, k := range protocol.Kinds() {
		r.byKind[k] = make(map[string]*Capability)
	}
	return r
}

// RegisterResource adds a resource. meta.Kind is forced to resource.
func (r *Registry) RegisterResource(meta Metadata, h ResourceHandler) error {
	meta.Kind = protocol.KindResource
	if h == nil {
		return fmt.Errorf("resource %q: nil handler", meta.Name)
	}
	if meta.URI == "" {
		return fmt.Errorf("resource %q: uri is required", meta.Name)
	}
	c := &Capability{Metadata: meta, resource: h}
	if meta.IsTemplate() {
		tmpl, err := uritemplate.New(meta.URI)
		if err != nil {
			return fmt.Errorf("resource %q: invalid uri template: %w", meta.Name, err)
		}
		c.template = tmpl
	}
	return r.register(c)
}

// RegisterPrompt adds a prompt. meta.Kind is forced to prompt.
func (r *Registry) RegisterPrompt(meta Metadata, h PromptHandler) error {
	meta.Kind = protocol.KindPrompt
	if h == nil {
		return fmt.Errorf("prompt %q: nil handler", meta.Name)
	}
	return r.register(&Capability{Metadata: meta, prompt: h})
}

// RegisterTool adds a tool. meta.Kind is forced to tool.
func (r *Registry) RegisterTool(meta Metadata, h ToolHandler) error {
	meta.Kind = protocol.KindTool
	if h == nil {
		return fmt.Errorf("tool %q: nil handler", meta.Name)
	}
	return r.register(&Capability{Metadata: meta, tool: h})
}

// register stores c, failing with *protocol.DuplicateCapabilityError if
// its (kind, name) or resource URI is taken. A failed call leaves the
// registry untouched.
func (r *Registry) register(c *Capability) error {
	if c.Name == "" {
		return errors.New("capability name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byKind[c.Kind][c.Name]; exists {
		return &protocol.DuplicateCapabilityError{Kind: c.Kind, Name: c.Name}
	}
	if c.Kind == protocol.KindResource {
		if _, exists := r.byURI[c.URI]; exists {
			return &protocol.DuplicateCapabilityError{Kind: c.Kind, Name: c.URI}
		}
		r.byURI[c.URI] = c
		if c.template != nil {
			r.templates = append(r.templates, c)
		}
	}

	r.byKind[c.Kind][c.Name] = c
	r.order[c.Kind] = append(r.order[c.Kind], c.Name)
	return nil
}

// Lookup returns the capability registered under (kind, name), or
// *protocol.UnknownCapabilityError.
func (r *Registry) Lookup(kind protocol.CapabilityKind, name string) (*Capability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byKind[kind][name]
	if !ok {
		return nil, &protocol.UnknownCapabilityError{Kind: kind, Name: name}
	}
	return c, nil
}

// LookupResource resolves a concrete URI. Exact registrations win over
// templates; templates are tried in registration order. The returned map
// holds extracted template variables.
func (r *Registry) LookupResource(uri string) (*Capability, map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.byURI[uri]; ok && c.template == nil {
		return c, map[string]string{}, nil
	}
	for _, c := range r.templates {
		values := c.template.Match(uri)
		if values == nil {
			continue
		}
		params := make(map[string]string)
		for _, name := range c.template.Varnames() {
			params[name] = values.Get(name).String()
		}
		return c, params, nil
	}
	return nil, nil, &protocol.UnknownCapabilityError{Kind: protocol.KindResource, Name: uri}
}

// List yields the metadata of every capability of kind in registration
// order. The sequence is lazy and can be ranged over any number of times.
func (r *Registry) List(kind protocol.CapabilityKind) iter.Seq[Metadata] {
	return func(yield func(Metadata) bool) {
		r.mu.RLock()
		names := append([]string(nil), r.order[kind]...)
		r.mu.RUnlock()

		for _, name := range names {
			c, err := r.Lookup(kind, name)
			if err != nil {
				continue
			}
			if !yield(c.Metadata) {
				return
			}
		}
	}
}

// Len returns the number of capabilities of kind.
func (r *Registry) Len(kind protocol.CapabilityKind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order[kind])
}

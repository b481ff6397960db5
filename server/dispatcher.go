package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/codersgyan/lms-mcp/middleware"
	"github.com/codersgyan/lms-mcp/protocol"
	"github.com/codersgyan/lms-mcp/schema"
	"github.com/codersgyan/lms-mcp/transport"
)

// Dispatcher routes decoded requests to registry capabilities. It never
// returns a Go panic to its caller: handler panics become
// *protocol.HandlerError.
type Dispatcher struct {
	info     Info
	registry *Registry
	strict   bool

	middleware []middleware.Middleware
	handle     middleware.HandlerFunc
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithStrictArguments rejects arguments a capability does not declare.
// By default they are ignored.
func WithStrictArguments() DispatcherOption {
	return func(d *Dispatcher) {
		d.strict = true
	}
}

// WithMiddleware wraps request handling in the given middleware, first
// listed runs outermost.
func WithMiddleware(m ...middleware.Middleware) DispatcherOption {
	return func(d *Dispatcher) {
		d.middleware = append(d.middleware, m...)
	}
}

// NewDispatcher creates a dispatcher serving the capabilities in reg.
func NewDispatcher(info Info, reg *Registry, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{info: info, registry: reg}
	for _, opt := range opts {
		opt(d)
	}

	d.handle = d.route
	if len(d.middleware) > 0 {
		d.handle = middleware.Chain(d.middleware...)(d.route)
	}
	return d
}

// Registry returns the registry the dispatcher serves.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// HandleRequest implements transport.Handler.
func (d *Dispatcher) HandleRequest(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	return d.handle(ctx, req)
}

// Handle decodes one raw message, dispatches it and returns the encoded
// response. It returns nil for notifications and blank input.
func (d *Dispatcher) Handle(ctx context.Context, raw []byte) []byte {
	return transport.HandleMessage(ctx, d, raw)
}

func (d *Dispatcher) route(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	switch req.Method {
	case protocol.MethodInitialize:
		return d.handleInitialize(req)
	case protocol.MethodInitialized:
		return nil, nil
	case protocol.MethodPing:
		return protocol.NewResponse(req.ID, struct{}{}), nil
	case protocol.MethodToolsList:
		return d.handleToolsList(req)
	case protocol.MethodToolsCall:
		return d.handleToolsCall(ctx, req)
	case protocol.MethodResourcesList:
		return d.handleResourcesList(req)
	case protocol.MethodResourcesTemplatesList:
		return d.handleResourceTemplatesList(req)
	case protocol.MethodResourcesRead:
		return d.handleResourcesRead(ctx, req)
	case protocol.MethodPromptsList:
		return d.handlePromptsList(req)
	case protocol.MethodPromptsGet:
		return d.handlePromptsGet(ctx, req)
	default:
		return nil, protocol.NewMethodNotFound(req.Method)
	}
}

func decodeParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return protocol.NewInvalidParams("invalid params: " + err.Error())
	}
	return nil
}

func (d *Dispatcher) handleInitialize(req *protocol.Request) (*protocol.Response, error) {
	var params struct {
		ProtocolVersion string `json:"protocolVersion"`
	}
	if err := decodeParams(req.Params, &params); err != nil {
		return nil, err
	}
	return protocol.NewResponse(req.ID, d.manifest(params.ProtocolVersion)), nil
}

type toolDescriptor struct {
	Name        string           `json:"name"`
	Title       string           `json:"title,omitempty"`
	Description string           `json:"description,omitempty"`
	InputSchema *schema.Schema   `json:"inputSchema"`
	Annotations *ToolAnnotations `json:"annotations,omitempty"`
}

func (d *Dispatcher) handleToolsList(req *protocol.Request) (*protocol.Response, error) {
	tools := make([]toolDescriptor, 0, d.registry.Len(protocol.KindTool))
	for m := range d.registry.List(protocol.KindTool) {
		tools = append(tools, toolDescriptor{
			Name:        m.Name,
			Title:       m.Title,
			Description: m.Description,
			InputSchema: m.Args.JSONSchema(),
			Annotations: m.Annotations,
		})
	}
	return protocol.NewResponse(req.ID, map[string]any{"tools": tools}), nil
}

func (d *Dispatcher) handleToolsCall(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	var params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := decodeParams(req.Params, &params); err != nil {
		return nil, err
	}
	if params.Name == "" {
		return nil, protocol.NewInvalidParams("tool name is required")
	}

	c, err := d.registry.Lookup(protocol.KindTool, params.Name)
	if err != nil {
		return nil, err
	}
	args, err := d.validate(c, params.Arguments)
	if err != nil {
		return nil, err
	}

	result, err := invoke(c, func() (*ToolResult, error) {
		return c.tool(ctx, args)
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = &ToolResult{}
	}
	if result.Content == nil {
		result.Content = []TextContent{}
	}
	return protocol.NewResponse(req.ID, result), nil
}

type resourceDescriptor struct {
	URI         string `json:"uri,omitempty"`
	URITemplate string `json:"uriTemplate,omitempty"`
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

func (d *Dispatcher) handleResourcesList(req *protocol.Request) (*protocol.Response, error) {
	resources := make([]resourceDescriptor, 0, d.registry.Len(protocol.KindResource))
	for m := range d.registry.List(protocol.KindResource) {
		if m.IsTemplate() {
			continue
		}
		resources = append(resources, resourceDescriptor{
			URI:         m.URI,
			Name:        m.Name,
			Title:       m.Title,
			Description: m.Description,
			MimeType:    m.MimeType,
		})
	}
	return protocol.NewResponse(req.ID, map[string]any{"resources": resources}), nil
}

func (d *Dispatcher) handleResourceTemplatesList(req *protocol.Request) (*protocol.Response, error) {
	templates := make([]resourceDescriptor, 0)
	for m := range d.registry.List(protocol.KindResource) {
		if !m.IsTemplate() {
			continue
		}
		templates = append(templates, resourceDescriptor{
			URITemplate: m.URI,
			Name:        m.Name,
			Title:       m.Title,
			Description: m.Description,
			MimeType:    m.MimeType,
		})
	}
	return protocol.NewResponse(req.ID, map[string]any{"resourceTemplates": templates}), nil
}

func (d *Dispatcher) handleResourcesRead(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	var params struct {
		URI string `json:"uri"`
	}
	if err := decodeParams(req.Params, &params); err != nil {
		return nil, err
	}
	if params.URI == "" {
		return nil, protocol.NewInvalidParams("resource uri is required")
	}

	c, vars, err := d.registry.LookupResource(params.URI)
	if err != nil {
		return nil, err
	}

	contents, err := invoke(c, func() ([]ResourceContent, error) {
		return c.resource(ctx, params.URI, vars)
	})
	if err != nil {
		return nil, err
	}
	if contents == nil {
		contents = []ResourceContent{}
	}
	for i := range contents {
		if contents[i].URI == "" {
			contents[i].URI = params.URI
		}
		if contents[i].MimeType == "" {
			contents[i].MimeType = c.MimeType
		}
	}
	return protocol.NewResponse(req.ID, map[string]any{"contents": contents}), nil
}

type promptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

type promptDescriptor struct {
	Name        string           `json:"name"`
	Title       string           `json:"title,omitempty"`
	Description string           `json:"description,omitempty"`
	Arguments   []promptArgument `json:"arguments,omitempty"`
}

func (d *Dispatcher) handlePromptsList(req *protocol.Request) (*protocol.Response, error) {
	prompts := make([]promptDescriptor, 0, d.registry.Len(protocol.KindPrompt))
	for m := range d.registry.List(protocol.KindPrompt) {
		p := promptDescriptor{
			Name:        m.Name,
			Title:       m.Title,
			Description: m.Description,
		}
		for _, a := range m.Args {
			p.Arguments = append(p.Arguments, promptArgument{
				Name:        a.Name,
				Description: a.Description,
				Required:    a.Required(),
			})
		}
		prompts = append(prompts, p)
	}
	return protocol.NewResponse(req.ID, map[string]any{"prompts": prompts}), nil
}

func (d *Dispatcher) handlePromptsGet(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	var params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := decodeParams(req.Params, &params); err != nil {
		return nil, err
	}
	if params.Name == "" {
		return nil, protocol.NewInvalidParams("prompt name is required")
	}

	c, err := d.registry.Lookup(protocol.KindPrompt, params.Name)
	if err != nil {
		return nil, err
	}
	args, err := d.validate(c, params.Arguments)
	if err != nil {
		return nil, err
	}

	result, err := invoke(c, func() (*PromptResult, error) {
		return c.prompt(ctx, args)
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = &PromptResult{}
	}
	if result.Messages == nil {
		result.Messages = []PromptMessage{}
	}
	return protocol.NewResponse(req.ID, result), nil
}

func (d *Dispatcher) validate(c *Capability, in map[string]any) (schema.Values, error) {
	var opts []schema.ValidateOption
	if d.strict {
		opts = append(opts, schema.RejectUnknown())
	}
	args, err := c.Args.Validate(in, opts...)
	if err != nil {
		return nil, &protocol.ValidationError{Kind: c.Kind, Name: c.Name, Err: err}
	}
	return args, nil
}

// invoke runs a handler, converting panics and plain errors into
// *protocol.HandlerError. Errors that already carry a wire representation
// pass through unchanged.
func invoke[T any](c *Capability, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result = zero
			err = &protocol.HandlerError{Kind: c.Kind, Name: c.Name, Err: fmt.Errorf("%v", r), Panic: true}
		}
	}()

	result, err = fn()
	if err == nil {
		return result, nil
	}

	var rpcErr *protocol.Error
	var conv protocol.RPCConverter
	if errors.As(err, &rpcErr) || errors.As(err, &conv) {
		return result, err
	}
	return result, &protocol.HandlerError{Kind: c.Kind, Name: c.Name, Err: err}
}

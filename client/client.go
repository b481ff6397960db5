// Package client provides an MCP client for the Coders Gyan LMS server.
//
// The generic calls (ListTools, CallTool, ReadResource, GetPrompt) work
// against any MCP server; Students, RefundPolicy and the prompt helpers
// decode the LMS capabilities into typed values.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/codersgyan/lms-mcp/lms"
	"github.com/codersgyan/lms-mcp/protocol"
	"github.com/codersgyan/lms-mcp/server"
)

// Transport defines the interface for client-side transport.
type Transport interface {
	// Send sends a request and waits for its response.
	Send(ctx context.Context, req *protocol.Request) (*Response, error)
	// Notify sends a notification; no response is expected.
	Notify(ctx context.Context, req *protocol.Request) error
	// Close closes the transport connection.
	Close() error
}

// Response is a JSON-RPC response with the result left undecoded.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *protocol.Error `json:"error,omitempty"`
}

// Client is an MCP client that communicates with an MCP server.
type Client struct {
	transport Transport
	opts      clientOptions

	mu         sync.RWMutex
	serverInfo *ServerInfo
	requestID  atomic.Int64
}

// ServerInfo contains information about the connected server.
type ServerInfo struct {
	Name            string
	Title           string
	Version         string
	ProtocolVersion string
	Instructions    string
	Capabilities    Capabilities
}

// Capabilities describes what features the server supports.
type Capabilities struct {
	Tools     bool
	Resources bool
	Prompts   bool
}

// Tool represents a tool exposed by the server.
type Tool struct {
	Name        string                  `json:"name"`
	Title       string                  `json:"title,omitempty"`
	Description string                  `json:"description,omitempty"`
	InputSchema map[string]any          `json:"inputSchema"`
	Annotations *server.ToolAnnotations `json:"annotations,omitempty"`
}

// Resource represents a resource exposed by the server.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// Prompt represents a prompt exposed by the server.
type Prompt struct {
	Name        string           `json:"name"`
	Title       string           `json:"title,omitempty"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

// PromptArgument describes an argument for a prompt.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	timeout     time.Duration
	clientName  string
	clientVer   string
	protocolVer string
}

// WithTimeout sets the default timeout for requests.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithClientInfo sets the client name and version for initialization.
func WithClientInfo(name, version string) Option {
	return func(o *clientOptions) {
		o.clientName = name
		o.clientVer = version
	}
}

// WithProtocolVersion sets the protocol version to request.
func WithProtocolVersion(version string) Option {
	return func(o *clientOptions) {
		o.protocolVer = version
	}
}

// New creates a new MCP client with the given transport.
func New(transport Transport, opts ...Option) *Client {
	options := clientOptions{
		timeout:     30 * time.Second,
		clientName:  "lms-mcp-client",
		clientVer:   "1.0.0",
		protocolVer: protocol.MCPVersion,
	}

	for _, opt := range opts {
		opt(&options)
	}

	return &Client{
		transport: transport,
		opts:      options,
	}
}

// Initialize performs the MCP handshake with the server and sends the
// initialized notification.
func (c *Client) Initialize(ctx context.Context) (*ServerInfo, error) {
	params := map[string]any{
		"protocolVersion": c.opts.protocolVer,
		"clientInfo": map[string]any{
			"name":    c.opts.clientName,
			"version": c.opts.clientVer,
		},
		"capabilities": map[string]any{},
	}

	var manifest server.Manifest
	if err := c.call(ctx, protocol.MethodInitialize, params, &manifest); err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}

	info := &ServerInfo{
		Name:            manifest.ServerInfo.Name,
		Title:           manifest.ServerInfo.Title,
		Version:         manifest.ServerInfo.Version,
		ProtocolVersion: manifest.ProtocolVersion,
		Instructions:    manifest.Instructions,
	}
	_, info.Capabilities.Tools = manifest.Capabilities["tools"]
	_, info.Capabilities.Resources = manifest.Capabilities["resources"]
	_, info.Capabilities.Prompts = manifest.Capabilities["prompts"]

	err := c.transport.Notify(ctx, &protocol.Request{
		JSONRPC: protocol.JSONRPCVersion,
		Method:  protocol.MethodInitialized,
	})
	if err != nil {
		return nil, fmt.Errorf("initialized notification: %w", err)
	}

	c.mu.Lock()
	c.serverInfo = info
	c.mu.Unlock()

	return info, nil
}

// ListTools returns the list of tools available on the server.
func (c *Client) ListTools(ctx context.Context) ([]Tool, error) {
	var result struct {
		Tools []Tool `json:"tools"`
	}
	if err := c.call(ctx, protocol.MethodToolsList, nil, &result); err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	return result.Tools, nil
}

// CallTool calls a tool on the server with the given arguments.
func (c *Client) CallTool(ctx context.Context, name string, arguments any) (*server.ToolResult, error) {
	params := map[string]any{
		"name": name,
	}
	if arguments != nil {
		params["arguments"] = arguments
	}

	var result server.ToolResult
	if err := c.call(ctx, protocol.MethodToolsCall, params, &result); err != nil {
		return nil, fmt.Errorf("call tool %q: %w", name, err)
	}
	return &result, nil
}

// ListResources returns the concrete resources available on the server.
func (c *Client) ListResources(ctx context.Context) ([]Resource, error) {
	var result struct {
		Resources []Resource `json:"resources"`
	}
	if err := c.call(ctx, protocol.MethodResourcesList, nil, &result); err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return result.Resources, nil
}

// ReadResource reads a resource from the server and returns its first
// content item.
func (c *Client) ReadResource(ctx context.Context, uri string) (*server.ResourceContent, error) {
	var result struct {
		Contents []server.ResourceContent `json:"contents"`
	}
	if err := c.call(ctx, protocol.MethodResourcesRead, map[string]any{"uri": uri}, &result); err != nil {
		return nil, fmt.Errorf("read resource %q: %w", uri, err)
	}
	if len(result.Contents) == 0 {
		return nil, fmt.Errorf("read resource %q: no content", uri)
	}
	return &result.Contents[0], nil
}

// ListPrompts returns the list of prompts available on the server.
func (c *Client) ListPrompts(ctx context.Context) ([]Prompt, error) {
	var result struct {
		Prompts []Prompt `json:"prompts"`
	}
	if err := c.call(ctx, protocol.MethodPromptsList, nil, &result); err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	return result.Prompts, nil
}

// GetPrompt gets a prompt with the given arguments.
func (c *Client) GetPrompt(ctx context.Context, name string, arguments map[string]string) (*server.PromptResult, error) {
	params := map[string]any{
		"name": name,
	}
	if arguments != nil {
		params["arguments"] = arguments
	}

	var result server.PromptResult
	if err := c.call(ctx, protocol.MethodPromptsGet, params, &result); err != nil {
		return nil, fmt.Errorf("get prompt %q: %w", name, err)
	}
	return &result, nil
}

// Students calls get_all_students. A nil limit returns every student.
func (c *Client) Students(ctx context.Context, limit *float64) ([]lms.Student, error) {
	var args map[string]any
	if limit != nil {
		args = map[string]any{"limit": *limit}
	}

	result, err := c.CallTool(ctx, lms.StudentsToolName, args)
	if err != nil {
		return nil, err
	}
	if len(result.Content) == 0 {
		return nil, fmt.Errorf("call tool %q: no content", lms.StudentsToolName)
	}

	var students []lms.Student
	if err := json.Unmarshal([]byte(result.Content[0].Text), &students); err != nil {
		return nil, fmt.Errorf("decode students: %w", err)
	}
	return students, nil
}

// RefundPolicy reads the refund policy text.
func (c *Client) RefundPolicy(ctx context.Context) (string, error) {
	content, err := c.ReadResource(ctx, lms.RefundPolicyURI)
	if err != nil {
		return "", err
	}
	return content.Text, nil
}

// Greeting expands the greeting prompt for name and returns its text.
func (c *Client) Greeting(ctx context.Context, name string) (string, error) {
	return c.promptText(ctx, lms.GreetingPromptName, map[string]string{"name": name})
}

// StudentListPrompt expands the student list prompt for limit and returns
// its text.
func (c *Client) StudentListPrompt(ctx context.Context, limit int) (string, error) {
	return c.promptText(ctx, lms.StudentListPromptName, map[string]string{"limit": strconv.Itoa(limit)})
}

func (c *Client) promptText(ctx context.Context, name string, args map[string]string) (string, error) {
	result, err := c.GetPrompt(ctx, name, args)
	if err != nil {
		return "", err
	}
	if len(result.Messages) == 0 {
		return "", fmt.Errorf("get prompt %q: no messages", name)
	}
	return result.Messages[0].Content.Text, nil
}

// Ping sends a ping to the server.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.call(ctx, protocol.MethodPing, nil, nil); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// ServerInfo returns the cached server info from initialization.
func (c *Client) ServerInfo() *ServerInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverInfo
}

// Close closes the client connection.
func (c *Client) Close() error {
	return c.transport.Close()
}

// call makes a JSON-RPC call and decodes the result into out. A JSON-RPC
// error is returned as *protocol.Error.
func (c *Client) call(ctx context.Context, method string, params any, out any) error {
	id := c.requestID.Add(1)

	var paramsRaw json.RawMessage
	if params != nil {
		var err error
		paramsRaw, err = json.Marshal(params)
		if err != nil {
			return fmt.Errorf("marshal params: %w", err)
		}
	}

	req := &protocol.Request{
		JSONRPC: protocol.JSONRPCVersion,
		ID:      json.RawMessage(strconv.FormatInt(id, 10)),
		Method:  method,
		Params:  paramsRaw,
	}

	if c.opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.timeout)
		defer cancel()
	}

	resp, err := c.transport.Send(ctx, req)
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return resp.Error
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

// Package testutil provides testing utilities for MCP servers.
//
// TestClient drives a dispatcher through its wire entry point, so every
// call is encoded, decoded and validated exactly as it would be over stdio:
//
//	func TestGreeting(t *testing.T) {
//	    reg := server.NewRegistry()
//	    _ = lms.Register(reg)
//
//	    tc := testutil.NewTestClient(t, server.NewDispatcher(lms.Info, reg))
//
//	    res, err := tc.GetPrompt("greeting-example", map[string]string{"name": "Maya"})
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    _ = res.Messages[0].Content.Text
//	}
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/codersgyan/lms-mcp/protocol"
	"github.com/codersgyan/lms-mcp/server"
	"github.com/codersgyan/lms-mcp/transport"
)

// Response is a decoded JSON-RPC response with the result left raw.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *protocol.Error `json:"error,omitempty"`
}

// TestClient is an in-process MCP client for tests.
type TestClient struct {
	t     testing.TB
	d     *server.Dispatcher
	reqID atomic.Int64
}

// NewTestClient creates a client for d and performs the initialize
// handshake.
func NewTestClient(t testing.TB, d *server.Dispatcher) *TestClient {
	t.Helper()

	tc := NewRawClient(t, d)
	if _, err := tc.Initialize(); err != nil {
		t.Fatalf("failed to initialize server: %v", err)
	}
	return tc
}

// NewRawClient creates a client for d without the initialize handshake.
func NewRawClient(t testing.TB, d *server.Dispatcher) *TestClient {
	return &TestClient{t: t, d: d}
}

func (tc *TestClient) nextID() json.RawMessage {
	return json.RawMessage(strconv.FormatInt(tc.reqID.Add(1), 10))
}

// SendRaw passes one framed message to the dispatcher and returns its raw
// reply, nil for notifications.
func (tc *TestClient) SendRaw(line string) []byte {
	tc.t.Helper()
	return tc.d.Handle(context.Background(), []byte(line))
}

// SendRequest sends a request and decodes the response envelope.
func (tc *TestClient) SendRequest(method string, params any) (*Response, error) {
	tc.t.Helper()

	req := protocol.Request{
		JSONRPC: protocol.JSONRPCVersion,
		ID:      tc.nextID(),
		Method:  method,
	}
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal params: %w", err)
		}
		req.Params = data
	}

	line, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	out := tc.d.Handle(context.Background(), line)
	if out == nil {
		return nil, fmt.Errorf("no response to %s", method)
	}

	var resp Response
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, fmt.Errorf("decode response %s: %w", out, err)
	}
	if !bytes.Equal(resp.ID, req.ID) {
		return nil, fmt.Errorf("response id %s does not match request id %s", resp.ID, req.ID)
	}
	return &resp, nil
}

// Notify sends a notification. It fails the test if the server replies.
func (tc *TestClient) Notify(method string, params any) {
	tc.t.Helper()

	req := protocol.Request{JSONRPC: protocol.JSONRPCVersion, Method: method}
	if params != nil {
		req.Params, _ = json.Marshal(params)
	}
	line, _ := json.Marshal(req)
	if out := tc.d.Handle(context.Background(), line); out != nil {
		tc.t.Errorf("notification %s got a response: %s", method, out)
	}
}

// Call sends a request and decodes its result into out. A JSON-RPC error
// is returned as *protocol.Error.
func (tc *TestClient) Call(method string, params any, out any) error {
	tc.t.Helper()

	resp, err := tc.SendRequest(method, params)
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return resp.Error
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(resp.Result, out)
}

// Initialize sends an initialize request followed by the initialized
// notification.
func (tc *TestClient) Initialize() (map[string]any, error) {
	tc.t.Helper()

	var result map[string]any
	err := tc.Call(protocol.MethodInitialize, map[string]any{
		"protocolVersion": protocol.MCPVersion,
		"capabilities":    map[string]any{},
		"clientInfo": map[string]any{
			"name":    "test-client",
			"version": "1.0.0",
		},
	}, &result)
	if err != nil {
		return nil, err
	}
	tc.Notify(protocol.MethodInitialized, nil)
	return result, nil
}

func (tc *TestClient) list(method, key string) ([]map[string]any, error) {
	tc.t.Helper()

	var result map[string][]map[string]any
	if err := tc.Call(method, nil, &result); err != nil {
		return nil, err
	}
	items, ok := result[key]
	if !ok {
		return nil, fmt.Errorf("%s result has no %q", method, key)
	}
	return items, nil
}

// ListTools lists all available tools.
func (tc *TestClient) ListTools() ([]map[string]any, error) {
	return tc.list(protocol.MethodToolsList, "tools")
}

// ListResources lists all concrete resources.
func (tc *TestClient) ListResources() ([]map[string]any, error) {
	return tc.list(protocol.MethodResourcesList, "resources")
}

// ListResourceTemplates lists all templated resources.
func (tc *TestClient) ListResourceTemplates() ([]map[string]any, error) {
	return tc.list(protocol.MethodResourcesTemplatesList, "resourceTemplates")
}

// ListPrompts lists all available prompts.
func (tc *TestClient) ListPrompts() ([]map[string]any, error) {
	return tc.list(protocol.MethodPromptsList, "prompts")
}

// CallToolResult calls a tool and returns its decoded result.
func (tc *TestClient) CallToolResult(name string, args any) (*server.ToolResult, error) {
	tc.t.Helper()

	var result server.ToolResult
	err := tc.Call(protocol.MethodToolsCall, map[string]any{
		"name":      name,
		"arguments": args,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CallTool calls a tool and returns the text of its first content block.
func (tc *TestClient) CallTool(name string, args any) (string, error) {
	tc.t.Helper()

	result, err := tc.CallToolResult(name, args)
	if err != nil {
		return "", err
	}
	if len(result.Content) == 0 {
		return "", fmt.Errorf("empty content array")
	}
	return result.Content[0].Text, nil
}

// ReadResourceContents reads a resource and returns every content item.
func (tc *TestClient) ReadResourceContents(uri string) ([]server.ResourceContent, error) {
	tc.t.Helper()

	var result struct {
		Contents []server.ResourceContent `json:"contents"`
	}
	if err := tc.Call(protocol.MethodResourcesRead, map[string]any{"uri": uri}, &result); err != nil {
		return nil, err
	}
	return result.Contents, nil
}

// ReadResource reads a resource and returns the text of its first item.
func (tc *TestClient) ReadResource(uri string) (string, error) {
	tc.t.Helper()

	contents, err := tc.ReadResourceContents(uri)
	if err != nil {
		return "", err
	}
	if len(contents) == 0 {
		return "", fmt.Errorf("empty contents array")
	}
	return contents[0].Text, nil
}

// GetPrompt expands a prompt with the given arguments.
func (tc *TestClient) GetPrompt(name string, args map[string]string) (*server.PromptResult, error) {
	tc.t.Helper()

	var result server.PromptResult
	err := tc.Call(protocol.MethodPromptsGet, map[string]any{
		"name":      name,
		"arguments": args,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Ping sends a ping request.
func (tc *TestClient) Ping() error {
	tc.t.Helper()
	return tc.Call(protocol.MethodPing, nil, nil)
}

// AssertToolExists asserts that a tool with the given name exists.
func (tc *TestClient) AssertToolExists(name string) {
	tc.t.Helper()

	tools, err := tc.ListTools()
	if err != nil {
		tc.t.Fatalf("ListTools failed: %v", err)
	}
	for _, tool := range tools {
		if tool["name"] == name {
			return
		}
	}
	tc.t.Errorf("tool %q not found", name)
}

// AssertResourceExists asserts that a resource with the given URI exists.
func (tc *TestClient) AssertResourceExists(uri string) {
	tc.t.Helper()

	resources, err := tc.ListResources()
	if err != nil {
		tc.t.Fatalf("ListResources failed: %v", err)
	}
	for _, res := range resources {
		if res["uri"] == uri {
			return
		}
	}
	tc.t.Errorf("resource %q not found", uri)
}

// AssertPromptExists asserts that a prompt with the given name exists.
func (tc *TestClient) AssertPromptExists(name string) {
	tc.t.Helper()

	prompts, err := tc.ListPrompts()
	if err != nil {
		tc.t.Fatalf("ListPrompts failed: %v", err)
	}
	for _, prompt := range prompts {
		if prompt["name"] == name {
			return
		}
	}
	tc.t.Errorf("prompt %q not found", name)
}

// AssertErrorCode asserts that err is a JSON-RPC error with the given code.
func AssertErrorCode(t testing.TB, err error, code int) *protocol.Error {
	t.Helper()

	rpcErr, ok := err.(*protocol.Error)
	if !ok {
		t.Fatalf("error = %v (%T), want *protocol.Error with code %d", err, err, code)
	}
	if rpcErr.Code != code {
		t.Errorf("error code = %d, want %d (message %q)", rpcErr.Code, code, rpcErr.Message)
	}
	return rpcErr
}

// ServeStdio feeds input through a stdio transport serving h and returns
// the non-empty output lines. opts are applied after the defaults.
func ServeStdio(t testing.TB, h transport.Handler, input string, opts ...transport.StdioOption) []string {
	t.Helper()

	var out, errOut bytes.Buffer
	st := transport.NewStdio(append([]transport.StdioOption{
		transport.WithStdin(strings.NewReader(input)),
		transport.WithStdout(&out),
		transport.WithStderr(&errOut),
	}, opts...)...)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := st.Serve(ctx, h); err != nil {
		t.Fatalf("Serve() error = %v (stderr %q)", err, errOut.String())
	}

	var lines []string
	for _, line := range strings.Split(out.String(), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

package protocol

import (
	"bytes"
	"encoding/json"
)

// JSONRPCVersion is the JSON-RPC protocol version.
const JSONRPCVersion = "2.0"

// Request represents a JSON-RPC 2.0 request or notification.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification returns true if this request has no ID (is a notification).
func (r *Request) IsNotification() bool {
	return len(r.ID) == 0
}

// Validate checks the envelope fields that do not depend on the method.
func (r *Request) Validate() *Error {
	if r.JSONRPC != JSONRPCVersion {
		return NewInvalidRequest(`jsonrpc must be "2.0"`)
	}
	if r.Method == "" {
		return NewInvalidRequest("method is required")
	}
	return nil
}

// Target returns the capability a request addresses: the "name" param for
// tools/call and prompts/get, the "uri" param for resources/read. It returns
// an empty string for every other method or malformed params.
func (r *Request) Target() string {
	if len(r.Params) == 0 {
		return ""
	}
	var p struct {
		Name string `json:"name"`
		URI  string `json:"uri"`
	}
	switch r.Method {
	case MethodToolsCall, MethodPromptsGet:
		if json.Unmarshal(r.Params, &p) == nil {
			return p.Name
		}
	case MethodResourcesRead:
		if json.Unmarshal(r.Params, &p) == nil {
			return p.URI
		}
	}
	return ""
}

// DecodeRequest parses one framed message. Whitespace-only input yields
// (nil, nil) so callers can skip blank lines.
func DecodeRequest(data []byte) (*Request, *Error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, NewParseError(err.Error())
	}
	if rpcErr := req.Validate(); rpcErr != nil {
		return &req, rpcErr
	}
	return &req, nil
}

// Response represents a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// NewResponse creates a successful response.
func NewResponse(id json.RawMessage, result any) *Response {
	return &Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Result:  result,
	}
}

// NewErrorResponse creates an error response. A nil id is encoded as JSON
// null, as required when the request id could not be determined.
func NewErrorResponse(id json.RawMessage, err *Error) *Response {
	if len(id) == 0 {
		id = json.RawMessage("null")
	}
	return &Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   err,
	}
}

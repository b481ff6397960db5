// Package transport provides MCP transport implementations.
package transport

import (
	"context"
	"encoding/json"

	"github.com/codersgyan/lms-mcp/protocol"
)

// Handler processes incoming MCP requests.
type Handler interface {
	HandleRequest(ctx context.Context, req *protocol.Request) (*protocol.Response, error)
}

// HandlerFunc is an adapter to allow ordinary functions as handlers.
type HandlerFunc func(ctx context.Context, req *protocol.Request) (*protocol.Response, error)

// HandleRequest calls f(ctx, req).
func (f HandlerFunc) HandleRequest(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	return f(ctx, req)
}

// Transport defines the communication layer interface.
type Transport interface {
	// Serve starts the transport, blocking until ctx is canceled, the input
	// ends or an error occurs.
	Serve(ctx context.Context, handler Handler) error

	// Addr returns the transport's address description.
	Addr() string
}

// HandleMessage decodes one framed message, passes it to h and encodes the
// reply. It returns nil when nothing must be written back: blank input,
// notifications, or a handler that produced no response for one.
//
// Errors returned by h never escape; they are converted with
// protocol.ToError and sent as a JSON-RPC error response.
func HandleMessage(ctx context.Context, h Handler, raw []byte) []byte {
	req, rpcErr := protocol.DecodeRequest(raw)
	if req == nil && rpcErr == nil {
		return nil
	}
	if rpcErr != nil {
		var id json.RawMessage
		if req != nil {
			id = req.ID
		}
		return encode(protocol.NewErrorResponse(id, rpcErr))
	}

	resp, err := h.HandleRequest(ctx, req)
	if req.IsNotification() {
		return nil
	}
	if err != nil {
		return encode(protocol.NewErrorResponse(req.ID, protocol.ToError(err)))
	}
	if resp == nil {
		resp = protocol.NewResponse(req.ID, struct{}{})
	}
	return encode(resp)
}

func encode(resp *protocol.Response) []byte {
	data, err := json.Marshal(resp)
	if err != nil {
		data, _ = json.Marshal(protocol.NewErrorResponse(resp.ID,
			protocol.NewInternalError("failed to encode response: "+err.Error())))
	}
	return data
}

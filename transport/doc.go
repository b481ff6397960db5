// Package transport provides MCP transport implementations.
//
// # Stdio Transport
//
// The stdio transport reads newline-delimited JSON-RPC messages from stdin
// and writes one response line per request to stdout. Notifications get no
// reply. Diagnostics go to stderr, never to stdout:
//
//	t := transport.NewStdio()
//	err := t.Serve(ctx, handler)
//
// # Handler Interface
//
// Transports hand decoded requests to a Handler:
//
//	type Handler interface {
//	    HandleRequest(ctx context.Context, req *protocol.Request) (*protocol.Response, error)
//	}
//
// HandleMessage performs the decode, dispatch and encode step for a single
// framed message and is shared by every transport and by in-process
// callers.
package transport

// Package middleware provides middleware utilities for MCP request handling.
package middleware

import (
	"context"
	"slices"

	"github.com/codersgyan/lms-mcp/protocol"
)

// HandlerFunc is the signature for request handlers.
type HandlerFunc func(ctx context.Context, req *protocol.Request) (*protocol.Response, error)

// Middleware wraps a handler with additional behavior.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes multiple middleware into a single middleware.
// Middleware are applied in order, so Chain(m1, m2, m3) results in
// m1 wrapping m2 wrapping m3 wrapping the final handler.
func Chain(middlewares ...Middleware) Middleware {
	return func(final HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			if middlewares[i] == nil {
				continue
			}
			final = middlewares[i](final)
		}
		return final
	}
}

// ForMethods applies m only to requests whose method is listed. Other
// requests bypass it.
func ForMethods(m Middleware, methods ...string) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		wrapped := m(next)
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			if slices.Contains(methods, req.Method) {
				return wrapped(ctx, req)
			}
			return next(ctx, req)
		}
	}
}

// Invocations lists the methods that run a capability handler.
var Invocations = []string{
	protocol.MethodToolsCall,
	protocol.MethodPromptsGet,
	protocol.MethodResourcesRead,
}

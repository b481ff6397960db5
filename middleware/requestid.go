package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/codersgyan/lms-mcp/protocol"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// RequestID returns middleware that tags the context with a random UUID.
// An ID already present in the context is preserved.
func RequestID() Middleware {
	return RequestIDWithGenerator(func(*protocol.Request) string {
		return uuid.NewString()
	})
}

// RequestIDWithGenerator returns middleware that derives the ID from the
// request, for example from its JSON-RPC id.
func RequestIDWithGenerator(generator func(*protocol.Request) string) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			if existing := RequestIDFromContext(ctx); existing != "" {
				return next(ctx, req)
			}
			return next(ContextWithRequestID(ctx, generator(req)), req)
		}
	}
}

// RequestIDFromContext returns the request ID from the context, or empty string if not set.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// ContextWithRequestID returns a new context with the request ID set.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

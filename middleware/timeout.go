package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/codersgyan/lms-mcp/protocol"
)

// Timeout returns middleware that enforces a request deadline. A handler
// that fails because the deadline passed gets an internal error naming the
// limit. A non-positive d disables the middleware.
func Timeout(d time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		if d <= 0 {
			return next
		}
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			resp, err := next(ctx, req)
			if err != nil && errors.Is(err, context.DeadlineExceeded) {
				return nil, protocol.NewInternalError(fmt.Sprintf("%s timed out after %s", req.Method, d))
			}
			return resp, err
		}
	}
}

package middleware

import (
	"context"
	"fmt"

	"github.com/codersgyan/lms-mcp/protocol"
)

// PanicHandler is called when a panic is recovered.
type PanicHandler func(ctx context.Context, req *protocol.Request, panicVal any) (*protocol.Response, error)

// Recover returns middleware that catches panics raised anywhere below it
// and converts them to internal errors. Capability handler panics are
// already turned into *protocol.HandlerError by the dispatcher; this guards
// the rest of the chain.
func Recover() Middleware {
	return RecoverWithHandler(defaultPanicHandler)
}

// RecoverWithLogger is Recover that also reports the panic to logger.
func RecoverWithLogger(logger Logger) Middleware {
	return RecoverWithHandler(func(ctx context.Context, req *protocol.Request, panicVal any) (*protocol.Response, error) {
		logger.Error("panic recovered",
			F("method", req.Method),
			F("panic", fmt.Sprint(panicVal)),
		)
		return defaultPanicHandler(ctx, req, panicVal)
	})
}

// RecoverWithHandler returns middleware that catches panics and calls the provided handler.
func RecoverWithHandler(handler PanicHandler) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (resp *protocol.Response, err error) {
			defer func() {
				if r := recover(); r != nil {
					resp, err = handler(ctx, req, r)
				}
			}()
			return next(ctx, req)
		}
	}
}

func defaultPanicHandler(_ context.Context, req *protocol.Request, panicVal any) (*protocol.Response, error) {
	return nil, protocol.NewInternalError(fmt.Sprintf("panic while handling %s: %v", req.Method, panicVal))
}

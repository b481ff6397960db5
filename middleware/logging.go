package middleware

import (
	"context"
	"time"

	"github.com/codersgyan/lms-mcp/protocol"
)

// Logger is the interface for structured logging.
type Logger interface {
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// F creates a new Field with the given key and value.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logging returns middleware that logs request details.
//
// Successful requests and notifications are logged at debug level. Errors
// caused by the caller (bad params, unknown capability) are logged at warn
// level, everything else at error level.
func Logging(logger Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			start := time.Now()

			resp, err := next(ctx, req)

			fields := []Field{
				F("method", req.Method),
				F("duration", time.Since(start)),
			}
			if target := req.Target(); target != "" {
				fields = append(fields, F("capability", target))
			}
			if requestID := RequestIDFromContext(ctx); requestID != "" {
				fields = append(fields, F("request_id", requestID))
			}

			if err == nil {
				if req.IsNotification() {
					logger.Debug("notification handled", fields...)
				} else {
					logger.Debug("request completed", fields...)
				}
				return resp, nil
			}

			rpcErr := protocol.ToError(err)
			fields = append(fields, F("code", rpcErr.Code), F("error", err.Error()))
			if callerFault(rpcErr.Code) {
				logger.Warn("request rejected", fields...)
			} else {
				logger.Error("request failed", fields...)
			}
			return resp, err
		}
	}
}

func callerFault(code int) bool {
	switch code {
	case protocol.CodeInvalidRequest,
		protocol.CodeMethodNotFound,
		protocol.CodeInvalidParams,
		protocol.CodeNotFound,
		protocol.CodeRateLimited:
		return true
	}
	return false
}

// NopLogger is a logger that discards all log entries.
type NopLogger struct{}

func (NopLogger) Info(msg string, fields ...Field)  {}
func (NopLogger) Error(msg string, fields ...Field) {}
func (NopLogger) Debug(msg string, fields ...Field) {}
func (NopLogger) Warn(msg string, fields ...Field)  {}

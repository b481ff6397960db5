package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/codersgyan/lms-mcp/protocol"
)

// mockLogger captures log calls for testing.
type mockLogger struct {
	entries []logEntry
}

type logEntry struct {
	level   string
	message string
	fields  []Field
}

func (l *mockLogger) Info(msg string, fields ...Field) {
	l.entries = append(l.entries, logEntry{level: "info", message: msg, fields: fields})
}

func (l *mockLogger) Error(msg string, fields ...Field) {
	l.entries = append(l.entries, logEntry{level: "error", message: msg, fields: fields})
}

func (l *mockLogger) Debug(msg string, fields ...Field) {
	l.entries = append(l.entries, logEntry{level: "debug", message: msg, fields: fields})
}

func (l *mockLogger) Warn(msg string, fields ...Field) {
	l.entries = append(l.entries, logEntry{level: "warn", message: msg, fields: fields})
}

func (l *mockLogger) field(i int, key string) (any, bool) {
	for _, f := range l.entries[i].fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

func TestLogging(t *testing.T) {
	t.Run("logs successful requests at debug", func(t *testing.T) {
		logger := &mockLogger{}

		req := &protocol.Request{ID: json.RawMessage(`1`), Method: "tools/list"}
		_, _ = Logging(logger)(okHandler)(context.Background(), req)

		if len(logger.entries) != 1 {
			t.Fatalf("expected 1 log entry, got %d", len(logger.entries))
		}
		entry := logger.entries[0]
		if entry.level != "debug" || entry.message != "request completed" {
			t.Errorf("entry = %s %q, want debug %q", entry.level, entry.message, "request completed")
		}
		if v, _ := logger.field(0, "method"); v != "tools/list" {
			t.Errorf("method = %v, want tools/list", v)
		}
		if v, _ := logger.field(0, "duration"); v == nil {
			t.Error("expected 'duration' field in log")
		} else if _, ok := v.(time.Duration); !ok {
			t.Errorf("duration has type %T", v)
		}
		if _, ok := logger.field(0, "capability"); ok {
			t.Error("discovery requests carry no capability field")
		}
	})

	t.Run("logs the invoked capability", func(t *testing.T) {
		logger := &mockLogger{}

		req := &protocol.Request{
			ID:     json.RawMessage(`1`),
			Method: protocol.MethodToolsCall,
			Params: json.RawMessage(`{"name":"get_all_students"}`),
		}
		_, _ = Logging(logger)(okHandler)(context.Background(), req)

		if v, _ := logger.field(0, "capability"); v != "get_all_students" {
			t.Errorf("capability = %v, want get_all_students", v)
		}
	})

	t.Run("logs notifications", func(t *testing.T) {
		logger := &mockLogger{}

		_, _ = Logging(logger)(okHandler)(context.Background(), &protocol.Request{Method: protocol.MethodInitialized})

		if logger.entries[0].message != "notification handled" {
			t.Errorf("message = %q", logger.entries[0].message)
		}
	})

	levels := []struct {
		name  string
		err   error
		level string
		code  int
	}{
		{name: "plain error", err: errors.New("handler failed"), level: "error", code: protocol.CodeInternalError},
		{name: "handler error", err: &protocol.HandlerError{Kind: protocol.KindTool, Name: "t", Err: errors.New("x")}, level: "error", code: protocol.CodeInternalError},
		{name: "unknown capability", err: &protocol.UnknownCapabilityError{Kind: protocol.KindTool, Name: "t"}, level: "warn", code: protocol.CodeNotFound},
		{name: "invalid params", err: protocol.NewInvalidParams("bad"), level: "warn", code: protocol.CodeInvalidParams},
		{name: "method not found", err: protocol.NewMethodNotFound("x"), level: "warn", code: protocol.CodeMethodNotFound},
	}
	for _, tt := range levels {
		t.Run("logs "+tt.name+" at "+tt.level, func(t *testing.T) {
			logger := &mockLogger{}
			handler := HandlerFunc(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
				return nil, tt.err
			})

			_, err := Logging(logger)(handler)(context.Background(), &protocol.Request{ID: json.RawMessage(`1`), Method: "tools/call"})
			if err != tt.err {
				t.Errorf("error = %v, want it passed through", err)
			}

			if len(logger.entries) != 1 {
				t.Fatalf("expected 1 log entry, got %d", len(logger.entries))
			}
			if logger.entries[0].level != tt.level {
				t.Errorf("level = %q, want %q", logger.entries[0].level, tt.level)
			}
			if v, _ := logger.field(0, "code"); v != tt.code {
				t.Errorf("code = %v, want %d", v, tt.code)
			}
			if _, ok := logger.field(0, "error"); !ok {
				t.Error("expected 'error' field in log")
			}
		})
	}

	t.Run("includes request ID if present", func(t *testing.T) {
		logger := &mockLogger{}

		ctx := ContextWithRequestID(context.Background(), "test-request-123")
		_, _ = Logging(logger)(okHandler)(ctx, &protocol.Request{ID: json.RawMessage(`1`), Method: "ping"})

		if v, _ := logger.field(0, "request_id"); v != "test-request-123" {
			t.Errorf("request_id = %v, want test-request-123", v)
		}
	})
}

func TestField(t *testing.T) {
	f := F("key", "value")
	if f.Key != "key" {
		t.Errorf("Key = %q, want %q", f.Key, "key")
	}
	if f.Value != "value" {
		t.Errorf("Value = %v, want %q", f.Value, "value")
	}
}

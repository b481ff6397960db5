package protocol

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "simple error message",
			err:  &Error{Code: CodeInternalError, Message: "something went wrong"},
			want: "mcp: something went wrong (code: -32603)",
		},
		{
			name: "parse error",
			err:  &Error{Code: CodeParseError, Message: "invalid JSON"},
			want: "mcp: invalid JSON (code: -32700)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	err1 := NewInternalError("test")
	err2 := NewInternalError("different message")
	err3 := NewInvalidParams("test")

	if !errors.Is(err1, err2) {
		t.Error("errors with same code should match with errors.Is")
	}

	if errors.Is(err1, err3) {
		t.Error("errors with different codes should not match with errors.Is")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		code int
	}{
		{"parse", NewParseError("bad"), CodeParseError},
		{"invalid request", NewInvalidRequest("bad"), CodeInvalidRequest},
		{"method not found", NewMethodNotFound("x/y"), CodeMethodNotFound},
		{"invalid params", NewInvalidParams("bad"), CodeInvalidParams},
		{"internal", NewInternalError("bad"), CodeInternalError},
		{"not found", NewNotFound("bad"), CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.code)
			}
		})
	}
}

func TestNewMethodNotFound_IncludesMethod(t *testing.T) {
	err := NewMethodNotFound("tools/explode")
	if err.Message != "method not found: tools/explode" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestError_WithData(t *testing.T) {
	data := map[string]string{"field": "limit", "reason": "required"}
	err := NewInvalidParams("validation failed").WithData(data)

	dataMap, ok := err.Data.(map[string]string)
	if !ok {
		t.Fatalf("Data type = %T, want map[string]string", err.Data)
	}
	if dataMap["field"] != "limit" {
		t.Errorf("Data[field] = %q, want %q", dataMap["field"], "limit")
	}
}

type fieldErrs map[string]string

func (f fieldErrs) Error() string                  { return "bad fields" }
func (f fieldErrs) FieldErrors() map[string]string { return f }

func TestToError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{
			name: "protocol error passes through",
			err:  NewInvalidParams("nope"),
			code: CodeInvalidParams,
		},
		{
			name: "wrapped protocol error",
			err:  fmt.Errorf("wrapped: %w", NewNotFound("gone")),
			code: CodeNotFound,
		},
		{
			name: "unknown capability",
			err:  &UnknownCapabilityError{Kind: KindTool, Name: "missing"},
			code: CodeNotFound,
		},
		{
			name: "validation",
			err:  &ValidationError{Kind: KindPrompt, Name: "greet", Err: errors.New("name: required")},
			code: CodeInvalidParams,
		},
		{
			name: "handler",
			err:  &HandlerError{Kind: KindTool, Name: "boom", Err: errors.New("kaput")},
			code: CodeInternalError,
		},
		{
			name: "plain error",
			err:  errors.New("plain"),
			code: CodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToError(tt.err)
			if got.Code != tt.code {
				t.Errorf("Code = %d, want %d", got.Code, tt.code)
			}
		})
	}

	if ToError(nil) != nil {
		t.Error("ToError(nil) should be nil")
	}
}

func TestValidationError_FieldData(t *testing.T) {
	err := &ValidationError{
		Kind: KindTool,
		Name: "get_all_students",
		Err:  fieldErrs{"limit": "must be >= 0"},
	}

	rpcErr := err.RPCError()
	data, ok := rpcErr.Data.(map[string]any)
	if !ok {
		t.Fatalf("Data type = %T, want map[string]any", rpcErr.Data)
	}
	fields, ok := data["fields"].(map[string]string)
	if !ok {
		t.Fatalf("fields type = %T", data["fields"])
	}
	if fields["limit"] != "must be >= 0" {
		t.Errorf("fields[limit] = %q", fields["limit"])
	}
}

func TestCapabilityErrors_Messages(t *testing.T) {
	dup := &DuplicateCapabilityError{Kind: KindPrompt, Name: "student_list"}
	if got, want := dup.Error(), `prompt "student_list" is already registered`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	unknown := &UnknownCapabilityError{Kind: KindTool, Name: "nope"}
	if got, want := unknown.Error(), "tool not found: nope"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := errors.New("bad state")
	herr := &HandlerError{Kind: KindTool, Name: "t", Err: cause}
	if !errors.Is(herr, cause) {
		t.Error("HandlerError should unwrap to its cause")
	}
	panicked := &HandlerError{Kind: KindTool, Name: "t", Err: cause, Panic: true}
	if got, want := panicked.Error(), `tool "t" panicked: bad state`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

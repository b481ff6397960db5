// Package protocol implements the MCP protocol layer including JSON-RPC 2.0.
package protocol

import (
	"errors"
	"fmt"
)

// Standard JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// MCP-specific error codes.
const (
	CodeNotFound    = -32001
	CodeRateLimited = -32003
)

// Error represents a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("mcp: %s (code: %d)", e.Message, e.Code)
}

// Is implements errors.Is comparison by error code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithData returns a copy of the error with additional data attached.
func (e *Error) WithData(data any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Data:    data,
	}
}

// NewParseError creates a parse error (-32700).
func NewParseError(msg string) *Error {
	return &Error{Code: CodeParseError, Message: msg}
}

// NewInvalidRequest creates an invalid request error (-32600).
func NewInvalidRequest(msg string) *Error {
	return &Error{Code: CodeInvalidRequest, Message: msg}
}

// NewMethodNotFound creates a method not found error (-32601).
func NewMethodNotFound(method string) *Error {
	return &Error{Code: CodeMethodNotFound, Message: "method not found: " + method}
}

// NewInvalidParams creates an invalid params error (-32602).
func NewInvalidParams(msg string) *Error {
	return &Error{Code: CodeInvalidParams, Message: msg}
}

// NewInternalError creates an internal error (-32603).
func NewInternalError(msg string) *Error {
	return &Error{Code: CodeInternalError, Message: msg}
}

// NewNotFound creates a not found error (-32001).
func NewNotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// RPCConverter is implemented by errors that know their wire representation.
type RPCConverter interface {
	RPCError() *Error
}

// ToError converts any error into a JSON-RPC error object. Errors that are
// neither *Error nor RPCConverter become internal errors.
func ToError(err error) *Error {
	if err == nil {
		return nil
	}
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	var conv RPCConverter
	if errors.As(err, &conv) {
		return conv.RPCError()
	}
	return NewInternalError(err.Error())
}

// DuplicateCapabilityError is returned when a (kind, name) pair is
// registered twice.
type DuplicateCapabilityError struct {
	Kind CapabilityKind
	Name string
}

func (e *DuplicateCapabilityError) Error() string {
	return fmt.Sprintf("%s %q is already registered", e.Kind, e.Name)
}

// UnknownCapabilityError is returned when a lookup names nothing registered.
type UnknownCapabilityError struct {
	Kind CapabilityKind
	Name string
}

func (e *UnknownCapabilityError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Name)
}

// RPCError maps the error to a not-found response.
func (e *UnknownCapabilityError) RPCError() *Error {
	return NewNotFound(e.Error()).WithData(map[string]string{
		"kind": string(e.Kind),
		"name": e.Name,
	})
}

// FieldReporter is implemented by validation failures that can enumerate
// the offending arguments.
type FieldReporter interface {
	FieldErrors() map[string]string
}

// ValidationError is returned when supplied arguments do not satisfy the
// declared schema of a capability. The handler is never invoked.
type ValidationError struct {
	Kind CapabilityKind
	Name string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for %s %q: %v", e.Kind, e.Name, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// RPCError maps the error to an invalid-params response. Per-argument
// problems are attached as data when available.
func (e *ValidationError) RPCError() *Error {
	rpcErr := NewInvalidParams(e.Error())
	var fr FieldReporter
	if errors.As(e.Err, &fr) {
		return rpcErr.WithData(map[string]any{"fields": fr.FieldErrors()})
	}
	return rpcErr
}

// HandlerError wraps a failure (or recovered panic) raised while a
// capability handler was running.
type HandlerError struct {
	Kind  CapabilityKind
	Name  string
	Err   error
	Panic bool
}

func (e *HandlerError) Error() string {
	if e.Panic {
		return fmt.Sprintf("%s %q panicked: %v", e.Kind, e.Name, e.Err)
	}
	return fmt.Sprintf("%s %q failed: %v", e.Kind, e.Name, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// RPCError maps the error to an internal error response.
func (e *HandlerError) RPCError() *Error {
	return NewInternalError(e.Error())
}

// Package mcp serves the Coders Gyan LMS over the Model Context Protocol.
//
// The server exposes the refund policy as a resource, two prompt templates
// and a tool that lists enrolled students. Requests arrive as newline
// delimited JSON-RPC 2.0 on stdin; responses are written to stdout.
//
// Basic usage:
//
//	srv, err := mcp.NewServer(
//	    mcp.WithStack(mcp.StackConfig{Logger: logger, Timeout: 30 * time.Second}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	mcp.ServeStdio(ctx, srv)
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/codersgyan/lms-mcp/lms"
	"github.com/codersgyan/lms-mcp/middleware"
	"github.com/codersgyan/lms-mcp/server"
	"github.com/codersgyan/lms-mcp/transport"
)

// Re-export core types for convenience

// Info contains server metadata exposed to clients.
type Info = server.Info

// Server routes decoded requests to the registered capabilities.
type Server = server.Dispatcher

// Registry holds resources, prompts and tools.
type Registry = server.Registry

// Middleware types
type Middleware = middleware.Middleware
type MiddlewareHandlerFunc = middleware.HandlerFunc
type Logger = middleware.Logger
type LogField = middleware.Field
type StackConfig = middleware.StackConfig

// StdioOption configures the stdio transport.
type StdioOption = transport.StdioOption

// Stdio re-exports for convenience.
var (
	WithStdin       = transport.WithStdin
	WithStdout      = transport.WithStdout
	WithStderr      = transport.WithStderr
	WithMaxLineSize = transport.WithMaxLineSize
)

// Option configures NewServer.
type Option func(*options)

type options struct {
	info       Info
	stack      *StackConfig
	middleware []Middleware
	strict     bool
	clock      func() time.Time
	extra      []func(*Registry) error
}

// WithInfo overrides the metadata advertised during initialize.
func WithInfo(info Info) Option {
	return func(o *options) {
		o.info = info
	}
}

// WithStack installs the default middleware stack configured by cfg.
func WithStack(cfg StackConfig) Option {
	return func(o *options) {
		o.stack = &cfg
	}
}

// WithMiddleware adds middleware inside the default stack.
func WithMiddleware(m ...Middleware) Option {
	return func(o *options) {
		o.middleware = append(o.middleware, m...)
	}
}

// WithStrictArguments rejects arguments a capability does not declare.
func WithStrictArguments() Option {
	return func(o *options) {
		o.strict = true
	}
}

// WithClock sets the clock used for student enrollment dates.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithCapabilities registers additional capabilities after the LMS ones.
func WithCapabilities(register func(*Registry) error) Option {
	return func(o *options) {
		o.extra = append(o.extra, register)
	}
}

// NewServer builds the LMS server.
func NewServer(opts ...Option) (*Server, error) {
	o := &options{info: lms.Info}
	for _, opt := range opts {
		opt(o)
	}

	reg := server.NewRegistry()
	if err := lms.Register(reg, lms.WithClock(o.clock)); err != nil {
		return nil, err
	}
	for _, register := range o.extra {
		if err := register(reg); err != nil {
			return nil, fmt.Errorf("register capabilities: %w", err)
		}
	}

	var chain []Middleware
	if o.stack != nil {
		chain = append(chain, middleware.DefaultStack(*o.stack)...)
	}
	chain = append(chain, o.middleware...)

	dopts := []server.DispatcherOption{server.WithMiddleware(chain...)}
	if o.strict {
		dopts = append(dopts, server.WithStrictArguments())
	}
	return server.NewDispatcher(o.info, reg, dopts...), nil
}

// ServeStdio runs the server using stdio transport.
// This blocks until the context is canceled, stdin ends or an error occurs.
func ServeStdio(ctx context.Context, srv *Server, opts ...StdioOption) error {
	return transport.NewStdio(opts...).Serve(ctx, srv)
}

// DefaultMiddleware returns the recommended production middleware stack.
func DefaultMiddleware(cfg StackConfig) []Middleware {
	return middleware.DefaultStack(cfg)
}

// RequestIDFromContext returns the request ID from the context, or empty string if not set.
func RequestIDFromContext(ctx context.Context) string {
	return middleware.RequestIDFromContext(ctx)
}

// LogF creates a new log field with the given key and value.
func LogF(key string, value any) LogField {
	return middleware.F(key, value)
}

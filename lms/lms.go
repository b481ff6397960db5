// Package lms exposes the Coders Gyan learning platform to MCP clients: the
// refund policy as a resource, two prompt templates and a tool listing
// enrolled students.
package lms

import (
	"fmt"
	"time"

	"github.com/codersgyan/lms-mcp/server"
)

// Info identifies the server during initialize.
var Info = server.Info{
	Name:    "codersgyan",
	Title:   "Coders Gyan LMS",
	Version: "1.0.0",
}

// Option configures Register.
type Option func(*config)

type config struct {
	now func() time.Time
}

// WithClock sets the clock used to compute enrollment dates.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// Register adds every LMS capability to reg. It fails on the first
// registration that collides with an existing one.
func Register(reg *server.Registry, opts ...Option) error {
	cfg := &config{now: time.Now}
	for _, opt := range opts {
		opt(cfg)
	}

	steps := []func(*server.Registry) error{
		registerRefundPolicy,
		registerGreeting,
		registerStudentList,
		func(r *server.Registry) error { return registerStudentsTool(r, cfg.now) },
	}
	for _, step := range steps {
		if err := step(reg); err != nil {
			return fmt.Errorf("lms: %w", err)
		}
	}
	return nil
}

package middleware

import "time"

// StackConfig selects the optional parts of DefaultStack. Zero values
// disable the corresponding middleware.
type StackConfig struct {
	Logger Logger

	// Timeout bounds a single request.
	Timeout time.Duration

	// MaxRequestSize bounds the params of a single request, in bytes.
	MaxRequestSize int64

	// Rate and Burst configure per-capability rate limiting of invocations.
	Rate  int
	Burst int

	// Telemetry enables the OTel middleware with these options. A nil slice
	// disables it; an empty non-nil slice uses the global providers.
	Telemetry []OTelOption
}

// DefaultStack returns the production middleware stack:
// recover, request ID, telemetry, logging, size limit, rate limit and
// timeout, outermost first.
func DefaultStack(cfg StackConfig) []Middleware {
	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger{}
	}

	stack := []Middleware{
		RecoverWithLogger(logger),
		RequestID(),
	}
	if cfg.Telemetry != nil {
		stack = append(stack, OTel(cfg.Telemetry...))
	}
	stack = append(stack, Logging(logger))
	if cfg.MaxRequestSize > 0 {
		stack = append(stack, SizeLimit(cfg.MaxRequestSize, WithSizeLimitLogger(logger)))
	}
	if cfg.Rate > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = cfg.Rate
		}
		stack = append(stack, ForMethods(
			RateLimitByCapability(cfg.Rate, burst, WithRateLimitLogger(logger)),
			Invocations...,
		))
	}
	if cfg.Timeout > 0 {
		stack = append(stack, Timeout(cfg.Timeout))
	}
	return stack
}

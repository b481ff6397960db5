// Package middleware provides request middleware for the MCP dispatcher.
//
// Each middleware wraps the next handler in the chain, allowing pre- and
// post-processing of requests:
//
//	chain := middleware.Chain(
//	    middleware.Recover(),
//	    middleware.RequestID(),
//	    middleware.Logging(logger),
//	)
//	handler := chain(baseHandler)
//
// # Available Middleware
//
//   - Recover: converts panics to internal errors
//   - RequestID: tags the context with a UUID
//   - OTel: spans and request metrics via OpenTelemetry
//   - Logging: one structured entry per request
//   - SizeLimit: rejects oversized params
//   - RateLimit, RateLimitByMethod, RateLimitByCapability: token buckets
//   - Timeout: request deadlines
//
// ForMethods restricts a middleware to some methods, e.g. rate limiting
// only capability invocations:
//
//	middleware.ForMethods(middleware.RateLimitByCapability(10, 20), middleware.Invocations...)
//
// # Default Stack
//
// DefaultStack assembles all of the above from a StackConfig:
//
//	stack := middleware.DefaultStack(middleware.StackConfig{
//	    Logger:  logger,
//	    Timeout: 30 * time.Second,
//	    Rate:    50,
//	})
package middleware

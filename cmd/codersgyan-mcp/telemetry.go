package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/codersgyan/lms-mcp/middleware"
	"github.com/codersgyan/lms-mcp/protocol"
	"github.com/codersgyan/lms-mcp/server"
)

// telemetry owns the trace and metric providers used by --otel. Both
// export to w as JSON; stdout is reserved for the protocol.
type telemetry struct {
	info server.Info
	tp   *sdktrace.TracerProvider
	mp   *sdkmetric.MeterProvider
}

func newTelemetry(w io.Writer, info server.Info) (*telemetry, error) {
	res := resource.NewSchemaless(
		attribute.String("service.name", info.Name),
		attribute.String("service.version", info.Version),
	)

	spans, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}
	metrics, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}

	return &telemetry{
		info: info,
		tp: sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(spans),
			sdktrace.WithResource(res),
		),
		mp: sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metrics)),
			sdkmetric.WithResource(res),
		),
	}, nil
}

// Options configures the OTel middleware to use these providers. Pings are
// not traced.
func (t *telemetry) Options() []middleware.OTelOption {
	return []middleware.OTelOption{
		middleware.WithTracerProvider(t.tp),
		middleware.WithMeterProvider(t.mp),
		middleware.WithOTelServiceName(t.info.Name),
		middleware.WithOTelVersion(t.info.Version),
		middleware.WithOTelSkipMethods(protocol.MethodPing),
	}
}

// Shutdown flushes pending spans and metrics.
func (t *telemetry) Shutdown(ctx context.Context) error {
	return errors.Join(t.tp.Shutdown(ctx), t.mp.Shutdown(ctx))
}

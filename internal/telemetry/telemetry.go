// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package telemetry installs the global OpenTelemetry tracer provider that
// receives the spans recorded around source fetches.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/pdiddy/transfer-desk/pkg/types"
)

// Telemetry owns the installed provider. The zero value is a no-op.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
}

// Shutdown flushes buffered spans and stops the exporter.
func (t Telemetry) Shutdown(ctx context.Context) error {
	if t.TracerProvider == nil {
		return nil
	}
	return t.TracerProvider.Shutdown(ctx)
}

// Setup installs a tracer provider for cfg.Exporter. With ExporterNone the
// global no-op provider is left in place and the zero Telemetry is returned.
// Stdout spans are written to w, or to stderr when w is nil.
func Setup(ctx context.Context, serviceName string, cfg types.TelemetryConfig, w io.Writer) (Telemetry, error) {
	exporter, err := newExporter(ctx, cfg, w)
	if err != nil || exporter == nil {
		return Telemetry{}, err
	}

	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return Telemetry{}, fmt.Errorf("building telemetry resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(r),
	)
	otel.SetTracerProvider(tp)
	return Telemetry{TracerProvider: tp}, nil
}

func newExporter(ctx context.Context, cfg types.TelemetryConfig, w io.Writer) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case types.ExporterNone, "":
		return nil, nil
	case types.ExporterStdout:
		if w == nil {
			w = os.Stderr
		}
		return stdouttrace.New(stdouttrace.WithWriter(w))
	case types.ExporterOTLP:
		ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		var opts []otlptracehttp.Option
		if cfg.Endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpointURL(cfg.Endpoint))
		}
		return otlptracehttp.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unknown trace exporter %q: use none, stdout or otlp", cfg.Exporter)
	}
}

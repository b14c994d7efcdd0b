// Package telemetry wires OpenTelemetry tracing for factcalc runs.
package telemetry

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Environment variables controlling export.
const (
	EnvEndpoint = "FACTCALC_OTEL_ENDPOINT"
	EnvEnabled  = "FACTCALC_OTEL_ENABLED"
)

// TracerName is the instrumentation scope of every factcalc span.
const TracerName = "github.com/agbru/factcalc"

// Setup installs a global tracer provider exporting to the OTLP/HTTP
// endpoint named by FACTCALC_OTEL_ENDPOINT.
//
// Tracing is opt-in: with no endpoint, or FACTCALC_OTEL_ENABLED=false, the
// global no-op provider stays in place and the returned shutdown does
// nothing. The shutdown function flushes pending spans.
func Setup(ctx context.Context, serviceName, version string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if strings.EqualFold(os.Getenv(EnvEnabled), "false") {
		return noop, nil
	}
	endpoint := os.Getenv(EnvEndpoint)
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noop, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown, nil
}

// Tracer returns the factcalc tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

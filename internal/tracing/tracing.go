// Package tracing sets up the OpenTelemetry tracer provider.
package tracing

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"flipkart-scraper-api-go/internal/config"
)

// Provider owns the process-wide tracer provider. A nil *sdktrace.TracerProvider
// means tracing is disabled.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// New builds and installs a tracer provider when tracing is enabled. Spans
// are exported over OTLP/HTTP only if an endpoint is configured.
func New(cfg *config.Config, logger *slog.Logger) (*Provider, error) {
	if !cfg.Tracing.Enabled {
		return &Provider{}, nil
	}

	res := sdkresource.NewSchemaless(
		attribute.String("service.name", cfg.Tracing.ServiceName),
	)
	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	if cfg.Tracing.Endpoint != "" {
		exp, err := otlptracehttp.New(context.Background(),
			otlptracehttp.WithEndpointURL(cfg.Tracing.Endpoint),
		)
		if err != nil {
			return nil, fmt.Errorf("create otlp exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exp))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("tracing enabled", "endpoint", cfg.Tracing.Endpoint, "service", cfg.Tracing.ServiceName)
	return &Provider{tp: tp}, nil
}

// Enabled reports whether a tracer provider was installed.
func (p *Provider) Enabled() bool {
	return p.tp != nil
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}

// Package telemetry exposes OpenTelemetry metrics through a Prometheus scrape endpoint.
package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const meterName = "github.com/promptdial/promptdial"

// Metrics holds the instruments recorded by the HTTP layer.
type Metrics struct {
	Requests        metric.Int64Counter
	ErrorCount      metric.Int64Counter
	RequestDuration metric.Float64Histogram
	Generations     metric.Int64Counter
	Publishes       metric.Int64Counter
	OTPRequests     metric.Int64Counter
}

// Provider bundles the meter provider and its scrape handler.
type Provider struct {
	MeterProvider *sdkmetric.MeterProvider
	Handler       http.Handler
}

// Shutdown flushes and stops the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.MeterProvider.Shutdown(ctx)
}

// NewPrometheusProvider creates a meter provider backed by a private
// Prometheus registry and starts Go runtime instrumentation.
func NewPrometheusProvider(serviceName, version string) (*Provider, error) {
	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", version),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)

	if err := otelruntime.Start(
		otelruntime.WithMeterProvider(mp),
		otelruntime.WithMinimumReadMemStatsInterval(15*time.Second),
	); err != nil {
		return nil, fmt.Errorf("failed to start runtime instrumentation: %w", err)
	}

	return &Provider{
		MeterProvider: mp,
		Handler:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}, nil
}

// NewMetrics creates the instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(meterName)
	m := &Metrics{}
	var err error

	if m.Requests, err = meter.Int64Counter("promptdial_http_requests",
		metric.WithDescription("Number of HTTP requests handled")); err != nil {
		return nil, err
	}
	if m.ErrorCount, err = meter.Int64Counter("promptdial_http_errors",
		metric.WithDescription("Number of HTTP requests answered with a 4xx or 5xx status")); err != nil {
		return nil, err
	}
	if m.RequestDuration, err = meter.Float64Histogram("promptdial_http_request_duration",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.Generations, err = meter.Int64Counter("promptdial_prompt_generations",
		metric.WithDescription("Number of prompts generated from personas")); err != nil {
		return nil, err
	}
	if m.Publishes, err = meter.Int64Counter("promptdial_publishes",
		metric.WithDescription("Number of snapshots and personalities published")); err != nil {
		return nil, err
	}
	if m.OTPRequests, err = meter.Int64Counter("promptdial_otp_requests",
		metric.WithDescription("Number of sign-in code requests by outcome")); err != nil {
		return nil, err
	}
	return m, nil
}

// Count adds one to c with attrs. Nil metrics are ignored so handlers can run without telemetry.
func (m *Metrics) Count(ctx context.Context, c func(*Metrics) metric.Int64Counter, attrs ...attribute.KeyValue) {
	if m == nil {
		return
	}
	c(m).Add(ctx, 1, metric.WithAttributes(attrs...))
}

// MetricTelemetryMiddleware records request count, errors and latency per
// huma operation.
func MetricTelemetryMiddleware(metrics *Metrics) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if metrics == nil {
			next(ctx)
			return
		}
		start := time.Now()
		next(ctx)

		path := ctx.URL().Path
		if op := ctx.Operation(); op != nil {
			path = op.Path
		}
		status := ctx.Status()
		if status == 0 {
			status = http.StatusOK
		}
		attrs := metric.WithAttributes(
			attribute.String("method", ctx.Method()),
			attribute.String("path", path),
			attribute.String("status_code", strconv.Itoa(status)),
		)
		metrics.Requests.Add(ctx.Context(), 1, attrs)
		metrics.RequestDuration.Record(ctx.Context(), time.Since(start).Seconds(), attrs)
		if status >= http.StatusBadRequest {
			metrics.ErrorCount.Add(ctx.Context(), 1, attrs)
		}
	}
}

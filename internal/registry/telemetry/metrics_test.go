package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

func scrape(t *testing.T, p *Provider) string {
	t.Helper()
	rec := httptest.NewRecorder()
	p.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestPrometheusProvider_ExposesMetrics(t *testing.T) {
	p, err := NewPrometheusProvider("promptdial-test", "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	m, err := NewMetrics(p.MeterProvider)
	require.NoError(t, err)
	m.Count(context.Background(), func(m *Metrics) metric.Int64Counter { return m.Publishes },
		attribute.String("scheme", "share"))

	out := scrape(t, p)
	assert.Contains(t, out, "promptdial_publishes")
	assert.Contains(t, out, `scheme="share"`)
	assert.Contains(t, out, "go_goroutine", "runtime instrumentation should be registered")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Count(context.Background(), func(m *Metrics) metric.Int64Counter { return m.Publishes })
	})
}

func TestMetricTelemetryMiddleware(t *testing.T) {
	p, err := NewPrometheusProvider("promptdial-test", "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })
	m, err := NewMetrics(p.MeterProvider)
	require.NoError(t, err)

	_, api := humatest.New(t)
	api.UseMiddleware(MetricTelemetryMiddleware(m))
	huma.Register(api, huma.Operation{
		OperationID: "boom",
		Method:      http.MethodGet,
		Path:        "/boom/{id}",
	}, func(_ context.Context, _ *struct {
		ID string `path:"id"`
	}) (*struct{}, error) {
		return nil, huma.Error404NotFound("nope")
	})

	resp := api.Get("/boom/123")
	require.Equal(t, http.StatusNotFound, resp.Code)

	out := scrape(t, p)
	assert.Contains(t, out, `path="/boom/{id}"`)
	assert.Contains(t, out, `status_code="404"`)
	assert.Contains(t, out, "promptdial_http_errors")
}

package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptdial/promptdial/internal/registry/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("PROMPTDIAL_KV_URL", "memory://")
	t.Setenv("PROMPTDIAL_BLOB_DIR", t.TempDir())
	t.Setenv("PROMPTDIAL_OPENAI_API_KEY", "")
	t.Setenv("PROMPTDIAL_SMTP_HOST", "")
	cfg, err := config.Parse()
	require.NoError(t, err)
	return cfg
}

func TestNewApp_WiresServer(t *testing.T) {
	cfg := testConfig(t)

	a, err := newApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.close)

	for _, path := range []string{"/v0/ping", "/v0/health", "/v0/personas", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		a.server.Handler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestNewApp_MetricsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.EnableMetrics = false

	a, err := newApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.close)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	a.server.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewApp_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.BlobBackend = "s3"
	_, err := newApp(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown blob backend")

	cfg = testConfig(t)
	cfg.KVURL = "ftp://nowhere"
	_, err = newApp(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key-value store")
}

func TestEphemeralSecret(t *testing.T) {
	a, err := ephemeralSecret()
	require.NoError(t, err)
	b, err := ephemeralSecret()
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

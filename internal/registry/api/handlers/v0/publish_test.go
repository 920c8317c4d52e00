package v0_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v0 "github.com/promptdial/promptdial/internal/registry/api/handlers/v0"
	"github.com/promptdial/promptdial/internal/registry/kv"
	"github.com/promptdial/promptdial/internal/registry/service"
	servicetesting "github.com/promptdial/promptdial/internal/registry/service/testing"
	"github.com/promptdial/promptdial/pkg/registry/database"
)

func newPublishAPI(t *testing.T, svc service.PersonaService) http.Handler {
	t.Helper()
	mux, api := newTestAPI(t)
	v0.RegisterPublishEndpoints(api, "/v0", svc, nil)
	return mux
}

func TestPublishPage(t *testing.T) {
	fake := servicetesting.NewFakeService()
	mux := newPublishAPI(t, fake)

	w := serve(t, mux, http.MethodPost, "/v0/publish", map[string]any{
		"promptId":   "g1",
		"promptText": "You are helpful.",
		"configName": "Friendly",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode[v0.PublishBody](t, w)
	assert.True(t, out.Success)
	assert.Equal(t, "/p/"+out.ID, out.URL)
	require.Len(t, fake.PublishRequests, 1)
	assert.Equal(t, service.PageRetention, fake.PublishRequests[0].Retention)

	w = serve(t, mux, http.MethodGet, "/v0/publish/"+out.ID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	page := decode[v0.PublishedPromptBody](t, w)
	assert.Equal(t, "You are helpful.", page.PromptText)
	assert.Equal(t, "Friendly", page.ConfigName)

	w = serve(t, mux, http.MethodGet, "/v0/publish/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, decode[errorBody](t, w).Success)
}

func TestShare_RoundTrip(t *testing.T) {
	// A real service over the in-memory store so the stored text is byte-exact.
	svc := service.NewPersonaService(database.NewKV(kv.NewMemoryStore()), nil, service.Config{})
	mux := newPublishAPI(t, svc)

	text := "Line one\n  indented, with unicode ✓ é\n"
	w := serve(t, mux, http.MethodPost, "/v0/share", map[string]any{"promptText": text})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode[v0.PublishBody](t, w)
	assert.Len(t, out.ID, service.ShareRetention.IDLength)
	assert.Equal(t, "/v0/share/"+out.ID, out.URL)

	w = serve(t, mux, http.MethodGet, out.URL, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=31536000", w.Header().Get("Cache-Control"))
	assert.Equal(t, text, w.Body.String())
}

func TestShare_NotFound(t *testing.T) {
	mux := newPublishAPI(t, servicetesting.NewFakeService())

	w := serve(t, mux, http.MethodGet, "/v0/share/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	out := decode[errorBody](t, w)
	assert.False(t, out.Success)
	assert.Equal(t, "Shared prompt not found", out.Error)
}

func TestPublish_DistinctIDs(t *testing.T) {
	svc := service.NewPersonaService(database.NewKV(kv.NewMemoryStore()), nil, service.Config{},
		service.WithClock(func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }))
	mux := newPublishAPI(t, svc)

	seen := map[string]bool{}
	for range 20 {
		w := serve(t, mux, http.MethodPost, "/v0/share", map[string]any{"promptText": "same"})
		require.Equal(t, http.StatusOK, w.Code)
		id := decode[v0.PublishBody](t, w).ID
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

package v0_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/stretchr/testify/require"

	"github.com/promptdial/promptdial/pkg/registry/auth"
	"github.com/promptdial/promptdial/pkg/types"
)

func newTestAPI(t *testing.T) (*http.ServeMux, huma.API) {
	t.Helper()
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return types.NewError(status, msg, errs...)
	}
	mux := http.NewServeMux()
	return mux, humago.New(mux, huma.DefaultConfig("Test API", "1.0.0"))
}

type requestOption func(*http.Request)

func withSession(email string) requestOption {
	return func(r *http.Request) {
		*r = *r.WithContext(auth.WithSession(r.Context(), &auth.Session{Email: email}))
	}
}

func serve(t *testing.T, mux http.Handler, method, path string, body any, opts ...requestOption) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequestWithContext(context.Background(), method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// errorBody mirrors types.ErrorResponse for decoding.
type errorBody struct {
	Success           bool   `json:"success"`
	Error             string `json:"error"`
	Details           string `json:"details"`
	RetryAfter        int    `json:"retryAfter"`
	AttemptsRemaining *int   `json:"attemptsRemaining"`
}

package prompt

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptdial/promptdial/internal/client"
)

type fakeServer struct {
	mu      sync.Mutex
	shared  map[string]string
	history []map[string]any
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	f := &fakeServer{
		shared: map[string]string{},
		history: []map[string]any{
			{"id": "p-2", "configName": "Tutor", "promptText": "# Tutor - System Prompt Configuration\n\nbody", "timestamp": "2025-03-02T10:00:00Z"},
			{"id": "p-1", "configName": "Helper", "promptText": "You are Helper.", "timestamp": "2025-03-01T10:00:00Z"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v0/share", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			PromptText string `json:"promptText"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.shared["Ab3dE6gH9jKl"] = body.PromptText
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"id":"Ab3dE6gH9jKl","url":"/v0/share/Ab3dE6gH9jKl"}`))
	})
	mux.HandleFunc("GET /v0/share/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		text, ok := f.shared[r.PathValue("id")]
		f.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(text))
	})
	mux.HandleFunc("POST /v0/publish", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["configName"] != "loan-officer" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"id":"a1b2c3d4e5","url":"/p/a1b2c3d4e5"}`))
	})
	mux.HandleFunc("GET /v0/prompts", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"success": true, "prompts": f.history})
	})
	mux.HandleFunc("DELETE /v0/prompts", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			IDs []string `json:"ids"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		deleted := 0
		kept := f.history[:0]
		for _, p := range f.history {
			match := false
			for _, id := range body.IDs {
				if p["id"] == id {
					match = true
				}
			}
			if match {
				deleted++
			} else {
				kept = append(kept, p)
			}
		}
		f.history = kept
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"success": true, "deleted": deleted})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	SetAPIClient(client.NewClient(srv.URL+"/v0", ""))
	t.Cleanup(func() { SetAPIClient(nil) })
	return f
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	PromptCmd.SetOut(&out)
	PromptCmd.SetIn(strings.NewReader(stdin))
	PromptCmd.SetArgs(args)
	// Flag values survive between executions of the same command tree.
	outputFormat, showOutputFormat, showPage = "table", "table", false
	publishName, publishPromptID, dryRunFlag = "", "", false
	err := PromptCmd.Execute()
	return out.String(), err
}

func TestShareAndShow(t *testing.T) {
	newFakeServer(t)

	out, err := run(t, "You are a helpful assistant.", "share", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "/v0/share/Ab3dE6gH9jKl")

	out, err = run(t, "", "show", "Ab3dE6gH9jKl")
	require.NoError(t, err)
	assert.Equal(t, "You are a helpful assistant.", out)

	_, err = run(t, "   \n", "share", "-")
	assert.ErrorContains(t, err, "empty")
}

func TestPublish_DefaultsNameToFileName(t *testing.T) {
	newFakeServer(t)
	path := filepath.Join(t.TempDir(), "loan-officer.md")
	require.NoError(t, os.WriteFile(path, []byte("You are a loan officer."), 0o644))

	out, err := run(t, "", "publish", path)
	require.NoError(t, err)
	assert.Contains(t, out, "/p/a1b2c3d4e5")

	_, err = run(t, "", "publish", path, "--name", "other")
	assert.Error(t, err)
}

func TestListAndDelete(t *testing.T) {
	f := newFakeServer(t)

	_, err := run(t, "", "list")
	require.NoError(t, err)

	_, err = run(t, "", "delete", "p-1", "unknown")
	require.NoError(t, err)
	assert.Len(t, f.history, 1)

	_, err = run(t, "", "delete", "unknown")
	assert.ErrorContains(t, err, "no matching prompts")
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "Tutor - System Prompt Configuration", firstLine("\n# Tutor - System Prompt Configuration\n\nbody"))
	assert.Equal(t, "plain", firstLine("plain\nsecond"))
	assert.Empty(t, firstLine("\n\n"))
}

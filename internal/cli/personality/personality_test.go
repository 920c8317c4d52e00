package personality

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptdial/promptdial/internal/client"
)

func newTestServer(t *testing.T) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v0/personalities/{username}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		list := []map[string]any{}
		if r.PathValue("username") == "alice" {
			list = append(list, map[string]any{
				"id": "p1", "name": "Friendly Loan Officer", "slug": "friendly-loan-officer",
				"emoji": "🏦", "systemPrompt": "You are friendly.", "username": "alice",
				"createdAt": "2025-03-01T12:00:00Z",
			})
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "personalities": list})
	})
	mux.HandleFunc("GET /v0/personalities/{username}/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.PathValue("slug") != "friendly-loan-officer" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"success":false,"error":"Personality not found"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "personality": map[string]any{
			"id": "p1", "name": "Friendly Loan Officer", "slug": "friendly-loan-officer",
			"systemPrompt": "You are friendly.", "username": "alice", "createdAt": "2025-03-01T12:00:00Z",
		}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	SetAPIClient(client.NewClient(srv.URL+"/v0", ""))
	t.Cleanup(func() { SetAPIClient(nil) })
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	PersonalityCmd.SetOut(&out)
	PersonalityCmd.SetArgs(args)
	// Flag values survive between executions of the same command tree.
	listOutput, showOutput, showPromptOnly = "table", "table", false
	err := PersonalityCmd.Execute()
	return out.String(), err
}

func TestListCmd(t *testing.T) {
	newTestServer(t)

	out, err := run(t, "list", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "friendly-loan-officer")
	assert.Contains(t, out, "2025-03-01")

	out, err = run(t, "list", "bob", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestShowCmd(t *testing.T) {
	newTestServer(t)

	out, err := run(t, "show", "alice", "friendly-loan-officer", "--prompt-only")
	require.NoError(t, err)
	assert.Equal(t, "You are friendly.\n", out)

	out, err = run(t, "show", "alice", "friendly-loan-officer")
	require.NoError(t, err)
	assert.Contains(t, out, "Author")
	assert.Contains(t, out, "You are friendly.")

	_, err = run(t, "show", "alice", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCommandsRequireClient(t *testing.T) {
	SetAPIClient(nil)
	_, err := run(t, "list", "alice")
	assert.ErrorContains(t, err, "API client not initialized")
}

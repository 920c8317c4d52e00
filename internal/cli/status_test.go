package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := fn()

	w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	io.Copy(&buf, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return buf.String()
}

func TestStatusCmd_ServerStopped(t *testing.T) {
	// Point to a non-existent server so Ping fails.
	t.Setenv("PROMPTDIAL_API_URL", "http://127.0.0.1:19999/v0")

	out := captureStdout(t, func() error { return StatusCmd.RunE(StatusCmd, nil) })

	if !strings.Contains(out, "stopped") {
		t.Errorf("expected 'stopped' in output, got: %s", out)
	}
	if !strings.Contains(out, "unreachable") {
		t.Errorf("expected 'unreachable' in output, got: %s", out)
	}
}

func TestStatusCmd_ServerRunning(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v0/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"pong":true}`))
	})
	mux.HandleFunc("/v0/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success":   true,
			"version":   "v0.5.0",
			"gitCommit": "abc1234",
			"buildTime": "2026-02-08T00:00:00Z",
		})
	})
	mux.HandleFunc("/v0/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"status":"ok","kv":"ok"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	t.Setenv("PROMPTDIAL_API_URL", srv.URL+"/v0")

	out := captureStdout(t, func() error { return StatusCmd.RunE(StatusCmd, nil) })

	if !strings.Contains(out, "running") {
		t.Errorf("expected 'running' in output, got: %s", out)
	}
	if !strings.Contains(out, "v0.5.0") {
		t.Errorf("expected server version in output, got: %s", out)
	}
	if !strings.Contains(out, "Key-value store:    ok") {
		t.Errorf("expected healthy key-value store in output, got: %s", out)
	}
}

func TestStatusCmd_UnhealthyBackend(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v0/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/v0/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"error":"Key-value backend unavailable"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	t.Setenv("PROMPTDIAL_API_URL", srv.URL+"/v0")
	statusOutputFormat = "json"
	defer func() { statusOutputFormat = "table" }()

	out := captureStdout(t, func() error { return StatusCmd.RunE(StatusCmd, nil) })

	var info statusInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("expected valid JSON, got parse error: %v\noutput: %s", err, out)
	}
	if info.Server != "running" || info.KV != "unavailable" {
		t.Errorf("unexpected status: %+v", info)
	}
}

func TestStatusCmd_JSONOutput(t *testing.T) {
	t.Setenv("PROMPTDIAL_API_URL", "http://127.0.0.1:19999/v0")

	statusOutputFormat = "json"
	defer func() { statusOutputFormat = "table" }()

	out := captureStdout(t, func() error { return StatusCmd.RunE(StatusCmd, nil) })

	var info statusInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("expected valid JSON, got parse error: %v\noutput: %s", err, out)
	}
	if info.Server != "stopped" {
		t.Errorf("expected server=stopped, got %s", info.Server)
	}
	if info.API != "unreachable" {
		t.Errorf("expected api=unreachable, got %s", info.API)
	}
}

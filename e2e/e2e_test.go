//go:build e2e

package e2e

import (
	"fmt"
	"log"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	log.SetPrefix("[e2e] ")
	log.SetFlags(log.Ltime)

	if _, err := os.Stat(promptdialBinary()); err != nil {
		log.Fatalf("promptdial binary not found at %s (build ./cmd/promptdial into bin/ or set PROMPTDIAL_BINARY)", promptdialBinary())
	}

	var stop func()
	if url := os.Getenv("PROMPTDIAL_E2E_URL"); url != "" {
		log.Printf("PROMPTDIAL_E2E_URL set, using running server")
		serverURL = url
	} else {
		stop = startServer()
	}
	log.Printf("Server: %s", serverURL)

	code := m.Run()
	if stop != nil {
		stop()
	}
	os.Exit(code)
}

// startServer runs "promptdial serve" on a free port against an in-memory
// store and returns a function that stops it.
func startServer() func() {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		log.Fatalf("failed to reserve a port: %v", err)
	}
	addr := l.Addr().String()
	l.Close()

	blobDir, err := os.MkdirTemp("", "promptdial-e2e-")
	if err != nil {
		log.Fatalf("failed to create blob dir: %v", err)
	}

	cmd := exec.Command(promptdialBinary(), "serve", "--address", addr)
	cmd.Env = append(os.Environ(),
		"PROMPTDIAL_KV_URL=memory://",
		"PROMPTDIAL_BLOB_DIR="+filepath.Join(blobDir, "blobs"),
		"PROMPTDIAL_JWT_SECRET=e2e-secret-e2e-secret-e2e-secret",
		"PROMPTDIAL_SMTP_HOST=",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}

	serverURL = fmt.Sprintf("http://%s", addr)
	if !waitForHealth(serverURL+"/v0/ping", 30*time.Second) {
		_ = cmd.Process.Kill()
		log.Fatalf("server did not become healthy at %s", serverURL)
	}

	return func() {
		_ = cmd.Process.Signal(syscall.SIGTERM)
		done := make(chan struct{})
		go func() {
			_ = cmd.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(35 * time.Second):
			_ = cmd.Process.Kill()
		}
		os.RemoveAll(blobDir)
	}
}

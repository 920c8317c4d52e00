//go:build e2e

package e2e

import (
	"bytes"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// serverURL is set during TestMain setup and used by all tests that need the API.
var serverURL string

// promptdialBinary returns the absolute path to the pre-built binary.
// Checks PROMPTDIAL_BINARY first, then falls back to ../bin/promptdial.
// The path is made absolute because exec.Command resolves relative paths
// against cmd.Dir.
func promptdialBinary() string {
	bin := os.Getenv("PROMPTDIAL_BINARY")
	if bin == "" {
		bin = filepath.Join("..", "bin", "promptdial")
	}
	abs, err := filepath.Abs(bin)
	if err != nil {
		return bin
	}
	return abs
}

// CLIResult holds the output from running promptdial.
type CLIResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// RunCLI executes promptdial with args in workDir, pointed at the test server.
func RunCLI(t *testing.T, workDir string, stdin string, args ...string) CLIResult {
	t.Helper()
	bin := promptdialBinary()
	t.Logf("Running: %s %s (in %s)", bin, strings.Join(args, " "), workDir)

	cmd := exec.Command(bin, args...)
	if workDir != "" {
		cmd.Dir = workDir
	}
	cmd.Env = append(os.Environ(), "PROMPTDIAL_API_URL="+serverURL+"/v0")
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
	}

	result := CLIResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
		Err:      err,
	}
	t.Logf("Exit code: %d", result.ExitCode)
	if result.Stdout != "" {
		t.Logf("Stdout:\n%s", result.Stdout)
	}
	if result.Stderr != "" {
		t.Logf("Stderr:\n%s", result.Stderr)
	}
	return result
}

// RequireSuccess asserts the command succeeded (exit code 0).
func RequireSuccess(t *testing.T, result CLIResult) {
	t.Helper()
	if result.ExitCode != 0 {
		t.Fatalf("Expected exit code 0 but got %d.\nStdout: %s\nStderr: %s",
			result.ExitCode, result.Stdout, result.Stderr)
	}
}

// RequireFailure asserts the command failed (non-zero exit code).
func RequireFailure(t *testing.T, result CLIResult) {
	t.Helper()
	if result.ExitCode == 0 {
		t.Fatalf("Expected non-zero exit code but got 0.\nStdout: %s\nStderr: %s",
			result.Stdout, result.Stderr)
	}
}

// RequireOutputContains asserts stdout or stderr contains the given substring.
func RequireOutputContains(t *testing.T, result CLIResult, substr string) {
	t.Helper()
	combined := result.Stdout + result.Stderr
	if !strings.Contains(combined, substr) {
		t.Fatalf("Expected output to contain %q but got:\nStdout: %s\nStderr: %s",
			substr, result.Stdout, result.Stderr)
	}
}

// RequireFileContains asserts the file at path contains the given substring.
func RequireFileContains(t *testing.T, path, substr string) {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	if !strings.Contains(string(content), substr) {
		t.Fatalf("Expected file %s to contain %q but content is:\n%s", path, substr, string(content))
	}
}

// waitForHealth polls url until it returns HTTP 200 or the timeout expires.
func waitForHealth(url string, timeout time.Duration) bool {
	client := &http.Client{Timeout: 3 * time.Second}
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return false
}

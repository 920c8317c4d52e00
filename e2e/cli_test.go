//go:build e2e

package e2e

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const personaYAML = `name: Friendly Loan Officer
detail_level: 85
formality_level: 20
job_role: Loan Officer
years_experience: 12
`

// TestVersion checks that version reports both the CLI and the server.
func TestVersion(t *testing.T) {
	result := RunCLI(t, t.TempDir(), "", "version")
	RequireSuccess(t, result)
	RequireOutputContains(t, result, "promptdial version")
	RequireOutputContains(t, result, "Server version:")
}

func TestStatus(t *testing.T) {
	result := RunCLI(t, t.TempDir(), "", "status")
	RequireSuccess(t, result)
	RequireOutputContains(t, result, "Key-value store:")
}

// TestCompileOffline runs compile with no server configured.
func TestCompileOffline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loan.yaml")
	if err := os.WriteFile(path, []byte(personaYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	result := RunCLI(t, dir, "", "compile", path)
	RequireSuccess(t, result)
	RequireOutputContains(t, result, "Friendly Loan Officer - System Prompt Configuration")

	out := filepath.Join(dir, "prompt.md")
	result = RunCLI(t, dir, "", "compile", path, "--mode", "instructions", "-o", out)
	RequireSuccess(t, result)
	RequireFileContains(t, out, "Loan Officer")

	RequireFailure(t, RunCLI(t, dir, "", "compile", path, "--mode", "poetry"))
}

func TestShareAndShow(t *testing.T) {
	text := "You are a careful reviewer.\nAnswer briefly."
	result := RunCLI(t, t.TempDir(), text, "prompt", "share", "-")
	RequireSuccess(t, result)

	url := strings.TrimSpace(result.Stdout)
	id := url[strings.LastIndex(url, "/")+1:]
	if id == "" {
		t.Fatalf("no share id in %q", url)
	}

	result = RunCLI(t, t.TempDir(), "", "prompt", "show", id)
	RequireSuccess(t, result)
	RequireOutputContains(t, result, "Answer briefly.")

	result = RunCLI(t, t.TempDir(), "", "prompt", "show", "doesnotexist")
	RequireOutputContains(t, result, "not found")
}

func TestPublishPage(t *testing.T) {
	result := RunCLI(t, t.TempDir(), "Be kind.", "prompt", "publish", "-", "--name", "kindness")
	RequireSuccess(t, result)
	RequireOutputContains(t, result, "/p/")
}

func TestUnknownPersonality(t *testing.T) {
	result := RunCLI(t, t.TempDir(), "", "personality", "list", "nobody")
	RequireSuccess(t, result)
}

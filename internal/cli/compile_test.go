package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptdial/promptdial/internal/registry/compiler"
)

const loanOfficerYAML = `
name: Friendly Loan Officer
detail_level: 85
formality-level: 20
useExamples: true
include_tables: true
job_role: Loan Officer
years_experience: 12
specializations:
  - FHA loans
  - first-time buyers
region: southwest
`

func TestParsePersona_NormalizesKeys(t *testing.T) {
	p, err := parsePersona([]byte(loanOfficerYAML))
	require.NoError(t, err)

	assert.Equal(t, "Friendly Loan Officer", p.Name)
	assert.Equal(t, 85, p.DetailLevel)
	assert.Equal(t, 20, p.FormalityLevel)
	assert.True(t, p.UseExamples)
	assert.True(t, p.IncludeTables)
	assert.Equal(t, "Loan Officer", p.JobRole)
	assert.Equal(t, 12, p.YearsExperience)
	assert.Equal(t, []string{"FHA loans", "first-time buyers"}, p.Specializations)
}

func TestParsePersona_JSON(t *testing.T) {
	p, err := parsePersona([]byte(`{"name":"Tutor","technicalDepth":70,"explanationStyle":"socratic"}`))
	require.NoError(t, err)
	assert.Equal(t, "Tutor", p.Name)
	assert.Equal(t, 70, p.TechnicalDepth)
	assert.Equal(t, "socratic", p.ExplanationStyle)
}

func TestParsePersona_Errors(t *testing.T) {
	_, err := parsePersona([]byte(""))
	assert.Error(t, err)

	_, err = parsePersona([]byte("- just\n- a list\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapping")

	_, err = parsePersona([]byte("detailLevel: [not, a, number]"))
	assert.Error(t, err)
}

func TestRendererFor(t *testing.T) {
	p, err := parsePersona([]byte(loanOfficerYAML))
	require.NoError(t, err)

	doc, err := rendererFor("documentation")
	require.NoError(t, err)
	assert.Equal(t, compiler.Documentation(p), doc(p))

	inst, err := rendererFor("Instructions")
	require.NoError(t, err)
	assert.Equal(t, compiler.Instructions(p), inst(p))

	_, err = rendererFor("avatar")
	require.NoError(t, err)

	_, err = rendererFor("poetry")
	assert.Error(t, err)
}

func TestCompileOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "persona.yaml")
	require.NoError(t, os.WriteFile(path, []byte(loanOfficerYAML), 0o644))

	var buf bytes.Buffer
	require.NoError(t, compileOnce(path, compiler.Documentation, &buf))
	assert.Contains(t, buf.String(), "# Friendly Loan Officer - System Prompt Configuration")

	compileOutput = filepath.Join(dir, "out.md")
	t.Cleanup(func() { compileOutput = "" })
	require.NoError(t, compileOnce(path, compiler.Instructions, &buf))
	written, err := os.ReadFile(compileOutput)
	require.NoError(t, err)
	assert.Contains(t, string(written), "Loan Officer")

	assert.Error(t, compileOnce(filepath.Join(dir, "missing.yaml"), compiler.Documentation, &buf))
}

func TestWatchPersona(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "persona.yaml")
	require.NoError(t, os.WriteFile(path, []byte(loanOfficerYAML), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- watchPersona(ctx, path, func() { changed <- struct{}{} })
	}()

	// Writes to other files in the directory are ignored. Keep rewriting the
	// persona until the watcher is registered and reports it.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("name: x"), 0o644))
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
wait:
	for {
		select {
		case <-changed:
			break wait
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte(loanOfficerYAML+"humor: 90\n"), 0o644))
		case <-deadline:
			t.Fatal("no change reported for the persona file")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

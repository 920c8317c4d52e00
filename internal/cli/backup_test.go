package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptdial/promptdial/internal/registry/kv"
	"github.com/promptdial/promptdial/pkg/models"
)

// sharedStore points every command at one in-memory store that survives Close.
func sharedStore(t *testing.T) *kv.MemoryStore {
	t.Helper()
	t.Setenv("PROMPTDIAL_KV_URL", "memory://")
	t.Setenv("PROMPTDIAL_SEED_EXAMPLES", "false")
	store := kv.NewMemoryStore()
	orig := openStore
	openStore = func(context.Context, string) (kv.Store, error) { return store, nil }
	t.Cleanup(func() { openStore = orig })
	return store
}

func TestImportThenExport(t *testing.T) {
	sharedStore(t)
	dir := t.TempDir()
	seed := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(seed, []byte("- name: Friendly Loan Officer\n  empathy: 90\n- name: Tutor\n"), 0o644))

	importOwner, importKeepIDs = "bob@example.com", false
	require.NoError(t, runImport(ImportCmd, []string{seed}))

	exportOwner, exportOutput = "bob@example.com", filepath.Join(dir, "out.json")
	require.NoError(t, runExport(ExportCmd, nil))

	data, err := os.ReadFile(exportOutput)
	require.NoError(t, err)
	var got []*models.Persona
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 2)

	slugs := []string{got[0].Slug, got[1].Slug}
	assert.ElementsMatch(t, []string{"friendly-loan-officer", "tutor"}, slugs)

	// Another owner sees nothing.
	exportOwner, exportOutput = "carol@example.com", filepath.Join(dir, "carol.json")
	require.NoError(t, runExport(ExportCmd, nil))
	data, err = os.ReadFile(exportOutput)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestOwnerContext(t *testing.T) {
	_, err := ownerContext(context.Background(), "alice@example.com")
	assert.NoError(t, err)

	for _, bad := range []string{"", "not-an-email", "Alice <alice@example.com>"} {
		_, err := ownerContext(context.Background(), bad)
		assert.Error(t, err, bad)
	}
}

func TestImport_MissingFile(t *testing.T) {
	sharedStore(t)
	importOwner = "bob@example.com"
	err := runImport(ImportCmd, []string{filepath.Join(t.TempDir(), "missing.json")})
	assert.ErrorContains(t, err, "failed to read seed data")
}

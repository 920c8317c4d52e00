package importer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptdial/promptdial/internal/registry/exporter"
	"github.com/promptdial/promptdial/internal/registry/kv"
	"github.com/promptdial/promptdial/internal/registry/service"
	servicetesting "github.com/promptdial/promptdial/internal/registry/service/testing"
	"github.com/promptdial/promptdial/pkg/models"
	pkgauth "github.com/promptdial/promptdial/pkg/registry/auth"
	"github.com/promptdial/promptdial/pkg/registry/database"
)

const jsonSeed = `[
  {"id": "keep-me", "name": "Helper", "detailLevel": 80, "useExamples": true},
  {"name": "Tutor", "explanationStyle": "socratic"}
]`

const yamlSeed = `
- name: Helper
  detailLevel: 80
- name: Tutor
  explanationStyle: socratic
`

func writeSeed(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportFromPath_LocalFiles(t *testing.T) {
	for name, content := range map[string]string{"seed.json": jsonSeed, "seed.yaml": yamlSeed} {
		t.Run(name, func(t *testing.T) {
			fake := servicetesting.NewFakeService()
			svc := NewService(fake)

			res, err := svc.ImportFromPath(context.Background(), writeSeed(t, name, content))
			require.NoError(t, err)
			assert.Equal(t, 2, res.Imported)
			assert.Empty(t, res.Failed)
		})
	}
}

func TestImportFromPath_KeepIDs(t *testing.T) {
	var ids []string
	fake := servicetesting.NewFakeService()
	fake.SavePersonaFn = func(_ context.Context, p *models.Persona) (*models.Persona, error) {
		ids = append(ids, p.ID)
		return p, nil
	}
	svc := NewService(fake)
	path := writeSeed(t, "seed.json", jsonSeed)

	_, err := svc.ImportFromPath(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"", ""}, ids)

	ids = nil
	svc.SetKeepIDs(true)
	_, err = svc.ImportFromPath(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep-me", ""}, ids)
}

func TestImportFromPath_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/seed.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(jsonSeed))
	}))
	defer srv.Close()

	svc := NewService(servicetesting.NewFakeService())
	res, err := svc.ImportFromPath(context.Background(), srv.URL+"/seed.json")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)

	_, err = svc.ImportFromPath(context.Background(), srv.URL+"/missing.json")
	assert.ErrorContains(t, err, "status 404")
}

func TestImportFromPath_PartialFailure(t *testing.T) {
	fake := servicetesting.NewFakeService()
	fake.SavePersonaFn = func(_ context.Context, p *models.Persona) (*models.Persona, error) {
		if p.Name == "Tutor" {
			return nil, errors.New("disk full")
		}
		return p, nil
	}

	res, err := NewService(fake).ImportFromPath(context.Background(), writeSeed(t, "seed.json", jsonSeed))
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.Imported)
	require.Len(t, res.Failed, 1)
	assert.Contains(t, res.Failed[0], "Tutor: disk full")
}

func TestParseSeed_Errors(t *testing.T) {
	_, err := parseSeed([]byte("  "))
	assert.Error(t, err)
	_, err = parseSeed([]byte("[{"))
	assert.Error(t, err)
	_, err = parseSeed([]byte("name: not a list"))
	assert.Error(t, err)
}

// Export from one account and import into another over the real service.
func TestExportImportRoundTrip(t *testing.T) {
	svc := service.NewPersonaService(database.NewKV(kv.NewMemoryStore()), nil, service.Config{})
	alice := pkgauth.WithSession(context.Background(), &pkgauth.Session{Email: "alice@example.com"})
	bob := pkgauth.WithSession(context.Background(), &pkgauth.Session{Email: "bob@example.com"})

	_, err := svc.SavePersona(alice, &models.Persona{Name: "Friendly Loan Officer", Empathy: 90})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "alice.json")
	count, err := exporter.NewService(svc).ExportToPath(alice, path)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	res, err := NewService(svc).ImportFromPath(bob, path)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)

	got, err := svc.ListPersonas(bob)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "friendly-loan-officer", got[0].Slug)
	assert.Equal(t, 90, got[0].Empathy)
	assert.NotEmpty(t, got[0].SystemPrompt)
}

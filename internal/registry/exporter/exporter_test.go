package exporter

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	servicetesting "github.com/promptdial/promptdial/internal/registry/service/testing"
	"github.com/promptdial/promptdial/pkg/models"
)

func TestExportToPath_WritesSeedFile(t *testing.T) {
	published := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	fake := servicetesting.NewFakeService()
	fake.Personas = []*models.Persona{
		{ID: "p1", Name: "Helper", DetailLevel: 80},
		{ID: "p2", Name: "Tutor", IsPublished: true, PublishedURL: "/personalities/alice/tutor", PublishedAt: &published},
	}

	service := NewService(fake)

	outputPath := filepath.Join(t.TempDir(), "nested", "personas.json")

	count, err := service.ExportToPath(context.Background(), outputPath)
	if err != nil {
		t.Fatalf("ExportToPath returned error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 personas to be exported, got %d", count)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read export file: %v", err)
	}

	var exported []models.Persona
	if err := json.Unmarshal(data, &exported); err != nil {
		t.Fatalf("failed to unmarshal export file: %v", err)
	}
	if len(exported) != 2 {
		t.Fatalf("expected 2 personas in export file, got %d", len(exported))
	}
	if exported[0].DetailLevel != 80 {
		t.Errorf("expected dial values to round-trip, got %+v", exported[0])
	}
	if exported[1].IsPublished || exported[1].PublishedURL != "" || exported[1].PublishedAt != nil {
		t.Errorf("expected publication state to be dropped, got %+v", exported[1])
	}
	if !fake.Personas[1].IsPublished {
		t.Errorf("export must not modify the source personas")
	}
}

func TestExportToPath_Empty(t *testing.T) {
	service := NewService(servicetesting.NewFakeService())
	outputPath := filepath.Join(t.TempDir(), "personas.json")

	count, err := service.ExportToPath(context.Background(), outputPath)
	if err != nil {
		t.Fatalf("ExportToPath returned error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 personas, got %d", count)
	}
	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read export file: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("expected an empty JSON array, got %s", data)
	}
}

func TestExportToPath_ListError(t *testing.T) {
	fake := servicetesting.NewFakeService()
	fake.ListPersonasFn = func(context.Context) ([]*models.Persona, error) {
		return nil, errors.New("backend down")
	}

	_, err := NewService(fake).ExportToPath(context.Background(), filepath.Join(t.TempDir(), "out.json"))
	if err == nil {
		t.Fatal("expected error when listing fails")
	}
}

func TestExportToPath_NilService(t *testing.T) {
	if _, err := NewService(nil).ExportToPath(context.Background(), "out.json"); err == nil {
		t.Fatal("expected error for nil service")
	}
}

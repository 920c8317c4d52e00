// Package exporter writes a user's personas to a seed file that the importer reads back.
package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/promptdial/promptdial/internal/registry/service"
	"github.com/promptdial/promptdial/pkg/models"
)

// Service handles exporting persona configurations into seed files.
type Service struct {
	personas service.PersonaService
}

// NewService creates a new exporter service.
func NewService(personas service.PersonaService) *Service {
	return &Service{personas: personas}
}

// ExportToPath collects the personas owned by the user in ctx and writes them
// to outputPath as a JSON array, the format the importer expects.
func (s *Service) ExportToPath(ctx context.Context, outputPath string) (int, error) {
	if s.personas == nil {
		return 0, fmt.Errorf("persona service is not initialized")
	}

	personas, err := s.personas.ListPersonas(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list personas: %w", err)
	}
	if personas == nil {
		personas = []*models.Persona{}
	}

	if err := ensureDir(outputPath); err != nil {
		return 0, err
	}

	data, err := json.MarshalIndent(exportable(personas), "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to marshal personas for export: %w", err)
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return 0, fmt.Errorf("failed to write export file %s: %w", outputPath, err)
	}

	return len(personas), nil
}

// exportable drops publication state, which belongs to the source account.
func exportable(personas []*models.Persona) []*models.Persona {
	out := make([]*models.Persona, 0, len(personas))
	for _, p := range personas {
		c := *p
		c.IsPublished = false
		c.PublishedURL = ""
		c.PublishedAt = nil
		out = append(out, &c)
	}
	return out
}

func ensureDir(outputPath string) error {
	dir := filepath.Dir(outputPath)
	if dir == "" || dir == "." {
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory %s: %w", dir, err)
	}
	return nil
}

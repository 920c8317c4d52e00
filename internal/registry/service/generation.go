package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/promptdial/promptdial/internal/registry/llm"
	"github.com/promptdial/promptdial/pkg/models"
	"github.com/promptdial/promptdial/pkg/registry/database"
)

func (s *personaServiceImpl) GenerateSamples(ctx context.Context, p *models.Persona, category string) ([]models.Sample, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: persona is required", database.ErrInvalidInput)
	}
	if s.generator == nil {
		return nil, llm.ErrMissingCredential
	}
	return s.generator.GenerateSamples(ctx, p, category)
}

func (s *personaServiceImpl) GenerateAvatar(ctx context.Context, p *models.Persona) (string, error) {
	if p == nil {
		return "", fmt.Errorf("%w: persona is required", database.ErrInvalidInput)
	}
	if s.generator == nil {
		return "", fmt.Errorf("%w: %w", llm.ErrAvatarGeneration, llm.ErrMissingCredential)
	}
	return s.generator.GenerateAvatar(ctx, p)
}

func (s *personaServiceImpl) TestPersona(ctx context.Context, p *models.Persona, message string) (string, error) {
	if p == nil || strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("%w: persona and message are required", database.ErrInvalidInput)
	}
	if s.generator == nil {
		return "", llm.ErrMissingCredential
	}
	return s.generator.Test(ctx, p, message)
}

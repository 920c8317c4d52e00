package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/promptdial/promptdial/internal/registry/compiler"
	"github.com/promptdial/promptdial/internal/registry/logging"
	"github.com/promptdial/promptdial/internal/registry/seed"
	"github.com/promptdial/promptdial/pkg/models"
	"github.com/promptdial/promptdial/pkg/registry/auth"
	"github.com/promptdial/promptdial/pkg/registry/database"
)

// DefaultFallbackUserID owns records created without a session.
const DefaultFallbackUserID = "anonymous"

// Generator is the outbound model surface used by the service. *llm.Adapter implements it.
type Generator interface {
	Refine(ctx context.Context, text string) string
	Test(ctx context.Context, p *models.Persona, message string) (string, error)
	GenerateSamples(ctx context.Context, p *models.Persona, category string) ([]models.Sample, error)
	GenerateAvatar(ctx context.Context, p *models.Persona) (string, error)
}

// Config holds service behavior settings.
type Config struct {
	FallbackUserID string `env:"FALLBACK_USER_ID" envDefault:"anonymous"`
	SeedExamples   bool   `env:"SEED_EXAMPLES" envDefault:"true"`
}

// personaServiceImpl implements PersonaService on top of a Database.
type personaServiceImpl struct {
	db        database.Database
	generator Generator
	authz     *auth.Authorizer
	cfg       Config
	now       func() time.Time
	newID     func() string
}

// Option customizes the service.
type Option func(*personaServiceImpl)

// WithAuthorizer installs the authorizer consulted before publishing personalities.
func WithAuthorizer(a *auth.Authorizer) Option {
	return func(s *personaServiceImpl) { s.authz = a }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *personaServiceImpl) { s.now = now }
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *personaServiceImpl) { s.newID = fn }
}

// NewPersonaService creates the service. generator may be nil, in which case
// prompts are stored unrefined and model-backed operations fail.
func NewPersonaService(db database.Database, generator Generator, cfg Config, opts ...Option) PersonaService {
	if cfg.FallbackUserID == "" {
		cfg.FallbackUserID = DefaultFallbackUserID
	}
	s := &personaServiceImpl{
		db:        db,
		generator: generator,
		authz:     &auth.Authorizer{Authz: auth.NewPublicAuthzProvider()},
		cfg:       cfg,
		now:       time.Now,
		newID:     newTimeOrderedID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newTimeOrderedID returns a UUIDv7 so ids sort by creation time.
func newTimeOrderedID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *personaServiceImpl) OwnerID(ctx context.Context) string {
	if sess, ok := auth.AuthSessionFrom(ctx); ok && sess.Email != "" {
		return strings.ToLower(sess.Email)
	}
	return s.cfg.FallbackUserID
}

func (s *personaServiceImpl) refine(ctx context.Context, text string) string {
	if s.generator == nil {
		return text
	}
	return s.generator.Refine(ctx, text)
}

// ListPersonas returns the caller's personas, materializing the built-in examples on first use.
func (s *personaServiceImpl) ListPersonas(ctx context.Context) ([]*models.Persona, error) {
	owner := s.OwnerID(ctx)
	personas, err := s.db.ListPersonas(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(personas) > 0 || !s.cfg.SeedExamples {
		return personas, nil
	}

	examples, err := seed.BuiltinPersonas()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	for i, p := range examples {
		p.ID = s.newID()
		// Distinct timestamps keep the seeded order stable.
		p.CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		p.UpdatedAt = p.CreatedAt
		p.Slug = compiler.Slug(p.Name)
		p.SystemPrompt = compiler.Documentation(p)
		if err := s.db.SavePersona(ctx, owner, p); err != nil {
			return nil, err
		}
	}
	logging.Log(ctx, logging.ServiceLog, zapcore.InfoLevel, "Seeded example personas",
		zap.String("user_id", owner), zap.Int("count", len(examples)))
	return s.db.ListPersonas(ctx, owner)
}

func (s *personaServiceImpl) GetPersona(ctx context.Context, id string) (*models.Persona, error) {
	return s.db.GetPersona(ctx, s.OwnerID(ctx), id)
}

// SavePersona stores p. Server-owned fields (creation time, publication
// state, slug and system prompt) never come from the client.
func (s *personaServiceImpl) SavePersona(ctx context.Context, p *models.Persona) (*models.Persona, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: persona is required", database.ErrInvalidInput)
	}
	owner := s.OwnerID(ctx)
	now := s.now().UTC()

	saved := *p
	saved.IsPublished = false
	saved.PublishedURL = ""
	saved.PublishedAt = nil

	var existing *models.Persona
	if saved.ID == "" {
		saved.ID = s.newID()
	} else {
		prev, err := s.db.GetPersona(ctx, owner, saved.ID)
		switch {
		case err == nil:
			existing = prev
		case !errors.Is(err, database.ErrNotFound):
			return nil, err
		}
	}

	if existing != nil {
		saved.CreatedAt = existing.CreatedAt
		saved.IsPublished = existing.IsPublished
		saved.PublishedURL = existing.PublishedURL
		saved.PublishedAt = existing.PublishedAt
	}
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = now
	}
	saved.UpdatedAt = now
	saved.Slug = compiler.Slug(saved.Name)
	saved.SystemPrompt = s.refine(ctx, compiler.Documentation(&saved))

	if saved.Slug == "" && saved.IsPublished {
		saved.Slug = saved.ID
	}
	if existing != nil && existing.IsPublished && existing.Slug != saved.Slug {
		if err := s.movePersonality(ctx, owner, existing.Slug, &saved); err != nil {
			return nil, err
		}
	}

	if err := s.db.SavePersona(ctx, owner, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// movePersonality re-points a published persona whose slug changed.
func (s *personaServiceImpl) movePersonality(ctx context.Context, owner, oldSlug string, p *models.Persona) error {
	username := auth.UsernameFromEmail(owner)
	ref := database.PersonalityRef{UserID: owner, PersonaID: p.ID}
	if err := s.claimPersonality(ctx, username, p.Slug, ref); err != nil {
		return err
	}
	if err := s.releasePersonality(ctx, username, oldSlug, ref); err != nil {
		return err
	}
	p.PublishedURL = personalityURL(username, p.Slug)
	return nil
}

func (s *personaServiceImpl) DeletePersona(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", database.ErrInvalidInput)
	}
	owner := s.OwnerID(ctx)
	if p, err := s.db.GetPersona(ctx, owner, id); err == nil && p.IsPublished {
		ref := database.PersonalityRef{UserID: owner, PersonaID: p.ID}
		if err := s.releasePersonality(ctx, auth.UsernameFromEmail(owner), p.Slug, ref); err != nil {
			return err
		}
	}
	return s.db.DeletePersona(ctx, owner, id)
}

// GeneratePrompt compiles the stored persona, refines it and records the
// result. The history record is removed again when the persona cannot be
// updated.
func (s *personaServiceImpl) GeneratePrompt(ctx context.Context, id string, mode CompileMode) (*models.GeneratedPrompt, *models.Persona, error) {
	owner := s.OwnerID(ctx)
	p, err := s.db.GetPersona(ctx, owner, id)
	if err != nil {
		return nil, nil, err
	}
	text, err := s.Compile(p, mode)
	if err != nil {
		return nil, nil, err
	}
	text = s.refine(ctx, text)

	now := s.now().UTC()
	record := &models.GeneratedPrompt{
		ID:              s.newID(),
		TemplateID:      p.ID,
		ConfigName:      p.Name,
		PromptText:      text,
		Variation:       1,
		TotalVariations: 1,
		Timestamp:       now,
	}
	if err := s.db.AddPrompt(ctx, owner, record); err != nil {
		return nil, nil, err
	}

	p.SystemPrompt = text
	p.UpdatedAt = now
	if err := s.db.SavePersona(ctx, owner, p); err != nil {
		if _, rbErr := s.db.DeletePrompts(ctx, owner, record.ID); rbErr != nil {
			logging.Log(ctx, logging.ServiceLog, zapcore.ErrorLevel, "failed to roll back generated prompt",
				zap.String("prompt_id", record.ID), zap.Error(rbErr))
		}
		return nil, nil, err
	}
	logging.Log(ctx, logging.ServiceLog, zapcore.InfoLevel, "Generated prompt",
		zap.String("persona_id", p.ID), zap.String("prompt_id", record.ID), zap.String("mode", string(mode)))
	return record, p, nil
}

func (s *personaServiceImpl) ListPrompts(ctx context.Context) ([]*models.GeneratedPrompt, error) {
	return s.db.ListPrompts(ctx, s.OwnerID(ctx))
}

func (s *personaServiceImpl) AddPrompt(ctx context.Context, p *models.GeneratedPrompt) (*models.GeneratedPrompt, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: prompt is required", database.ErrInvalidInput)
	}
	record := *p
	if record.ID == "" {
		record.ID = s.newID()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = s.now().UTC()
	}
	if err := s.db.AddPrompt(ctx, s.OwnerID(ctx), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *personaServiceImpl) DeletePrompts(ctx context.Context, ids ...string) (int, error) {
	var valid []string
	for _, id := range ids {
		if strings.TrimSpace(id) != "" {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return 0, fmt.Errorf("%w: at least one id is required", database.ErrInvalidInput)
	}
	return s.db.DeletePrompts(ctx, s.OwnerID(ctx), valid...)
}

func (s *personaServiceImpl) Compile(p *models.Persona, mode CompileMode) (string, error) {
	switch mode {
	case ModeDocumentation, "":
		return compiler.Documentation(p), nil
	case ModeInstructions:
		return compiler.Instructions(p), nil
	}
	return "", fmt.Errorf("%w: unknown compile mode %q", database.ErrInvalidInput, mode)
}

func (s *personaServiceImpl) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

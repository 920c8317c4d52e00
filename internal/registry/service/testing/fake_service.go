// Package testing provides test utilities for the persona service.
package testing

import (
	"context"
	"sync"

	"github.com/promptdial/promptdial/internal/registry/compiler"
	"github.com/promptdial/promptdial/internal/registry/service"
	"github.com/promptdial/promptdial/pkg/models"
	"github.com/promptdial/promptdial/pkg/registry/auth"
	"github.com/promptdial/promptdial/pkg/registry/database"
)

// FakeService is a configurable fake implementation of service.PersonaService for testing.
// It supports both data-driven setup via struct fields and function hooks for custom behavior.
type FakeService struct {
	mu sync.Mutex

	// Data fields for simple data-driven tests
	Owner         string
	Personas      []*models.Persona
	Prompts       []*models.GeneratedPrompt
	Shared        map[string]string
	Published     map[string]*models.PublishedPrompt
	Personalities map[string]*models.PublicPersonality // keyed by "username/slug"
	Samples       []models.Sample
	AvatarURL     string
	TestReply     string

	// Call records for verification
	PublishRequests []service.PublishRequest
	DeletedPrompts  []string

	// Function hooks for custom behavior (take precedence over data fields when set)
	ListPersonasFn            func(ctx context.Context) ([]*models.Persona, error)
	GetPersonaFn              func(ctx context.Context, id string) (*models.Persona, error)
	SavePersonaFn             func(ctx context.Context, p *models.Persona) (*models.Persona, error)
	DeletePersonaFn           func(ctx context.Context, id string) error
	GeneratePromptFn          func(ctx context.Context, id string, mode service.CompileMode) (*models.GeneratedPrompt, *models.Persona, error)
	ListPromptsFn             func(ctx context.Context) ([]*models.GeneratedPrompt, error)
	AddPromptFn               func(ctx context.Context, p *models.GeneratedPrompt) (*models.GeneratedPrompt, error)
	DeletePromptsFn           func(ctx context.Context, ids ...string) (int, error)
	PublishFn                 func(ctx context.Context, req service.PublishRequest) (*service.PublishResult, error)
	SetPersonalityPublishedFn func(ctx context.Context, id string, publish bool) (*models.Persona, error)
	GenerateSamplesFn         func(ctx context.Context, p *models.Persona, category string) ([]models.Sample, error)
	GenerateAvatarFn          func(ctx context.Context, p *models.Persona) (string, error)
	TestPersonaFn             func(ctx context.Context, p *models.Persona, message string) (string, error)
	PingFn                    func(ctx context.Context) error
}

var _ service.PersonaService = (*FakeService)(nil)

// NewFakeService creates a new FakeService with initialized maps.
func NewFakeService() *FakeService {
	return &FakeService{
		Owner:         service.DefaultFallbackUserID,
		Shared:        make(map[string]string),
		Published:     make(map[string]*models.PublishedPrompt),
		Personalities: make(map[string]*models.PublicPersonality),
	}
}

func (f *FakeService) OwnerID(ctx context.Context) string {
	if s, ok := auth.AuthSessionFrom(ctx); ok {
		return s.Email
	}
	return f.Owner
}

// Persona methods

func (f *FakeService) ListPersonas(ctx context.Context) ([]*models.Persona, error) {
	if f.ListPersonasFn != nil {
		return f.ListPersonasFn(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Personas, nil
}

func (f *FakeService) GetPersona(ctx context.Context, id string) (*models.Persona, error) {
	if f.GetPersonaFn != nil {
		return f.GetPersonaFn(ctx, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.Personas {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *FakeService) SavePersona(ctx context.Context, p *models.Persona) (*models.Persona, error) {
	if f.SavePersonaFn != nil {
		return f.SavePersonaFn(ctx, p)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	saved := *p
	if saved.ID == "" {
		saved.ID = "generated-id"
	}
	saved.Slug = compiler.Slug(saved.Name)
	saved.SystemPrompt = compiler.Documentation(&saved)
	for i, existing := range f.Personas {
		if existing.ID == saved.ID {
			f.Personas[i] = &saved
			return &saved, nil
		}
	}
	f.Personas = append(f.Personas, &saved)
	return &saved, nil
}

func (f *FakeService) DeletePersona(ctx context.Context, id string) error {
	if f.DeletePersonaFn != nil {
		return f.DeletePersonaFn(ctx, id)
	}
	if id == "" {
		return database.ErrInvalidInput
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.Personas {
		if p.ID == id {
			f.Personas = append(f.Personas[:i], f.Personas[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

func (f *FakeService) GeneratePrompt(ctx context.Context, id string, mode service.CompileMode) (*models.GeneratedPrompt, *models.Persona, error) {
	if f.GeneratePromptFn != nil {
		return f.GeneratePromptFn(ctx, id, mode)
	}
	p, err := f.GetPersona(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	text, err := f.Compile(p, mode)
	if err != nil {
		return nil, nil, err
	}
	record := &models.GeneratedPrompt{ID: "prompt-" + id, TemplateID: id, ConfigName: p.Name, PromptText: text, Variation: 1, TotalVariations: 1}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Prompts = append([]*models.GeneratedPrompt{record}, f.Prompts...)
	return record, p, nil
}

// Prompt history methods

func (f *FakeService) ListPrompts(ctx context.Context) ([]*models.GeneratedPrompt, error) {
	if f.ListPromptsFn != nil {
		return f.ListPromptsFn(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Prompts, nil
}

func (f *FakeService) AddPrompt(ctx context.Context, p *models.GeneratedPrompt) (*models.GeneratedPrompt, error) {
	if f.AddPromptFn != nil {
		return f.AddPromptFn(ctx, p)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Prompts = append([]*models.GeneratedPrompt{p}, f.Prompts...)
	return p, nil
}

func (f *FakeService) DeletePrompts(ctx context.Context, ids ...string) (int, error) {
	if f.DeletePromptsFn != nil {
		return f.DeletePromptsFn(ctx, ids...)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeletedPrompts = append(f.DeletedPrompts, ids...)
	return len(ids), nil
}

// Publishing methods

func (f *FakeService) Publish(ctx context.Context, req service.PublishRequest) (*service.PublishResult, error) {
	if f.PublishFn != nil {
		return f.PublishFn(ctx, req)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PublishRequests = append(f.PublishRequests, req)
	id := "abc123def456"[:req.Retention.IDLength]
	if req.Retention.JSON {
		f.Published[id] = &models.PublishedPrompt{PromptID: req.PromptID, PromptText: req.PromptText, ConfigName: req.ConfigName}
	} else {
		f.Shared[id] = req.PromptText
	}
	return &service.PublishResult{ID: id, URL: req.Retention.URLPrefix + id}, nil
}

func (f *FakeService) GetPublished(ctx context.Context, id string) (*models.PublishedPrompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.Published[id]; ok {
		return p, nil
	}
	return nil, database.ErrNotFound
}

func (f *FakeService) GetShared(ctx context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if text, ok := f.Shared[id]; ok {
		return text, nil
	}
	return "", database.ErrNotFound
}

// Personality methods

func (f *FakeService) SetPersonalityPublished(ctx context.Context, id string, publish bool) (*models.Persona, error) {
	if f.SetPersonalityPublishedFn != nil {
		return f.SetPersonalityPublishedFn(ctx, id, publish)
	}
	if _, ok := auth.AuthSessionFrom(ctx); !ok {
		return nil, auth.ErrUnauthorized
	}
	p, err := f.GetPersona(ctx, id)
	if err != nil {
		return nil, err
	}
	p.IsPublished = publish
	return p, nil
}

func (f *FakeService) ListPersonalities(ctx context.Context, username string) ([]models.PublicPersonality, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.PublicPersonality
	for _, p := range f.Personalities {
		if p.Username == username {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *FakeService) GetPersonality(ctx context.Context, username, slug string) (*models.PublicPersonality, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.Personalities[username+"/"+slug]; ok {
		return p, nil
	}
	return nil, database.ErrNotFound
}

// Generation methods

func (f *FakeService) Compile(p *models.Persona, mode service.CompileMode) (string, error) {
	switch mode {
	case service.ModeDocumentation, "":
		return compiler.Documentation(p), nil
	case service.ModeInstructions:
		return compiler.Instructions(p), nil
	}
	return "", database.ErrInvalidInput
}

func (f *FakeService) GenerateSamples(ctx context.Context, p *models.Persona, category string) ([]models.Sample, error) {
	if f.GenerateSamplesFn != nil {
		return f.GenerateSamplesFn(ctx, p, category)
	}
	return f.Samples, nil
}

func (f *FakeService) GenerateAvatar(ctx context.Context, p *models.Persona) (string, error) {
	if f.GenerateAvatarFn != nil {
		return f.GenerateAvatarFn(ctx, p)
	}
	return f.AvatarURL, nil
}

func (f *FakeService) TestPersona(ctx context.Context, p *models.Persona, message string) (string, error) {
	if f.TestPersonaFn != nil {
		return f.TestPersonaFn(ctx, p, message)
	}
	return f.TestReply, nil
}

func (f *FakeService) Ping(ctx context.Context) error {
	if f.PingFn != nil {
		return f.PingFn(ctx)
	}
	return nil
}

package service

import (
	"context"
	"time"

	"github.com/promptdial/promptdial/pkg/models"
	"github.com/promptdial/promptdial/pkg/registry/database"
)

// CompileMode selects the compiler output.
type CompileMode string

const (
	// ModeDocumentation renders the human-readable configuration document.
	ModeDocumentation CompileMode = "documentation"
	// ModeInstructions renders the imperative system prompt.
	ModeInstructions CompileMode = "instructions"
)

// PublishRequest is the input to Publish. PromptID and ConfigName are only
// kept by page retention.
type PublishRequest struct {
	Retention  Retention
	PromptID   string
	PromptText string
	ConfigName string
}

// PublishResult identifies a stored snapshot.
type PublishResult struct {
	ID  string
	URL string
}

// PersonaService defines the operations behind the HTTP and MCP surfaces.
// Calls are scoped to the session user in ctx, or the configured fallback
// user when there is none.
type PersonaService interface {
	// OwnerID returns the user id that scopes records for ctx.
	OwnerID(ctx context.Context) string

	// ListPersonas returns the caller's personas, seeding the examples when there are none.
	ListPersonas(ctx context.Context) ([]*models.Persona, error)
	// GetPersona returns one persona by id.
	GetPersona(ctx context.Context, id string) (*models.Persona, error)
	// SavePersona creates or replaces a persona. Slug and system prompt are recomputed.
	SavePersona(ctx context.Context, p *models.Persona) (*models.Persona, error)
	// DeletePersona removes a persona and unpublishes it.
	DeletePersona(ctx context.Context, id string) error
	// GeneratePrompt compiles and refines a persona, stores the result as its
	// system prompt and appends it to the history.
	GeneratePrompt(ctx context.Context, id string, mode CompileMode) (*models.GeneratedPrompt, *models.Persona, error)

	// ListPrompts returns the caller's history, newest first.
	ListPrompts(ctx context.Context) ([]*models.GeneratedPrompt, error)
	// AddPrompt stores a client-built history record as-is.
	AddPrompt(ctx context.Context, p *models.GeneratedPrompt) (*models.GeneratedPrompt, error)
	// DeletePrompts removes history records and reports how many existed.
	DeletePrompts(ctx context.Context, ids ...string) (int, error)

	// Publish stores a snapshot under a new random id.
	Publish(ctx context.Context, req PublishRequest) (*PublishResult, error)
	// GetPublished returns a page snapshot.
	GetPublished(ctx context.Context, id string) (*models.PublishedPrompt, error)
	// GetShared returns the raw text of a share snapshot.
	GetShared(ctx context.Context, id string) (string, error)

	// SetPersonalityPublished publishes or withdraws a persona under the
	// session user's public handle. Requires a session.
	SetPersonalityPublished(ctx context.Context, id string, publish bool) (*models.Persona, error)
	// ListPersonalities returns the published personas of username.
	ListPersonalities(ctx context.Context, username string) ([]models.PublicPersonality, error)
	// GetPersonality returns one published persona.
	GetPersonality(ctx context.Context, username, slug string) (*models.PublicPersonality, error)

	// Compile renders p without persisting anything.
	Compile(p *models.Persona, mode CompileMode) (string, error)
	// GenerateSamples runs the scenario prompts of category against p.
	GenerateSamples(ctx context.Context, p *models.Persona, category string) ([]models.Sample, error)
	// GenerateAvatar creates an avatar image for p and returns its durable URL.
	GenerateAvatar(ctx context.Context, p *models.Persona) (string, error)
	// TestPersona answers message in the voice of p.
	TestPersona(ctx context.Context, p *models.Persona, message string) (string, error)

	// Ping checks the persistence backend.
	Ping(ctx context.Context) error
}

// Retention describes how a published snapshot is stored and addressed.
type Retention struct {
	Kind      database.SnapshotKind
	TTL       time.Duration
	IDLength  int
	URLPrefix string
	// JSON stores a models.PublishedPrompt envelope instead of raw text.
	JSON bool
}

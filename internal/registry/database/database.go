// Package database maps personas, prompt history, published snapshots and
// public personalities onto a key-value store.
package database

import (
	"context"
	"errors"
	"time"

	"github.com/promptdial/promptdial/pkg/models"
)

// Common database errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrDatabase     = errors.New("database error")
	ErrConflict     = errors.New("conflict")
)

// SnapshotKind selects the keyspace a published snapshot lives in.
type SnapshotKind string

const (
	// SnapshotPage holds JSON envelopes rendered by the public prompt page.
	SnapshotPage SnapshotKind = "published"
	// SnapshotShare holds raw prompt text served as text/plain.
	SnapshotShare SnapshotKind = "share"
)

// PersonalityRef points a public username/slug pair at a stored persona.
type PersonalityRef struct {
	UserID    string `json:"userId"`
	PersonaID string `json:"personaId"`
}

// Database is the persistence contract used by the service layer. Writes that
// touch a record and its index are two separate store calls and are not atomic.
type Database interface {
	// ListPersonas returns every persona indexed for userID, oldest first.
	ListPersonas(ctx context.Context, userID string) ([]*models.Persona, error)
	GetPersona(ctx context.Context, userID, id string) (*models.Persona, error)
	// SavePersona writes the record and then adds it to the user's index.
	SavePersona(ctx context.Context, userID string, persona *models.Persona) error
	// DeletePersona removes the record and its index entry. ErrNotFound when neither existed.
	DeletePersona(ctx context.Context, userID, id string) error

	// ListPrompts returns the user's history, newest first.
	ListPrompts(ctx context.Context, userID string) ([]*models.GeneratedPrompt, error)
	// AddPrompt pushes a record, replacing any entry with the same id, and trims the history to models.MaxGeneratedPrompts.
	AddPrompt(ctx context.Context, userID string, prompt *models.GeneratedPrompt) error
	// DeletePrompts removes the given records and reports how many existed.
	DeletePrompts(ctx context.Context, userID string, ids ...string) (int, error)

	// PutSnapshot stores body under id. A zero ttl keeps it forever.
	PutSnapshot(ctx context.Context, kind SnapshotKind, id, body string, ttl time.Duration) error
	GetSnapshot(ctx context.Context, kind SnapshotKind, id string) (string, error)

	SetPersonality(ctx context.Context, username, slug string, ref PersonalityRef) error
	RemovePersonality(ctx context.Context, username, slug string) error
	GetPersonality(ctx context.Context, username, slug string) (PersonalityRef, error)
	// ListPersonalities returns the published slugs for username, sorted.
	ListPersonalities(ctx context.Context, username string) ([]string, error)

	Ping(ctx context.Context) error
	Close() error
}

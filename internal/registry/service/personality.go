package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/promptdial/promptdial/internal/registry/logging"
	"github.com/promptdial/promptdial/pkg/models"
	"github.com/promptdial/promptdial/pkg/registry/auth"
	"github.com/promptdial/promptdial/pkg/registry/database"
)

const resourceTypePersonality = "personality"

func personalityURL(username, slug string) string {
	return "/personalities/" + username + "/" + slug
}

// SetPersonalityPublished publishes or withdraws the caller's persona. The
// pointer is written before the persona record, and rolled back when the
// record cannot be saved, so a failed publish leaves it unpublished.
func (s *personaServiceImpl) SetPersonalityPublished(ctx context.Context, id string, publish bool) (*models.Persona, error) {
	if err := s.authz.Check(ctx, auth.PermissionActionPublish, auth.Resource{Type: resourceTypePersonality, Name: id}); err != nil {
		return nil, err
	}
	sess, ok := auth.AuthSessionFrom(ctx)
	if !ok {
		return nil, auth.ErrUnauthorized
	}
	owner := strings.ToLower(sess.Email)
	username := sess.Username()

	p, err := s.db.GetPersona(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if p.Slug == "" {
		p.Slug = p.ID
	}

	ref := database.PersonalityRef{UserID: owner, PersonaID: p.ID}
	if !publish {
		if err := s.releasePersonality(ctx, username, p.Slug, ref); err != nil {
			return nil, err
		}
		p.IsPublished = false
		p.PublishedURL = ""
		p.PublishedAt = nil
		if err := s.db.SavePersona(ctx, owner, p); err != nil {
			return nil, err
		}
		return p, nil
	}

	if strings.TrimSpace(p.SystemPrompt) == "" {
		return nil, fmt.Errorf("%w: persona has no system prompt; generate one before publishing", database.ErrInvalidInput)
	}

	if err := s.claimPersonality(ctx, username, p.Slug, ref); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	p.IsPublished = true
	p.PublishedURL = personalityURL(username, p.Slug)
	p.PublishedAt = &now
	if err := s.db.SavePersona(ctx, owner, p); err != nil {
		if rbErr := s.releasePersonality(ctx, username, p.Slug, ref); rbErr != nil {
			logging.Log(ctx, logging.ServiceLog, zapcore.ErrorLevel, "failed to roll back personality pointer",
				zap.String("slug", p.Slug), zap.Error(rbErr))
		}
		return nil, err
	}
	logging.Log(ctx, logging.ServiceLog, zapcore.InfoLevel, "Published personality",
		zap.String("username", username), zap.String("slug", p.Slug))
	return p, nil
}

// claimPersonality points username/slug at ref. A slug held by another
// persona that is still published under it is a conflict; stale pointers
// are taken over.
func (s *personaServiceImpl) claimPersonality(ctx context.Context, username, slug string, ref database.PersonalityRef) error {
	cur, err := s.db.GetPersonality(ctx, username, slug)
	switch {
	case errors.Is(err, database.ErrNotFound):
	case err != nil:
		return err
	case cur != ref:
		holder, err := s.db.GetPersona(ctx, cur.UserID, cur.PersonaID)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			return err
		}
		if err == nil && holder.IsPublished && holder.Slug == slug {
			return fmt.Errorf("%w: %q is already published at %s; rename this persona first",
				database.ErrConflict, holder.Name, personalityURL(username, slug))
		}
	}
	return s.db.SetPersonality(ctx, username, slug, ref)
}

// releasePersonality removes username/slug only while it still points at ref.
func (s *personaServiceImpl) releasePersonality(ctx context.Context, username, slug string, ref database.PersonalityRef) error {
	cur, err := s.db.GetPersonality(ctx, username, slug)
	if errors.Is(err, database.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if cur != ref {
		return nil
	}
	return s.db.RemovePersonality(ctx, username, slug)
}

func (s *personaServiceImpl) ListPersonalities(ctx context.Context, username string) ([]models.PublicPersonality, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	slugs, err := s.db.ListPersonalities(ctx, username)
	if err != nil {
		return nil, err
	}
	out := make([]models.PublicPersonality, 0, len(slugs))
	for _, slug := range slugs {
		p, err := s.GetPersonality(ctx, username, slug)
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

// GetPersonality resolves a public pointer. Pointers to deleted or
// withdrawn personas read as not found.
func (s *personaServiceImpl) GetPersonality(ctx context.Context, username, slug string) (*models.PublicPersonality, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	ref, err := s.db.GetPersonality(ctx, username, slug)
	if err != nil {
		return nil, err
	}
	p, err := s.db.GetPersona(ctx, ref.UserID, ref.PersonaID)
	if err != nil {
		return nil, err
	}
	if !p.IsPublished {
		return nil, database.ErrNotFound
	}
	projection := p.Project(username)
	return &projection, nil
}

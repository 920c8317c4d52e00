package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/promptdial/promptdial/pkg/models"
	"github.com/promptdial/promptdial/pkg/registry/database"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

var (
	// PageRetention stores a JSON envelope for the public prompt page for one year.
	PageRetention = Retention{
		Kind:      database.SnapshotPage,
		TTL:       365 * 24 * time.Hour,
		IDLength:  10,
		URLPrefix: "/p/",
		JSON:      true,
	}
	// ShareRetention stores raw prompt text with no expiry.
	ShareRetention = Retention{
		Kind:      database.SnapshotShare,
		IDLength:  12,
		URLPrefix: "/v0/share/",
	}
)

func (s *personaServiceImpl) Publish(ctx context.Context, req PublishRequest) (*PublishResult, error) {
	if strings.TrimSpace(req.PromptText) == "" {
		return nil, fmt.Errorf("%w: promptText is required", database.ErrInvalidInput)
	}
	r := req.Retention
	if r.Kind == "" || r.IDLength <= 0 {
		return nil, fmt.Errorf("%w: retention is required", database.ErrInvalidInput)
	}

	id, err := gonanoid.Generate(idAlphabet, r.IDLength)
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}

	body := req.PromptText
	if r.JSON {
		raw, err := json.Marshal(models.PublishedPrompt{
			PromptID:    req.PromptID,
			PromptText:  req.PromptText,
			ConfigName:  req.ConfigName,
			PublishedAt: s.now().UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("encode snapshot: %w", err)
		}
		body = string(raw)
	}

	if err := s.db.PutSnapshot(ctx, r.Kind, id, body, r.TTL); err != nil {
		return nil, err
	}
	return &PublishResult{ID: id, URL: r.URLPrefix + id}, nil
}

func (s *personaServiceImpl) GetPublished(ctx context.Context, id string) (*models.PublishedPrompt, error) {
	body, err := s.db.GetSnapshot(ctx, database.SnapshotPage, id)
	if err != nil {
		return nil, err
	}
	var out models.PublishedPrompt
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot %s: %v", database.ErrDatabase, id, err)
	}
	return &out, nil
}

func (s *personaServiceImpl) GetShared(ctx context.Context, id string) (string, error) {
	return s.db.GetSnapshot(ctx, database.SnapshotShare, id)
}

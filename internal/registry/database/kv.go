package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/promptdial/promptdial/internal/registry/kv"
	"github.com/promptdial/promptdial/pkg/models"
)

const dataField = "data"

func personaIndexKey(userID string) string { return "user:" + userID + ":configs" }

func personaKey(userID, id string) string { return "config:" + userID + ":" + id }

func promptIndexKey(userID string) string { return "user:" + userID + ":prompts" }

func promptKey(userID, id string) string { return "prompt:" + userID + ":" + id }

func snapshotKey(kind SnapshotKind, id string) string { return string(kind) + ":" + id }

func personalityKey(username, slug string) string { return "personality:" + username + ":" + slug }

func personalityIndexKey(username string) string { return "user:" + username + ":personalities" }

// KVDatabase implements Database over a kv.Store.
type KVDatabase struct {
	store kv.Store
}

var _ Database = (*KVDatabase)(nil)

// NewKVDatabase wraps store.
func NewKVDatabase(store kv.Store) *KVDatabase {
	return &KVDatabase{store: store}
}

func storeErr(op string, err error) error {
	if errors.Is(err, kv.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %s: %v", ErrDatabase, op, err)
}

func requireIDs(values ...string) error {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return ErrInvalidInput
		}
	}
	return nil
}

func (db *KVDatabase) ListPersonas(ctx context.Context, userID string) ([]*models.Persona, error) {
	if err := requireIDs(userID); err != nil {
		return nil, err
	}
	ids, err := db.store.SMembers(ctx, personaIndexKey(userID))
	if err != nil {
		return nil, storeErr("list personas", err)
	}

	personas := make([]*models.Persona, 0, len(ids))
	for _, id := range ids {
		p, err := db.GetPersona(ctx, userID, id)
		if errors.Is(err, ErrNotFound) {
			// Index entry without a record: left behind by an interrupted write.
			continue
		}
		if err != nil {
			return nil, err
		}
		personas = append(personas, p)
	}

	slices.SortStableFunc(personas, func(a, b *models.Persona) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return personas, nil
}

func (db *KVDatabase) GetPersona(ctx context.Context, userID, id string) (*models.Persona, error) {
	if err := requireIDs(userID, id); err != nil {
		return nil, err
	}
	raw, err := db.store.HGet(ctx, personaKey(userID, id), dataField)
	if err != nil {
		return nil, storeErr("get persona", err)
	}
	var p models.Persona
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: decode persona %s: %v", ErrDatabase, id, err)
	}
	return &p, nil
}

func (db *KVDatabase) SavePersona(ctx context.Context, userID string, persona *models.Persona) error {
	if persona == nil {
		return ErrInvalidInput
	}
	if err := requireIDs(userID, persona.ID); err != nil {
		return err
	}
	raw, err := json.Marshal(persona)
	if err != nil {
		return fmt.Errorf("%w: encode persona: %v", ErrDatabase, err)
	}
	if err := db.store.HSet(ctx, personaKey(userID, persona.ID), dataField, string(raw)); err != nil {
		return storeErr("save persona", err)
	}
	if err := db.store.SAdd(ctx, personaIndexKey(userID), persona.ID); err != nil {
		return storeErr("index persona", err)
	}
	return nil
}

func (db *KVDatabase) DeletePersona(ctx context.Context, userID, id string) error {
	if err := requireIDs(userID, id); err != nil {
		return err
	}
	n, err := db.store.Del(ctx, personaKey(userID, id))
	if err != nil {
		return storeErr("delete persona", err)
	}
	members, err := db.store.SMembers(ctx, personaIndexKey(userID))
	if err != nil {
		return storeErr("list personas", err)
	}
	indexed := slices.Contains(members, id)
	if indexed {
		if err := db.store.SRem(ctx, personaIndexKey(userID), id); err != nil {
			return storeErr("unindex persona", err)
		}
	}
	if n == 0 && !indexed {
		return ErrNotFound
	}
	return nil
}

func (db *KVDatabase) ListPrompts(ctx context.Context, userID string) ([]*models.GeneratedPrompt, error) {
	if err := requireIDs(userID); err != nil {
		return nil, err
	}
	ids, err := db.store.LRange(ctx, promptIndexKey(userID), 0, models.MaxGeneratedPrompts-1)
	if err != nil {
		return nil, storeErr("list prompts", err)
	}

	prompts := make([]*models.GeneratedPrompt, 0, len(ids))
	for _, id := range ids {
		raw, err := db.store.HGet(ctx, promptKey(userID, id), dataField)
		if errors.Is(err, kv.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, storeErr("get prompt", err)
		}
		var p models.GeneratedPrompt
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("%w: decode prompt %s: %v", ErrDatabase, id, err)
		}
		prompts = append(prompts, &p)
	}
	return prompts, nil
}

func (db *KVDatabase) AddPrompt(ctx context.Context, userID string, prompt *models.GeneratedPrompt) error {
	if prompt == nil {
		return ErrInvalidInput
	}
	if err := requireIDs(userID, prompt.ID); err != nil {
		return err
	}
	raw, err := json.Marshal(prompt)
	if err != nil {
		return fmt.Errorf("%w: encode prompt: %v", ErrDatabase, err)
	}
	if err := db.store.HSet(ctx, promptKey(userID, prompt.ID), dataField, string(raw)); err != nil {
		return storeErr("save prompt", err)
	}

	// A re-added id moves to the front instead of appearing twice.
	index := promptIndexKey(userID)
	if _, err := db.store.LRem(ctx, index, 0, prompt.ID); err != nil {
		return storeErr("unindex prompt", err)
	}
	if err := db.store.LPush(ctx, index, prompt.ID); err != nil {
		return storeErr("index prompt", err)
	}

	// Records that fall off the end of the history are dropped with it.
	all, err := db.store.LRange(ctx, index, 0, -1)
	if err != nil {
		return storeErr("list prompts", err)
	}
	if err := db.store.LTrim(ctx, index, 0, models.MaxGeneratedPrompts-1); err != nil {
		return storeErr("trim prompts", err)
	}
	if len(all) <= models.MaxGeneratedPrompts {
		return nil
	}
	retained := make(map[string]bool, models.MaxGeneratedPrompts)
	for _, id := range all[:models.MaxGeneratedPrompts] {
		retained[id] = true
	}
	for _, id := range all[models.MaxGeneratedPrompts:] {
		if retained[id] {
			continue
		}
		if _, err := db.store.Del(ctx, promptKey(userID, id)); err != nil {
			return storeErr("delete evicted prompt", err)
		}
	}
	return nil
}

func (db *KVDatabase) DeletePrompts(ctx context.Context, userID string, ids ...string) (int, error) {
	if err := requireIDs(userID); err != nil {
		return 0, err
	}
	deleted := 0
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			continue
		}
		n, err := db.store.Del(ctx, promptKey(userID, id))
		if err != nil {
			return deleted, storeErr("delete prompt", err)
		}
		removed, err := db.store.LRem(ctx, promptIndexKey(userID), 0, id)
		if err != nil {
			return deleted, storeErr("unindex prompt", err)
		}
		if n > 0 || removed > 0 {
			deleted++
		}
	}
	return deleted, nil
}

func (db *KVDatabase) PutSnapshot(ctx context.Context, kind SnapshotKind, id, body string, ttl time.Duration) error {
	if err := requireIDs(string(kind), id); err != nil {
		return err
	}
	if err := db.store.Set(ctx, snapshotKey(kind, id), body, ttl); err != nil {
		return storeErr("put snapshot", err)
	}
	return nil
}

func (db *KVDatabase) GetSnapshot(ctx context.Context, kind SnapshotKind, id string) (string, error) {
	if err := requireIDs(string(kind), id); err != nil {
		return "", err
	}
	body, err := db.store.Get(ctx, snapshotKey(kind, id))
	if err != nil {
		return "", storeErr("get snapshot", err)
	}
	return body, nil
}

func (db *KVDatabase) SetPersonality(ctx context.Context, username, slug string, ref PersonalityRef) error {
	if err := requireIDs(username, slug, ref.UserID, ref.PersonaID); err != nil {
		return err
	}
	raw, err := json.Marshal(ref)
	if err != nil {
		return fmt.Errorf("%w: encode personality pointer: %v", ErrDatabase, err)
	}
	if err := db.store.Set(ctx, personalityKey(username, slug), string(raw), 0); err != nil {
		return storeErr("set personality", err)
	}
	if err := db.store.SAdd(ctx, personalityIndexKey(username), slug); err != nil {
		return storeErr("index personality", err)
	}
	return nil
}

func (db *KVDatabase) RemovePersonality(ctx context.Context, username, slug string) error {
	if err := requireIDs(username, slug); err != nil {
		return err
	}
	if _, err := db.store.Del(ctx, personalityKey(username, slug)); err != nil {
		return storeErr("remove personality", err)
	}
	if err := db.store.SRem(ctx, personalityIndexKey(username), slug); err != nil {
		return storeErr("unindex personality", err)
	}
	return nil
}

func (db *KVDatabase) GetPersonality(ctx context.Context, username, slug string) (PersonalityRef, error) {
	if err := requireIDs(username, slug); err != nil {
		return PersonalityRef{}, err
	}
	raw, err := db.store.Get(ctx, personalityKey(username, slug))
	if err != nil {
		return PersonalityRef{}, storeErr("get personality", err)
	}
	var ref PersonalityRef
	if err := json.Unmarshal([]byte(raw), &ref); err != nil || ref.UserID == "" || ref.PersonaID == "" {
		return PersonalityRef{}, fmt.Errorf("%w: malformed personality pointer %q", ErrDatabase, raw)
	}
	return ref, nil
}

func (db *KVDatabase) ListPersonalities(ctx context.Context, username string) ([]string, error) {
	if err := requireIDs(username); err != nil {
		return nil, err
	}
	slugs, err := db.store.SMembers(ctx, personalityIndexKey(username))
	if err != nil {
		return nil, storeErr("list personalities", err)
	}
	return slugs, nil
}

func (db *KVDatabase) Ping(ctx context.Context) error {
	if err := db.store.Ping(ctx); err != nil {
		return fmt.Errorf("%w: ping: %v", ErrDatabase, err)
	}
	return nil
}

func (db *KVDatabase) Close() error {
	return db.store.Close()
}

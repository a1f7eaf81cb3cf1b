// internal/assessment/draft_store.go
package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"readiness-workers/internal/scoring"

	"github.com/redis/go-redis/v9"
)

const draftKeyPrefix = "assessment:draft:"

// DraftStore keeps wizard drafts in Redis as JSON with a sliding TTL.
type DraftStore struct {
	client  *redis.Client
	ttl     time.Duration
	catalog *scoring.Catalog
}

func NewDraftStore(client *redis.Client, ttl time.Duration, catalog *scoring.Catalog) *DraftStore {
	return &DraftStore{client: client, ttl: ttl, catalog: catalog}
}

func draftKey(id string) string {
	return draftKeyPrefix + id
}

// New creates an empty draft bound to the store's catalog. It is not saved.
func (s *DraftStore) New() *Draft {
	return NewDraft(s.catalog)
}

// Save writes the draft and resets its expiry.
func (s *DraftStore) Save(ctx context.Context, d *Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft %s: %w", d.ID, err)
	}
	if err := s.client.Set(ctx, draftKey(d.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft %s: %w", d.ID, err)
	}
	return nil
}

func (s *DraftStore) Load(ctx context.Context, id string) (*Draft, error) {
	data, err := s.client.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load draft %s: %w", id, err)
	}

	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", id, err)
	}
	d.attach(s.catalog)
	return &d, nil
}

func (s *DraftStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, draftKey(id)).Err(); err != nil {
		return fmt.Errorf("delete draft %s: %w", id, err)
	}
	return nil
}

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long a delivered message id is remembered.
// Providers stop redelivering well before this window closes.
const DefaultTTL = 24 * time.Hour

// ProcessedStore remembers provider message ids we already handled, so
// webhook redeliveries do not double-route a conversation turn.
type ProcessedStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewProcessedStore(client *redis.Client, ttl time.Duration) *ProcessedStore {
	if client == nil {
		panic("events: redis client required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ProcessedStore{redis: client, ttl: ttl}
}

func key(provider, eventID string) string {
	return "processed:" + provider + ":" + eventID
}

// MarkProcessed claims an event id for the provider. Returns false when
// the id was already claimed; the caller must drop the event.
func (s *ProcessedStore) MarkProcessed(ctx context.Context, provider, eventID string) (bool, error) {
	ok, err := s.redis.SetNX(ctx, key(provider, eventID), "1", s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("events: mark processed: %w", err)
	}
	return ok, nil
}

// AlreadyProcessed reports whether an event id was claimed earlier,
// without claiming it.
func (s *ProcessedStore) AlreadyProcessed(ctx context.Context, provider, eventID string) (bool, error) {
	n, err := s.redis.Exists(ctx, key(provider, eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("events: check processed: %w", err)
	}
	return n > 0, nil
}

package rediscache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"shipgate/internal/rules"
)

const (
	rulesKey         = "rules:active"
	constraintPrefix = "rules:constraints:"
)

// Store is a read-through cache in front of another rules.Store. Cache
// failures are never fatal: on any Redis error the call falls through to the
// inner store and the result is returned uncached.
type Store struct {
	inner  rules.Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New wraps a rule store with a Redis cache.
func New(inner rules.Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Store {
	return &Store{inner: inner, client: client, ttl: ttl, logger: logger}
}

// ActiveRules serves the cached snapshot when present, otherwise loads from
// the inner store and caches the result.
func (s *Store) ActiveRules(ctx context.Context) ([]rules.Rule, error) {
	if data, err := s.client.Get(ctx, rulesKey).Bytes(); err == nil {
		var cached []rules.Rule
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		// Corrupt cache entry: fall through and repopulate.
		s.client.Del(ctx, rulesKey)
	}

	loaded, err := s.inner.ActiveRules(ctx)
	if err != nil {
		return nil, err
	}
	s.cache(ctx, rulesKey, loaded)
	return loaded, nil
}

// ConstraintsByRuleID serves cached constraints when present, otherwise loads
// from the inner store and caches the result.
func (s *Store) ConstraintsByRuleID(ctx context.Context, ruleID string) ([]rules.Constraint, error) {
	key := constraintPrefix + ruleID
	if data, err := s.client.Get(ctx, key).Bytes(); err == nil {
		var cached []rules.Constraint
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		s.client.Del(ctx, key)
	}

	loaded, err := s.inner.ConstraintsByRuleID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	s.cache(ctx, key, loaded)
	return loaded, nil
}

// Invalidate drops cached rule data so the next read hits the inner store.
// Called on explicit rule refresh.
func (s *Store) Invalidate(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, constraintPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		s.client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return s.client.Del(ctx, rulesKey).Err()
}

func (s *Store) cache(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "rule cache write failed", "key", key, "error", err)
	}
}

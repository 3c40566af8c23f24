package nav

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trusthub/trusthub/internal/rbac"
	"github.com/trusthub/trusthub/internal/shared"
)

// Store persists one tab registry per session in Redis, keyed by the
// stable session id carried in the token. Registry state survives token
// reissuance within the session and dies with it.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore constructs a Store. The TTL should match the session token
// lifetime so registries expire with their sessions.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Load fetches the session's registry, returning a fresh empty one when
// none exists yet.
func (s *Store) Load(ctx context.Context, sessionID string, role rbac.Role) (*Registry, error) {
	payload, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return NewRegistry(role), nil
		}
		return nil, fmt.Errorf("nav: load registry: %w", shared.ErrStoreUnavailable)
	}
	var reg Registry
	if err := json.Unmarshal(payload, &reg); err != nil {
		// A corrupt payload is unrecoverable; start over rather than fail
		// every navigation for the rest of the session.
		return NewRegistry(role), nil
	}
	reg.SetRole(role)
	return &reg, nil
}

// Save persists the registry.
func (s *Store) Save(ctx context.Context, sessionID string, reg *Registry) error {
	data, err := json.Marshal(reg)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("nav: save registry: %w", shared.ErrStoreUnavailable)
	}
	return nil
}

// Drop removes the session's registry, used at logout.
func (s *Store) Drop(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("nav: drop registry: %w", shared.ErrStoreUnavailable)
	}
	return nil
}

func (s *Store) key(sessionID string) string {
	return "navtabs:" + sessionID
}

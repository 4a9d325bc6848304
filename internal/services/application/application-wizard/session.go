// internal/services/application/application-wizard/session.go
package applicationwizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/The-Young-Programer/Investor-Zteller/internal/common/database"

	"github.com/google/uuid"
)

const sessionPrefix = "wizard:"

// SessionStore keeps wizard state in redis under wizard:<id>.
type SessionStore struct {
	redis   *database.RedisClient
	ttl     time.Duration
	lockTTL time.Duration
}

func NewSessionStore(redis *database.RedisClient, ttl, lockTTL time.Duration) *SessionStore {
	return &SessionStore{redis: redis, ttl: ttl, lockTTL: lockTTL}
}

func sessionKey(id string) string {
	return sessionPrefix + id
}

func (s *SessionStore) Create(ctx context.Context, state *State) (string, error) {
	id := uuid.NewString()
	if err := s.Save(ctx, id, state); err != nil {
		return "", err
	}
	return id, nil
}

func (s *SessionStore) Load(ctx context.Context, id string) (*State, error) {
	var state State
	err := s.redis.GetJSON(ctx, sessionKey(id), &state)
	if errors.Is(err, database.ErrCacheMiss) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load wizard session: %w", err)
	}
	return &state, nil
}

// Save writes state and refreshes the session TTL.
func (s *SessionStore) Save(ctx context.Context, id string, state *State) error {
	if err := s.redis.SetJSON(ctx, sessionKey(id), state, s.ttl); err != nil {
		return fmt.Errorf("save wizard session: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.redis.Del(ctx, sessionKey(id), lockKey(id))
}

func lockKey(id string) string {
	return sessionKey(id) + ":submit"
}

// Lock guards a session against concurrent submissions.
func (s *SessionStore) Lock(ctx context.Context, id string) error {
	ok, err := s.redis.Client.SetNX(ctx, lockKey(id), "1", s.lockTTL).Result()
	if err != nil {
		return fmt.Errorf("lock wizard session: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrSubmitInProgress, id)
	}
	return nil
}

func (s *SessionStore) Unlock(ctx context.Context, id string) error {
	return s.redis.Del(ctx, lockKey(id))
}

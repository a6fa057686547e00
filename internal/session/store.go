package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rox-tutor/internal/tutor"
)

const keyPrefix = "tutor_session:"

// RedisStore keeps live session state in Redis under a sliding TTL. A session
// that goes quiet simply expires; the next turn starts fresh.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// Load returns the stored state, or (nil, nil) when the session is unknown
// or expired.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (*tutor.State, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	var state tutor.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", sessionID, err)
	}
	return &state, nil
}

// Save writes the state back and renews the TTL.
func (s *RedisStore) Save(ctx context.Context, state *tutor.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", state.SessionID, err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+state.SessionID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", state.SessionID, err)
	}
	return nil
}

// Delete removes a session, for explicit logout or session end.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}

package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists cart sessions. Load returns an empty session for an owner
// with no stored cart.
type Store interface {
	Load(ctx context.Context, owner string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, owner string) error
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Load(ctx context.Context, owner string) (*Session, error) {
	if owner == "" {
		return nil, ErrInvalidOwner
	}

	data, err := r.client.Get(ctx, sessionKey(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewSession(owner), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	if s.Lines == nil {
		s.Lines = []Line{}
	}
	s.Owner = owner
	return &s, nil
}

// Save writes the session and restarts its TTL.
func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	if s.Owner == "" {
		return ErrInvalidOwner
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(s.Owner), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, owner string) error {
	if err := r.client.Del(ctx, sessionKey(owner)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func sessionKey(owner string) string {
	return "cart:" + owner
}

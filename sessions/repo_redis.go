package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/jrsteele09/bunai/internal/errors"
	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "bunai:session:"

// RedisRepo stores sessions in Redis and lets key TTLs handle expiry.
type RedisRepo struct {
	client redis.UniversalClient
	prefix string
}

var _ Repo = (*RedisRepo)(nil)

// NewRedisRepo creates a Redis-backed repository. An empty prefix selects the default.
func NewRedisRepo(client redis.UniversalClient, prefix string) *RedisRepo {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisRepo{client: client, prefix: prefix}
}

func (r *RedisRepo) Put(ctx context.Context, id string, session Session, ttl time.Duration) error {
	if id == "" {
		return errors.New("session ID cannot be empty")
	}
	if ttl <= 0 {
		return fmt.Errorf("%w: non-positive ttl", apperrors.ErrSessionExpired)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.client.Set(ctx, r.prefix+id, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisRepo) Get(ctx context.Context, id string) (Session, error) {
	if id == "" {
		return Session{}, apperrors.ErrSessionNotFound
	}

	data, err := r.client.Get(ctx, r.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, apperrors.ErrSessionNotFound
		}
		return Session{}, fmt.Errorf("redis get: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	// A record edited outside this process must not bypass the invariants.
	if err := session.Validate(); err != nil {
		return Session{}, err
	}
	return session, nil
}

func (r *RedisRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return r.client.Del(ctx, r.prefix+id).Err()
}

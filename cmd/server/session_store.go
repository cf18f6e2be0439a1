package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jrsteele09/bunai/internal/config"
	"github.com/jrsteele09/bunai/sessions"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisPingTimeout = 3 * time.Second

// newSessionRepo picks the session backend named by SESSION_STORE.
func newSessionRepo(c config.Config) (sessions.Repo, func(), error) {
	switch c.GetSessionStore() {
	case config.SessionStoreRedis:
		client, err := newRedisClient(c)
		if err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis at %s: %w", c.GetRedisAddr(), err)
		}
		log.Info().Str("addr", c.GetRedisAddr()).Msg("Using redis session store")
		closeFn := func() {
			if err := client.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close redis client")
			}
		}
		return sessions.NewRedisRepo(client, c.GetRedisPrefix()), closeFn, nil
	default:
		log.Info().Msg("Using in-memory session store")
		return sessions.NewMemoryRepo(), func() {}, nil
	}
}

func newRedisClient(c config.Config) (*redis.Client, error) {
	addr := strings.TrimSpace(c.GetRedisAddr())
	if addr == "" {
		return nil, errors.New("REDIS_ADDR is required when SESSION_STORE=redis")
	}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opt, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: c.GetRedisPassword(),
		DB:       c.GetRedisDB(),
	}), nil
}

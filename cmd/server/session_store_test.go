package main

import (
	"testing"

	"github.com/jrsteele09/bunai/internal/config"
	"github.com/jrsteele09/bunai/sessions"
	"github.com/stretchr/testify/require"
)

func TestNewSessionRepo_Memory(t *testing.T) {
	t.Setenv("ENV", "DEV")
	t.Setenv("SESSION_STORE", "memory")
	c, err := config.Parse()
	require.NoError(t, err)

	repo, closeRepo, err := newSessionRepo(c)
	require.NoError(t, err)
	defer closeRepo()
	require.IsType(t, &sessions.MemoryRepo{}, repo)
}

func TestNewRedisClient(t *testing.T) {
	t.Setenv("ENV", "DEV")
	t.Setenv("SESSION_STORE", "redis")

	t.Run("url", func(t *testing.T) {
		t.Setenv("REDIS_ADDR", "redis://:pw@cache.internal:6380/2")
		c, err := config.Parse()
		require.NoError(t, err)

		client, err := newRedisClient(c)
		require.NoError(t, err)
		defer client.Close()
		require.Equal(t, "cache.internal:6380", client.Options().Addr)
		require.Equal(t, 2, client.Options().DB)
	})

	t.Run("host and port", func(t *testing.T) {
		t.Setenv("REDIS_ADDR", "localhost:6379")
		t.Setenv("REDIS_DB", "3")
		c, err := config.Parse()
		require.NoError(t, err)

		client, err := newRedisClient(c)
		require.NoError(t, err)
		defer client.Close()
		require.Equal(t, 3, client.Options().DB)
	})
}

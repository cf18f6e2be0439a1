package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/bunai/internal/config"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("ENV", "DEV")
	t.Setenv("SESSION_SECRET", "")

	c, err := config.Parse()
	require.NoError(t, err)
	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, "BUNAI", c.GetAppName())
	require.True(t, c.IsDev())
	require.Equal(t, 30*time.Minute, c.GetMaxSessionAge())
	require.Equal(t, config.SessionStoreMemory, c.GetSessionStore())
	require.Len(t, c.GetSessionSecret(), 32, "DEV generates a secret")
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "prod")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SESSION_MAX_AGE", "2h")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "3")

	c, err := config.Parse()
	require.NoError(t, err)
	require.Equal(t, ":9090", c.GetPort())
	require.Equal(t, "PROD", c.GetEnv())
	require.False(t, c.IsDev())
	require.Equal(t, []byte("s3cret"), c.GetSessionSecret())
	require.Equal(t, 2*time.Hour, c.GetMaxSessionAge())
	require.Equal(t, config.SessionStoreRedis, c.GetSessionStore())
	require.Equal(t, "redis:6379", c.GetRedisAddr())
	require.Equal(t, 3, c.GetRedisDB())
}

func TestParse_SecretRequiredOutsideDev(t *testing.T) {
	t.Setenv("ENV", "PROD")
	t.Setenv("SESSION_SECRET", "")

	_, err := config.Parse()
	require.Error(t, err)
	require.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestParse_InvalidStore(t *testing.T) {
	t.Setenv("ENV", "DEV")
	t.Setenv("SESSION_STORE", "postgres")

	_, err := config.Parse()
	require.Error(t, err)
	require.Contains(t, err.Error(), "SESSION_STORE")
}

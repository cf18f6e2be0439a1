package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	SecurityConfig
	StoreConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	IsDev() bool
}

type SecurityConfig interface {
	GetSessionSecret() []byte
	GetMaxSessionAge() time.Duration
	GetSessionCookieName() string
}

type StoreConfig interface {
	GetSessionStore() SessionStoreKind
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisPrefix() string
}

type mainConfig struct {
	EnvVars
	Security
	Store
}

// New loads a .env file when present and then reads the process environment.
func New() (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}
	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (Config, error) {
	var c mainConfig
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.sanitize(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *mainConfig) sanitize() error {
	if c.SessionSecret == "" {
		if !c.IsDev() {
			return errors.New("SESSION_SECRET is required outside DEV")
		}
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("generate session secret: %w", err)
		}
		c.generatedSecret = secret
	}
	if c.MaxSessionAge <= 0 {
		c.MaxSessionAge = defaultMaxSessionAge
	}
	switch c.SessionStore {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return fmt.Errorf("invalid SESSION_STORE: %q (valid options: memory, redis)", c.SessionStore)
	}
	return nil
}

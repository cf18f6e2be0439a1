package config

import "time"

const (
	defaultMaxSessionAge     = 30 * time.Minute
	defaultSessionCookieName = "bunai_session"
)

type Security struct {
	SessionSecret string        `env:"SESSION_SECRET"`
	MaxSessionAge time.Duration `env:"SESSION_MAX_AGE" envDefault:"30m"`
	CookieName    string        `env:"SESSION_COOKIE"  envDefault:"bunai_session"`

	generatedSecret []byte
}

var _ SecurityConfig = Security{}

// GetSessionSecret returns the HMAC key for session cookies. In DEV a random
// key is generated when none is configured, so sessions do not survive restarts.
func (s Security) GetSessionSecret() []byte {
	if s.SessionSecret != "" {
		return []byte(s.SessionSecret)
	}
	return s.generatedSecret
}

func (s Security) GetMaxSessionAge() time.Duration {
	if s.MaxSessionAge <= 0 {
		return defaultMaxSessionAge
	}
	return s.MaxSessionAge
}

func (s Security) GetSessionCookieName() string {
	if s.CookieName == "" {
		return defaultSessionCookieName
	}
	return s.CookieName
}

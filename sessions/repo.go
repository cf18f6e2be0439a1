package sessions

import (
	"context"
	"time"
)

// Repo persists session snapshots by session ID. Implementations return
// errors.ErrSessionNotFound for unknown or expired IDs.
//
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=mocks/repo_mock.go github.com/jrsteele09/bunai/sessions Repo
type Repo interface {
	Put(ctx context.Context, id string, session Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

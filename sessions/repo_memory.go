package sessions

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/bunai/internal/errors"
)

const sweepEvery = 64

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// MemoryRepo is an in-process Repo. Sessions do not survive a restart.
type MemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	puts     int
	now      func() time.Time
}

var _ Repo = (*MemoryRepo)(nil)

// NewMemoryRepo creates a new in-memory session repository
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (r *MemoryRepo) WithClock(now func() time.Time) *MemoryRepo {
	r.now = now
	return r
}

func (r *MemoryRepo) Put(_ context.Context, id string, session Session, ttl time.Duration) error {
	if id == "" {
		return fmt.Errorf("sessionID is required")
	}
	if ttl <= 0 {
		return fmt.Errorf("%w: non-positive ttl", apperrors.ErrSessionExpired)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sessions[id] = memoryEntry{session: session.clone(), expiresAt: now.Add(ttl)}

	r.puts++
	if r.puts%sweepEvery == 0 {
		for k, e := range r.sessions {
			if !now.Before(e.expiresAt) {
				delete(r.sessions, k)
			}
		}
	}
	return nil
}

func (r *MemoryRepo) Get(_ context.Context, id string) (Session, error) {
	if id == "" {
		return Session{}, apperrors.ErrSessionNotFound
	}

	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return Session{}, apperrors.ErrSessionNotFound
	}

	if !r.now().Before(e.expiresAt) {
		r.mu.Lock()
		delete(r.sessions, id)
		r.mu.Unlock()
		return Session{}, apperrors.ErrSessionNotFound
	}
	return e.session.clone(), nil
}

func (r *MemoryRepo) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// Len returns the number of stored (possibly expired) sessions.
func (r *MemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

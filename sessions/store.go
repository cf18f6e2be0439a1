package sessions

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/bunai/internal/errors"
	"github.com/rs/zerolog/log"
)

// Change describes one write to the store.
type Change struct {
	SessionID string
	Previous  Session
	Current   Session
}

// Listener observes every write. Listeners run synchronously, one at a time,
// while the store holds the written session's lock and must not write to the
// store themselves.
type Listener func(Change)

// Store is the single writer of session state. Reads go straight to the
// repo. Writes to one session ID are serialised so the last write wins and
// listeners see its changes in the order they happened; writes to different
// IDs proceed in parallel.
type Store struct {
	repo Repo
	ttl  time.Duration

	writeLocks *keyedMutex
	notifyMu   sync.Mutex

	subsMu    sync.RWMutex
	listeners map[uint64]Listener
	nextSub   uint64
}

// NewStore creates a store persisting signed-in sessions for ttl.
func NewStore(repo Repo, ttl time.Duration) *Store {
	return &Store{
		repo:       repo,
		ttl:        ttl,
		writeLocks: newKeyedMutex(),
		listeners:  make(map[uint64]Listener),
	}
}

// TTL is how long a signed-in session lives after its last write.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Get returns the current session for id. Unknown, expired or unreadable
// sessions read as Anonymous.
func (s *Store) Get(ctx context.Context, id string) Session {
	if id == "" {
		return Anonymous()
	}
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrSessionNotFound) {
			log.Warn().Err(err).Str("session_id", id).Msg("session lookup failed, treating as signed out")
		}
		return Anonymous()
	}
	return session
}

// Set replaces the session for id and notifies every listener before returning.
func (s *Store) Set(ctx context.Context, id string, next Session) error {
	if id == "" {
		return fmt.Errorf("%w: empty session id", apperrors.ErrInvalidSession)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next = next.clone()

	unlock := s.writeLocks.Lock(id)
	defer unlock()

	previous := s.Get(ctx, id)
	if next.Authenticated {
		if err := s.repo.Put(ctx, id, next, s.ttl); err != nil {
			return fmt.Errorf("store session: %w", err)
		}
	} else if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	s.notify(Change{SessionID: id, Previous: previous, Current: next})
	return nil
}

// Logout resets the session for id to Anonymous. Calling it repeatedly is harmless.
func (s *Store) Logout(ctx context.Context, id string) error {
	return s.Set(ctx, id, Anonymous())
}

// Subscribe registers fn for every subsequent write and returns a function
// that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.listeners, id)
			s.subsMu.Unlock()
		})
	}
}

func (s *Store) notify(c Change) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.subsMu.RLock()
	ids := make([]uint64, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	s.subsMu.RUnlock()

	// Subscription order.
	slices.Sort(ids)
	for _, id := range ids {
		s.subsMu.RLock()
		fn, ok := s.listeners[id]
		s.subsMu.RUnlock()
		if ok {
			fn(Change{SessionID: c.SessionID, Previous: c.Previous.clone(), Current: c.Current.clone()})
		}
	}
}

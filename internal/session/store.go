// Package session keeps one ListView per client of the HTTP server,
// keyed by a random UUID, and expires sessions left idle.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Sternrassler/catalog-pager/pkg/view"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

var (
	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_sessions_active",
		Help: "Number of live browsing sessions",
	})

	sessionsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_sessions_expired_total",
		Help: "Sessions removed after being idle",
	})
)

// Factory builds the view for a new session.
type Factory func() (*view.ListView, error)

// Session is one browsing session.
type Session struct {
	ID        string
	View      *view.ListView
	CreatedAt time.Time

	lastAccess time.Time
}

// Store holds live sessions. It is safe for concurrent use.
type Store struct {
	factory Factory
	logger  zerolog.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates an empty store.
func NewStore(factory Factory, logger zerolog.Logger) *Store {
	return &Store{
		factory:  factory,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create builds a view and registers it under a fresh id.
// The view has not fetched yet.
func (s *Store) Create() (*Session, error) {
	v, err := s.factory()
	if err != nil {
		return nil, err
	}

	now := s.now()
	sess := &Session{
		ID:         uuid.NewString(),
		View:       v,
		CreatedAt:  now,
		lastAccess: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	count := len(s.sessions)
	s.mu.Unlock()

	sessionsActive.Set(float64(count))
	s.logger.Info().Str("session", sess.ID).Msg("Session created")

	return sess, nil
}

// Get returns the session and marks it as used.
func (s *Store) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	sess.lastAccess = s.now()
	return sess, nil
}

// Delete removes the session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	count := len(s.sessions)
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	sessionsActive.Set(float64(count))
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes sessions not used within idle and returns how many it removed.
func (s *Store) Sweep(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastAccess.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	count := len(s.sessions)
	s.mu.Unlock()

	if removed > 0 {
		sessionsActive.Set(float64(count))
		sessionsExpiredTotal.Add(float64(removed))
		s.logger.Info().Int("expired", removed).Int("active", count).Msg("Expired idle sessions")
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(idle)
		}
	}
}

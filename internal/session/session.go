// Package session manages conversation session lifecycle.
//
// A session is keyed by an opaque ID (a phone number on the messaging
// channels, a UUID on the HTTP surface). The manager serializes turns per
// session, recreates expired sessions under the same ID, and sweeps stale
// sessions out of the store.
package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/RoadAtlas/DealFlow/internal/models"
	"github.com/RoadAtlas/DealFlow/internal/store"
)

// DefaultTTL is how long a session survives without activity.
const DefaultTTL = 30 * time.Minute

// Opts holds configuration options for the session manager.
type Opts struct {
	TTL time.Duration
	Now func() time.Time
}

// Option defines a configuration option for the session manager.
type Option func(*Opts)

// WithTTL overrides the session inactivity timeout.
func WithTTL(ttl time.Duration) Option {
	return func(o *Opts) { o.TTL = ttl }
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(o *Opts) { o.Now = now }
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// Manager owns session state on top of a store. Concurrent turns for the
// same session ID are serialized; turns for different sessions proceed in
// parallel.
type Manager struct {
	store store.Store
	ttl   time.Duration
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// NewManager creates a session manager backed by the given store.
func NewManager(st store.Store, opts ...Option) *Manager {
	cfg := Opts{TTL: DefaultTTL, Now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("SessionManager created", "ttl", cfg.TTL)
	return &Manager{
		store: st,
		ttl:   cfg.TTL,
		now:   cfg.Now,
		locks: make(map[string]*sessionLock),
	}
}

// TTL returns the configured inactivity timeout.
func (m *Manager) TTL() time.Duration { return m.ttl }

func (m *Manager) lockFor(sessionID string) *sessionLock {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		m.locks[sessionID] = l
	}
	l.refs++
	return l
}

func (m *Manager) releaseLock(sessionID string, l *sessionLock) {
	l.mu.Unlock()
	m.mu.Lock()
	defer m.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(m.locks, sessionID)
	}
}

// Acquire loads the session for sessionID under an exclusive per-session
// lock and returns it with a release function. An unknown ID or an ID whose
// session expired yields a fresh session under the same ID; nothing carries
// over from an expired session. The caller must invoke release exactly once.
func (m *Manager) Acquire(sessionID string) (*models.SessionState, func(), error) {
	if sessionID == "" {
		return nil, nil, models.ErrEmptySessionID
	}

	l := m.lockFor(sessionID)
	l.mu.Lock()

	now := m.now()
	state, err := m.store.GetSession(sessionID)
	if err != nil {
		m.releaseLock(sessionID, l)
		return nil, nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if state == nil {
		slog.Debug("SessionManager Acquire creating new session", "sessionID", sessionID)
		state = models.NewSessionState(sessionID, now)
	} else if state.Expired(m.ttl, now) {
		slog.Info("SessionManager Acquire recreating expired session", "sessionID", sessionID, "lastActive", state.LastActiveAt)
		state = models.NewSessionState(sessionID, now)
	}
	state.Touch(now)

	release := func() { m.releaseLock(sessionID, l) }
	return state, release, nil
}

// Persist saves the session snapshot. Call while holding the session's lock.
func (m *Manager) Persist(state *models.SessionState) error {
	if err := m.store.SaveSession(*state); err != nil {
		slog.Error("SessionManager Persist failed", "error", err, "sessionID", state.SessionID)
		return fmt.Errorf("failed to persist session %s: %w", state.SessionID, err)
	}
	return nil
}

// ClearFunnel resets the active funnel while keeping the conversation
// history, then persists the result. Used after a record is created.
func (m *Manager) ClearFunnel(state *models.SessionState) error {
	state.ResetFunnel()
	return m.Persist(state)
}

// Delete removes the session entirely.
func (m *Manager) Delete(sessionID string) error {
	if err := m.store.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}

// Get returns a read-only snapshot of the session, or nil when it does not
// exist or has expired.
func (m *Manager) Get(sessionID string) (*models.SessionState, error) {
	state, err := m.store.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if state != nil && state.Expired(m.ttl, m.now()) {
		return nil, nil
	}
	return state, nil
}

// Sweep deletes sessions whose inactivity exceeds the TTL and reports how
// many were removed. Run periodically by the scheduler.
func (m *Manager) Sweep() (int, error) {
	cutoff := m.now().Add(-m.ttl)
	removed, err := m.store.DeleteExpiredSessions(cutoff)
	if err != nil {
		slog.Error("SessionManager Sweep failed", "error", err)
		return 0, fmt.Errorf("failed to sweep expired sessions: %w", err)
	}
	if removed > 0 {
		slog.Info("SessionManager Sweep removed expired sessions", "count", removed)
	}
	return removed, nil
}

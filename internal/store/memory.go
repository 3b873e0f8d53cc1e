// internal/store/memory.go
//
// In-memory registry of live game sessions.
//
// Characteristics:
//   - Stores *session.Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts; only finished rounds reach the
//     results ledger.
//   - Idle sessions are evicted by Sweep, which the server runs on a ticker.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/wordgame/internal/session"
)

// ErrNotFound is returned by Get for unknown or evicted IDs.
var ErrNotFound = errors.New("session not found")

// Store defines the registry interface for live sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *session.Session) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*session.Session, error)

	// Delete removes and closes a session. Missing IDs return ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Sweep closes and removes sessions last seen before cutoff and
	// returns how many went.
	Sweep(ctx context.Context, cutoff time.Time) int

	// Len is the number of live sessions.
	Len() int
}

type memory struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*session.Session)}
}

func (m *memory) Save(_ context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.sessions[s.ID]; ok && old != s {
		old.Close()
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(_ context.Context, id string) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.Close()
	return nil
}

func (m *memory) Sweep(_ context.Context, cutoff time.Time) int {
	var stale []*session.Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()
	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

package repository

import (
	"context"
	"sync"
	"time"

	"github.com/vaultpass/passgen-go/internal/model"
)

// MemorySessionStore keeps sessions in process memory.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]model.SessionState
	now      func() time.Time
	stop     chan struct{}
	once     sync.Once
}

// NewMemorySessionStore creates a store that drops expired sessions every sweep interval.
func NewMemorySessionStore(sweep time.Duration) *MemorySessionStore {
	s := &MemorySessionStore{
		sessions: make(map[string]model.SessionState),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	if sweep > 0 {
		go s.cleanup(sweep)
	}
	return s
}

// Save inserts or replaces a session.
func (s *MemorySessionStore) Save(_ context.Context, state *model.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[state.ID] = *state
	return nil
}

// Get returns a copy of the session, or ErrSessionNotFound once it has expired.
func (s *MemorySessionStore) Get(_ context.Context, id string) (*model.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[id]
	if !ok || state.Expired(s.now()) {
		return nil, ErrSessionNotFound
	}
	return &state, nil
}

// Delete removes a session.
func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Len reports how many sessions are held, expired or not.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the cleanup goroutine.
func (s *MemorySessionStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}

func (s *MemorySessionStore) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemorySessionStore) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, state := range s.sessions {
		if state.Expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Package session keeps a generated password in step with its configuration.
//
// A Session owns one Config and the Password derived from it. Every change to
// the Config regenerates the Password synchronously before the mutating call
// returns, then notifies subscribers with the new Snapshot. Regenerate draws a
// fresh Password for the unchanged Config.
package session

import (
	"slices"
	"sync"

	"github.com/vaultpass/passgen-go/internal/crypto"
)

// Snapshot is an immutable view of a session's state.
type Snapshot struct {
	Config   crypto.Config
	Password string
}

// Listener is called after every recomputation, in subscription order, without the session lock held.
type Listener func(Snapshot)

// Option configures a Session.
type Option func(*Session)

// WithValidator installs a check that runs against each candidate Config.
// A rejected change leaves the session untouched.
func WithValidator(validate func(crypto.Config) error) Option {
	return func(s *Session) {
		s.validate = validate
	}
}

// Session is safe for concurrent use; mutations are serialized.
type Session struct {
	mu        sync.Mutex
	gen       *crypto.Generator
	validate  func(crypto.Config) error
	current   Snapshot
	listeners []subscription
	nextID    int
}

type subscription struct {
	id int
	fn Listener
}

// New creates a session for cfg and generates its initial password.
func New(gen *crypto.Generator, cfg crypto.Config, opts ...Option) (*Session, error) {
	s := newSession(gen, opts)
	if err := s.check(cfg); err != nil {
		return nil, err
	}
	s.current = Snapshot{Config: cfg, Password: s.gen.GenerateConfig(cfg)}
	return s, nil
}

// Restore rebuilds a session from a stored snapshot without regenerating.
func Restore(gen *crypto.Generator, snap Snapshot, opts ...Option) *Session {
	s := newSession(gen, opts)
	s.current = snap
	return s
}

func newSession(gen *crypto.Generator, opts []Option) *Session {
	if gen == nil {
		gen = crypto.NewGenerator(nil)
	}
	s := &Session{gen: gen}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) check(cfg crypto.Config) error {
	if s.validate == nil {
		return nil
	}
	return s.validate(cfg)
}

// Snapshot returns the current config and password.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers fn for change notifications and returns a function that removes it.
func (s *Session) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.listeners = slices.DeleteFunc(s.listeners, func(sub subscription) bool { return sub.id == id })
		s.mu.Unlock()
	}
}

// Update applies mutate to a copy of the current config. If the result passes
// validation it becomes current and the password is regenerated.
func (s *Session) Update(mutate func(*crypto.Config)) (Snapshot, error) {
	snap, listeners, err := s.update(mutate)
	if err != nil {
		return Snapshot{}, err
	}
	notify(listeners, snap)
	return snap, nil
}

func (s *Session) update(mutate func(*crypto.Config)) (Snapshot, []subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.current.Config
	mutate(&cfg)
	if err := s.check(cfg); err != nil {
		return Snapshot{}, nil, err
	}
	snap, listeners := s.recompute(cfg)
	return snap, listeners, nil
}

// SetLength changes the length and regenerates.
func (s *Session) SetLength(length int) (Snapshot, error) {
	return s.Update(func(c *crypto.Config) { c.Length = length })
}

// SetClasses replaces the enabled classes and regenerates.
func (s *Session) SetClasses(classes crypto.ClassSet) (Snapshot, error) {
	return s.Update(func(c *crypto.Config) { c.Classes = classes })
}

// Enable turns on one class and regenerates.
func (s *Session) Enable(class crypto.CharacterClass) (Snapshot, error) {
	return s.Update(func(c *crypto.Config) { c.Classes = c.Classes.With(class) })
}

// Disable turns off one class and regenerates.
func (s *Session) Disable(class crypto.CharacterClass) (Snapshot, error) {
	return s.Update(func(c *crypto.Config) { c.Classes = c.Classes.Without(class) })
}

// Regenerate draws a new password for the current config.
func (s *Session) Regenerate() Snapshot {
	s.mu.Lock()
	snap, listeners := s.recompute(s.current.Config)
	s.mu.Unlock()

	notify(listeners, snap)
	return snap
}

// recompute must be called with s.mu held. It returns the listeners to notify
// once the lock is released.
func (s *Session) recompute(cfg crypto.Config) (Snapshot, []subscription) {
	s.current = Snapshot{Config: cfg, Password: s.gen.GenerateConfig(cfg)}
	return s.current, slices.Clone(s.listeners)
}

func notify(listeners []subscription, snap Snapshot) {
	for _, sub := range listeners {
		sub.fn(snap)
	}
}

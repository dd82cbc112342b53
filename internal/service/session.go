package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/repository"
	"github.com/vaultpass/passgen-go/internal/session"
)

// ErrSessionNotFound is returned for unknown and expired sessions. Stores
// report the same sentinel, including a Save that finds the session expired.
var ErrSessionNotFound = repository.ErrSessionNotFound

// SessionStore persists session state between requests.
type SessionStore interface {
	Save(ctx context.Context, state *model.SessionState) error
	Get(ctx context.Context, id string) (*model.SessionState, error)
	Delete(ctx context.Context, id string) error
}

// SessionService owns generator sessions: each holds a configuration and the
// password most recently derived from it.
type SessionService struct {
	store  SessionStore
	gen    *crypto.Generator
	secret string
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionService creates a new SessionService.
func NewSessionService(store SessionStore, gen *crypto.Generator, secret string, ttl time.Duration) *SessionService {
	if gen == nil {
		gen = crypto.NewGenerator(nil)
	}
	return &SessionService{
		store:  store,
		gen:    gen,
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Create starts a session with the default configuration and returns its bearer token.
func (s *SessionService) Create(ctx context.Context) (model.CreateSessionResponse, error) {
	sess, err := session.New(s.gen, crypto.DefaultConfig(), session.WithValidator(ValidateConfig))
	if err != nil {
		return model.CreateSessionResponse{}, err
	}

	state := &model.SessionState{
		ID:        uuid.NewString(),
		ExpiresAt: s.now().Add(s.ttl).UTC(),
	}
	applySnapshot(state, sess.Snapshot())

	if err := s.store.Save(ctx, state); err != nil {
		return model.CreateSessionResponse{}, err
	}

	token, err := crypto.GenerateToken(state.ID, s.secret, s.ttl)
	if err != nil {
		return model.CreateSessionResponse{}, err
	}

	return model.CreateSessionResponse{
		Token:   token,
		Session: toSessionResponse(state),
	}, nil
}

// Get returns the session's current configuration and password.
func (s *SessionService) Get(ctx context.Context, id string) (model.SessionResponse, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return model.SessionResponse{}, err
	}
	return toSessionResponse(state), nil
}

// UpdateConfig applies a partial configuration change. The password is
// regenerated before the new state is saved, so a caller never observes a
// configuration paired with a password drawn from an older one.
func (s *SessionService) UpdateConfig(ctx context.Context, id string, req model.UpdateConfigRequest) (model.SessionResponse, error) {
	change, err := parseChange(req.Length, req.Classes)
	if err != nil {
		return model.SessionResponse{}, err
	}

	return s.mutate(ctx, id, func(sess *session.Session) (session.Snapshot, error) {
		return sess.Update(change)
	})
}

// Regenerate draws a new password for the session's current configuration.
func (s *SessionService) Regenerate(ctx context.Context, id string) (model.SessionResponse, error) {
	return s.mutate(ctx, id, func(sess *session.Session) (session.Snapshot, error) {
		return sess.Regenerate(), nil
	})
}

// Delete ends a session.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *SessionService) mutate(ctx context.Context, id string, change func(*session.Session) (session.Snapshot, error)) (model.SessionResponse, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return model.SessionResponse{}, err
	}

	sess := session.Restore(s.gen, session.Snapshot{Config: state.Config, Password: state.Password},
		session.WithValidator(ValidateConfig))
	sess.Subscribe(func(snap session.Snapshot) { applySnapshot(state, snap) })

	if _, err := change(sess); err != nil {
		return model.SessionResponse{}, err
	}

	if err := s.store.Save(ctx, state); err != nil {
		return model.SessionResponse{}, err
	}

	slog.Debug("session regenerated", "session_id", state.ID, "length", state.Config.Length, "classes", state.Config.Classes.Names())
	return toSessionResponse(state), nil
}

func (s *SessionService) load(ctx context.Context, id string) (*model.SessionState, error) {
	state, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if state.Expired(s.now()) {
		return nil, ErrSessionNotFound
	}
	return state, nil
}

func applySnapshot(state *model.SessionState, snap session.Snapshot) {
	state.Config = snap.Config
	state.Password = snap.Password
}

func toSessionResponse(state *model.SessionState) model.SessionResponse {
	return model.SessionResponse{
		ID:        state.ID,
		Length:    state.Config.Length,
		Classes:   state.Config.Classes.Names(),
		Password:  state.Password,
		ExpiresAt: state.ExpiresAt,
	}
}

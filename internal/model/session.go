package model

import (
	"time"

	"github.com/vaultpass/passgen-go/internal/crypto"
)

// SessionState is the persisted state of one generator session.
type SessionState struct {
	ID        string
	Config    crypto.Config
	Password  string
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s SessionState) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// UpdateConfigRequest is a partial configuration change; nil fields are left as they are.
type UpdateConfigRequest struct {
	Length  *int     `json:"length"`
	Classes []string `json:"classes"`
}

// SessionResponse represents a session's current configuration and password.
type SessionResponse struct {
	ID        string    `json:"id"`
	Length    int       `json:"length"`
	Classes   []string  `json:"classes"`
	Password  string    `json:"password"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateSessionResponse carries the bearer token for a new session.
type CreateSessionResponse struct {
	Token   string          `json:"token"`
	Session SessionResponse `json:"session"`
}

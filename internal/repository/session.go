package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/model"
)

const sessionSchema = `
	CREATE TABLE IF NOT EXISTS generator_sessions (
		id          CHAR(36)         NOT NULL PRIMARY KEY,
		length      INT              NOT NULL,
		classes     TINYINT UNSIGNED NOT NULL,
		password    VARCHAR(64)      NOT NULL,
		expires_at  DATETIME(6)      NOT NULL,
		created_at  TIMESTAMP        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  TIMESTAMP        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_generator_sessions_expires_at (expires_at)
	)`

// SessionRepository stores generator sessions in MySQL.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Migrate creates the sessions table if it does not exist.
func (r *SessionRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, sessionSchema)
	return err
}

// Save inserts a session or overwrites its configuration and password.
func (r *SessionRepository) Save(ctx context.Context, state *model.SessionState) error {
	query := `
		INSERT INTO generator_sessions (id, length, classes, password, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			length   = VALUES(length),
			classes  = VALUES(classes),
			password = VALUES(password)`

	_, err := r.db.ExecContext(ctx, query,
		state.ID,
		state.Config.Length,
		uint8(state.Config.Classes),
		state.Password,
		state.ExpiresAt.UTC(),
	)
	return err
}

// Get retrieves an unexpired session by ID.
func (r *SessionRepository) Get(ctx context.Context, id string) (*model.SessionState, error) {
	query := `SELECT id, length, classes, password, expires_at
		FROM generator_sessions WHERE id = ? AND expires_at > ?`

	var (
		state   model.SessionState
		classes uint8
	)
	err := r.db.QueryRowContext(ctx, query, id, time.Now().UTC()).Scan(
		&state.ID, &state.Config.Length, &classes, &state.Password, &state.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	state.Config.Classes = crypto.ClassSet(classes)

	return &state, nil
}

// Delete removes a session.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM generator_sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// DeleteExpired removes every session that expired before now and reports how many were removed.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM generator_sessions WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

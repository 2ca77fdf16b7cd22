package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/travel-web/apiserver/types"
)

// SessionRepository handles persistence for server-side login sessions
// and password-reset tokens.
type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session types.Session) (types.Session, error) {
	const query = `
		INSERT INTO sessions (id, user_id, username, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.UserID,
		session.Username,
		session.CreatedAt,
		session.ExpiresAt,
	); err != nil {
		return types.Session{}, err
	}
	return session, nil
}

// Get returns the session for the given identifier. Expired sessions are
// reported as ErrNotFound; callers never see them.
func (r *SessionRepository) Get(ctx context.Context, id string) (types.Session, error) {
	const query = `
		SELECT id, user_id, username, created_at, expires_at
		FROM sessions
		WHERE id = $1 AND expires_at > $2`
	var session types.Session
	err := r.db.QueryRowContext(ctx, query, id, time.Now()).Scan(
		&session.ID,
		&session.UserID,
		&session.Username,
		&session.CreatedAt,
		&session.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Session{}, ErrNotFound
		}
		return types.Session{}, err
	}
	return session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM sessions WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SessionRepository) CreatePasswordReset(ctx context.Context, reset types.PasswordReset) (types.PasswordReset, error) {
	const query = `
		INSERT INTO password_resets (token, user_id, expires_at)
		VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, reset.Token, reset.UserID, reset.ExpiresAt); err != nil {
		return types.PasswordReset{}, err
	}
	return reset, nil
}

// ConsumePasswordReset atomically deletes and returns the reset token so
// it can be used at most once.
func (r *SessionRepository) ConsumePasswordReset(ctx context.Context, token string) (types.PasswordReset, error) {
	const query = `
		DELETE FROM password_resets
		WHERE token = $1 AND expires_at > $2
		RETURNING token, user_id, expires_at`
	var reset types.PasswordReset
	err := r.db.QueryRowContext(ctx, query, token, time.Now()).Scan(
		&reset.Token,
		&reset.UserID,
		&reset.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.PasswordReset{}, ErrNotFound
		}
		return types.PasswordReset{}, err
	}
	return reset, nil
}

package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/travel-web/apiserver/internal/store"
	"github.com/travel-web/apiserver/types"
)

const defaultResetTTL = time.Hour

// SessionRepository defines persistence operations for sessions and
// password-reset tokens.
type SessionRepository interface {
	Create(ctx context.Context, session types.Session) (types.Session, error)
	Get(ctx context.Context, id string) (types.Session, error)
	Delete(ctx context.Context, id string) error
	CreatePasswordReset(ctx context.Context, reset types.PasswordReset) (types.PasswordReset, error)
	ConsumePasswordReset(ctx context.Context, token string) (types.PasswordReset, error)
}

// SessionService owns the session lifecycle: opening a session after a
// successful credential check, resolving an opaque identifier back to a
// principal on each request, and closing it on logout.
type SessionService struct {
	sessions SessionRepository
	users    UserRepository
	ttl      time.Duration
}

func NewSessionService(sessions SessionRepository, users UserRepository, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &SessionService{sessions: sessions, users: users, ttl: ttl}
}

// Start opens a session for an already-authenticated user.
func (s *SessionService) Start(ctx context.Context, user types.User) (types.Session, error) {
	id, err := newToken()
	if err != nil {
		return types.Session{}, err
	}
	now := time.Now()
	return s.sessions.Create(ctx, types.Session{
		ID:        id,
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	})
}

// Resolve maps a session identifier to the acting principal. The user
// record is re-read on every call, so a session whose user was deleted
// after login resolves to store.ErrNotFound, and role changes take
// effect immediately.
func (s *SessionService) Resolve(ctx context.Context, id string) (types.Principal, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return types.Principal{}, err
	}
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return types.Principal{}, err
	}
	return types.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Admin:    user.Admin,
	}, nil
}

// End closes the session. Ending an already-gone session is not an
// error; logout is idempotent.
func (s *SessionService) End(ctx context.Context, id string) error {
	if err := s.sessions.Delete(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}

// StartPasswordReset issues a single-use reset token for the user
// matching the identifier. The token, not the user id, goes into the
// mailed link.
func (s *SessionService) StartPasswordReset(ctx context.Context, identifier string) (types.User, types.PasswordReset, error) {
	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		return types.User{}, types.PasswordReset{}, err
	}
	token, err := newToken()
	if err != nil {
		return types.User{}, types.PasswordReset{}, err
	}
	reset, err := s.sessions.CreatePasswordReset(ctx, types.PasswordReset{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(defaultResetTTL),
	})
	if err != nil {
		return types.User{}, types.PasswordReset{}, err
	}
	return user, reset, nil
}

// CompletePasswordReset consumes the token and returns the user id it
// was issued for. Unknown and expired tokens are store.ErrNotFound.
func (s *SessionService) CompletePasswordReset(ctx context.Context, token string) (int, error) {
	reset, err := s.sessions.ConsumePasswordReset(ctx, token)
	if err != nil {
		return 0, err
	}
	return reset.UserID, nil
}

func newToken() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf[:]), nil
}

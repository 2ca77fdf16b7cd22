package services

import (
	"context"
	"errors"
	"strings"

	"github.com/travel-web/apiserver/internal/store"
	"github.com/travel-web/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (types.User, error)
	List(ctx context.Context, filter string) ([]types.User, error)
	ListRecent(ctx context.Context, limit int) ([]types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, user types.User) (types.User, error)
	Delete(ctx context.Context, id int) error
}

// UserService encapsulates identity use-cases: registration, credential
// verification and profile administration.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Registration is the full field set expected when creating an account.
type Registration struct {
	Username string
	Password string
	Email    string
	Name     string
	Surname  string
	ImageKey string
}

// ProfileUpdate carries partial-update semantics: Password and ImageKey
// are only written when supplied non-empty, every other field always
// overwrites the stored value.
type ProfileUpdate struct {
	Username string
	Email    string
	Name     string
	Surname  string
	Password string
	ImageKey string
}

// Register creates a new non-admin account with a hashed password.
func (s *UserService) Register(ctx context.Context, reg Registration) (types.User, error) {
	reg.Username = strings.TrimSpace(reg.Username)

	validation := &ValidationError{}
	if reg.Username == "" {
		validation.add("username", "required")
	}
	if reg.Password == "" {
		validation.add("password", "required")
	}
	if !validation.ok() {
		return types.User{}, validation
	}

	if _, err := s.repo.GetByUsername(ctx, reg.Username); err == nil {
		return types.User{}, ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, err
	}

	return s.repo.Create(ctx, types.User{
		Username:     reg.Username,
		Email:        strings.TrimSpace(reg.Email),
		Name:         strings.TrimSpace(reg.Name),
		Surname:      strings.TrimSpace(reg.Surname),
		ImageKey:     reg.ImageKey,
		Admin:        false,
		PasswordHash: string(hashed),
	})
}

// Authenticate verifies a username-or-email identifier against its
// password. It returns store.ErrNotFound when nothing matches,
// store.ErrAmbiguousIdentity when the identifier matches more than one
// user, and ErrBadCredential on a password mismatch. No session is
// created here; that is the caller's decision.
func (s *UserService) Authenticate(ctx context.Context, identifier, password string) (types.User, error) {
	user, err := s.repo.GetByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil {
		return types.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, ErrBadCredential
	}
	return user, nil
}

// AuthenticateAdmin is the admin-only login entry point: valid
// credentials on a non-admin account are rejected with ErrNotAdmin.
func (s *UserService) AuthenticateAdmin(ctx context.Context, identifier, password string) (types.User, error) {
	user, err := s.Authenticate(ctx, identifier, password)
	if err != nil {
		return types.User{}, err
	}
	if !user.Admin {
		return types.User{}, ErrNotAdmin
	}
	return user, nil
}

// UpdateProfile applies a partial profile edit to the given user.
func (s *UserService) UpdateProfile(ctx context.Context, id int, update ProfileUpdate) (types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.User{}, err
	}

	if username := strings.TrimSpace(update.Username); username != "" && username != user.Username {
		if _, err := s.repo.GetByUsername(ctx, username); err == nil {
			return types.User{}, ErrUsernameTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return types.User{}, err
		}
		user.Username = username
	}
	user.Email = strings.TrimSpace(update.Email)
	user.Name = strings.TrimSpace(update.Name)
	user.Surname = strings.TrimSpace(update.Surname)

	if update.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(update.Password), bcrypt.DefaultCost)
		if err != nil {
			return types.User{}, err
		}
		user.PasswordHash = string(hashed)
	}
	if update.ImageKey != "" {
		user.ImageKey = update.ImageKey
	}

	return s.repo.Update(ctx, user)
}

// SetPassword replaces the user's password, used by the reset flow.
func (s *UserService) SetPassword(ctx context.Context, id int, password string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashed)
	_, err = s.repo.Update(ctx, user)
	return err
}

// SetImageKey records the object-storage key of an uploaded profile image.
func (s *UserService) SetImageKey(ctx context.Context, id int, key string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	user.ImageKey = key
	_, err = s.repo.Update(ctx, user)
	return err
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByIdentifier(ctx context.Context, identifier string) (types.User, error) {
	return s.repo.GetByIdentifier(ctx, strings.TrimSpace(identifier))
}

func (s *UserService) List(ctx context.Context, filter string) ([]types.User, error) {
	return s.repo.List(ctx, filter)
}

func (s *UserService) ListRecent(ctx context.Context, limit int) ([]types.User, error) {
	return s.repo.ListRecent(ctx, limit)
}

// Delete removes a user; their reservations cascade away with them.
// There is deliberately no guard against an admin deleting their own
// account; the stranded session fails resolution on its next request.
func (s *UserService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/travel-web/apiserver/types"
)

const userColumns = `id, username, email, name, surname, image_key, admin, password_hash, created_at, updated_at`

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Name,
		&user.Surname,
		&user.ImageKey,
		&user.Admin,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

// GetByIdentifier looks a user up by username or email. Emails carry no
// uniqueness constraint, so the lookup can legitimately match more than
// one row; that case is reported as ErrAmbiguousIdentity rather than
// picking an arbitrary winner.
func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (types.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1 OR email = $1
		LIMIT 2`
	rows, err := r.db.QueryContext(ctx, query, identifier)
	if err != nil {
		return types.User{}, err
	}
	defer rows.Close()

	var matches []types.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return types.User{}, err
		}
		matches = append(matches, user)
	}
	if err := rows.Err(); err != nil {
		return types.User{}, err
	}

	switch len(matches) {
	case 0:
		return types.User{}, ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return types.User{}, ErrAmbiguousIdentity
	}
}

// List returns users ordered by username. When filter is non-empty it is
// applied as a case-insensitive substring match over username, email and
// name, OR-combined.
func (r *UserRepository) List(ctx context.Context, filter string) ([]types.User, error) {
	const baseQuery = `
		SELECT ` + userColumns + `
		FROM users`

	var rows *sql.Rows
	var err error
	if strings.TrimSpace(filter) == "" {
		rows, err = r.db.QueryContext(ctx, baseQuery+` ORDER BY username`)
	} else {
		pattern := "%" + strings.TrimSpace(filter) + "%"
		rows, err = r.db.QueryContext(ctx, baseQuery+`
			WHERE username ILIKE $1 OR email ILIKE $1 OR name ILIKE $1
			ORDER BY username`, pattern)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []types.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// ListRecent returns the most recently registered users, newest first.
func (r *UserRepository) ListRecent(ctx context.Context, limit int) ([]types.User, error) {
	if limit < 1 {
		limit = 5
	}
	const query = `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY id DESC
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []types.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	const query = `
		INSERT INTO users (username, email, name, surname, image_key, admin, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		user.Username,
		user.Email,
		user.Name,
		user.Surname,
		user.ImageKey,
		user.Admin,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID); err != nil {
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user types.User) (types.User, error) {
	user.UpdatedAt = time.Now()

	const query = `
		UPDATE users
		SET username = $1,
			email = $2,
			name = $3,
			surname = $4,
			image_key = $5,
			admin = $6,
			password_hash = $7,
			updated_at = $8
		WHERE id = $9`
	result, err := r.db.ExecContext(
		ctx,
		query,
		user.Username,
		user.Email,
		user.Name,
		user.Surname,
		user.ImageKey,
		user.Admin,
		user.PasswordHash,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return types.User{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.User{}, err
	}
	if affected == 0 {
		return types.User{}, ErrNotFound
	}
	return user, nil
}

// Delete removes the user. Their reservations and sessions go with them
// via ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM users WHERE id = $1`
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

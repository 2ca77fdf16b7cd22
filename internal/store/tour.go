package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/travel-web/apiserver/types"
)

const tourColumns = `id, name, description, image_key, duration, price, category, created_at, updated_at`

// TourRepository handles persistence for tours.
type TourRepository struct {
	db *sql.DB
}

func NewTourRepository(db *sql.DB) *TourRepository {
	return &TourRepository{db: db}
}

func scanTour(row interface{ Scan(...any) error }) (types.Tour, error) {
	var tour types.Tour
	err := row.Scan(
		&tour.ID,
		&tour.Name,
		&tour.Description,
		&tour.ImageKey,
		&tour.Duration,
		&tour.Price,
		&tour.Category,
		&tour.CreatedAt,
		&tour.UpdatedAt,
	)
	return tour, err
}

func (r *TourRepository) Get(ctx context.Context, id int) (types.Tour, error) {
	const query = `
		SELECT ` + tourColumns + `
		FROM tours
		WHERE id = $1`
	tour, err := scanTour(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Tour{}, ErrNotFound
		}
		return types.Tour{}, err
	}
	return tour, nil
}

// GetByNameAndCategory supports the idempotent seed routine, which keys
// sample tours on the (name, category) pair.
func (r *TourRepository) GetByNameAndCategory(ctx context.Context, name, category string) (types.Tour, error) {
	const query = `
		SELECT ` + tourColumns + `
		FROM tours
		WHERE name = $1 AND category = $2
		LIMIT 1`
	tour, err := scanTour(r.db.QueryRowContext(ctx, query, name, category))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Tour{}, ErrNotFound
		}
		return types.Tour{}, err
	}
	return tour, nil
}

// List returns tours ordered by id. Category narrows the result to one
// bucket when non-empty. The filter is a case-insensitive substring
// match; nameOnly restricts it to the name column (dashboard search),
// otherwise name and description both count (public catalog search).
func (r *TourRepository) List(ctx context.Context, category, filter string, nameOnly bool) ([]types.Tour, error) {
	query := `
		SELECT ` + tourColumns + `
		FROM tours`
	var conds []string
	var args []any

	if category != "" {
		args = append(args, category)
		conds = append(conds, `category = $1`)
	}
	if strings.TrimSpace(filter) != "" {
		args = append(args, "%"+strings.TrimSpace(filter)+"%")
		placeholder := "$2"
		if category == "" {
			placeholder = "$1"
		}
		if nameOnly {
			conds = append(conds, `name ILIKE `+placeholder)
		} else {
			conds = append(conds, `(name ILIKE `+placeholder+` OR description ILIKE `+placeholder+`)`)
		}
	}
	if len(conds) > 0 {
		query += `
		WHERE ` + strings.Join(conds, ` AND `)
	}
	query += `
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tours []types.Tour
	for rows.Next() {
		tour, err := scanTour(rows)
		if err != nil {
			return nil, err
		}
		tours = append(tours, tour)
	}
	return tours, rows.Err()
}

func (r *TourRepository) Create(ctx context.Context, tour types.Tour) (types.Tour, error) {
	now := time.Now()
	tour.CreatedAt = now
	tour.UpdatedAt = now

	const query = `
		INSERT INTO tours (name, description, image_key, duration, price, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		tour.Name,
		tour.Description,
		tour.ImageKey,
		tour.Duration,
		tour.Price,
		tour.Category,
		tour.CreatedAt,
		tour.UpdatedAt,
	).Scan(&tour.ID); err != nil {
		return types.Tour{}, err
	}
	return tour, nil
}

func (r *TourRepository) Update(ctx context.Context, tour types.Tour) (types.Tour, error) {
	tour.UpdatedAt = time.Now()

	const query = `
		UPDATE tours
		SET name = $1,
			description = $2,
			image_key = $3,
			duration = $4,
			price = $5,
			category = $6,
			updated_at = $7
		WHERE id = $8`
	result, err := r.db.ExecContext(
		ctx,
		query,
		tour.Name,
		tour.Description,
		tour.ImageKey,
		tour.Duration,
		tour.Price,
		tour.Category,
		tour.UpdatedAt,
		tour.ID,
	)
	if err != nil {
		return types.Tour{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Tour{}, err
	}
	if affected == 0 {
		return types.Tour{}, ErrNotFound
	}
	return tour, nil
}

// Delete removes the tour. Reservations against it go with it via
// ON DELETE CASCADE.
func (r *TourRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM tours WHERE id = $1`
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

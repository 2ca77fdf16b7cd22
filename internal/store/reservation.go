package store

import (
	"context"
	"database/sql"

	"github.com/travel-web/apiserver/types"
)

// ReservationRepository handles persistence for reservations.
type ReservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, res types.Reservation) (types.Reservation, error) {
	const query = `
		INSERT INTO reservations (tour_id, user_id, customer_name, customer_email, customer_phone, start_date, party_size, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		res.TourID,
		res.UserID,
		res.CustomerName,
		res.CustomerEmail,
		res.CustomerPhone,
		res.StartDate,
		res.PartySize,
		res.Notes,
		res.Status,
	).Scan(&res.ID, &res.CreatedAt); err != nil {
		return types.Reservation{}, err
	}
	return res, nil
}

// List returns every reservation newest-first, with the tour name joined
// in for the admin overview.
func (r *ReservationRepository) List(ctx context.Context) ([]types.Reservation, error) {
	const query = `
		SELECT r.id, r.tour_id, r.user_id, r.customer_name, r.customer_email, r.customer_phone,
			r.start_date, r.party_size, r.notes, r.status, r.created_at, t.name
		FROM reservations r
		JOIN tours t ON t.id = r.tour_id
		ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []types.Reservation
	for rows.Next() {
		var res types.Reservation
		if err := rows.Scan(
			&res.ID,
			&res.TourID,
			&res.UserID,
			&res.CustomerName,
			&res.CustomerEmail,
			&res.CustomerPhone,
			&res.StartDate,
			&res.PartySize,
			&res.Notes,
			&res.Status,
			&res.CreatedAt,
			&res.TourName,
		); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

// CountByTour reports how many reservations reference the given tour.
func (r *ReservationRepository) CountByTour(ctx context.Context, tourID int) (int, error) {
	const query = `SELECT COUNT(1) FROM reservations WHERE tour_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, tourID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

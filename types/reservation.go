package types

import "time"

// Reservation status values. New reservations always start as
// StatusPending; no code path transitions them afterwards, the remaining
// values exist for a future confirmation workflow.
const (
	StatusPending   = "pendiente"
	StatusConfirmed = "confirmada"
	StatusCancelled = "cancelada"
)

// Reservation represents a booking request submitted against a tour.
// It is a record-keeping form: there are no capacity limits and no
// payment attached. Customer fields are free text and are deliberately
// redundant with the User profile, since a logged-in user may reserve
// on behalf of someone else.
type Reservation struct {
	// ID is the unique identifier of the reservation.
	ID int `json:"id" db:"id"`

	// TourID references the reserved tour. Required; deleting the tour
	// deletes the reservation.
	TourID int `json:"tour_id" db:"tour_id"`

	// UserID references the account that submitted the reservation, when
	// known. Deleting the user deletes the reservation.
	UserID *int `json:"user_id,omitempty" db:"user_id"`

	// CustomerName is the name the reservation was made under.
	CustomerName string `json:"customer_name" db:"customer_name"`

	// CustomerEmail is the contact email for the reservation.
	CustomerEmail string `json:"customer_email" db:"customer_email"`

	// CustomerPhone is the contact phone number for the reservation.
	CustomerPhone string `json:"customer_phone" db:"customer_phone"`

	// StartDate is the requested first day of the tour.
	StartDate time.Time `json:"start_date" db:"start_date"`

	// PartySize is the number of travellers, at least 1.
	PartySize int `json:"party_size" db:"party_size"`

	// Notes carries free-text remarks from the customer.
	Notes string `json:"notes" db:"notes"`

	// Status is one of StatusPending, StatusConfirmed, StatusCancelled.
	Status string `json:"status" db:"status"`

	// CreatedAt is set once at creation and never updated.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// TourName is the name of the reserved tour, populated on list reads
	// for the admin overview. Not a column of the reservation itself.
	TourName string `json:"tour_name,omitempty" db:"-"`
}

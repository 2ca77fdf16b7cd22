package types

import "time"

// Tour category values. The catalog is partitioned into two buckets that
// are always listed separately.
const (
	// CategoryCity groups city tours ("ciudad").
	CategoryCity = "ciudad"

	// CategoryPlace groups destination tours ("lugar").
	CategoryPlace = "lugar"
)

// Tour represents a catalog entry offered for reservation.
// Duration and price are free-text labels as shown on the listing cards,
// not structured quantities.
type Tour struct {
	// ID is the unique identifier of the tour.
	ID int `json:"id" db:"id"`

	// Name is the display name of the tour. The same name may exist once
	// per category; nothing enforces uniqueness across categories.
	Name string `json:"name" db:"name"`

	// Description is the full marketing text for the tour.
	Description string `json:"description" db:"description"`

	// ImageKey is the object-storage key of the tour image, empty when
	// no image has been uploaded.
	ImageKey string `json:"image_key" db:"image_key"`

	// Duration is a free-text duration label, e.g. "7 días de viaje".
	Duration string `json:"duration" db:"duration"`

	// Price is a free-text price label, e.g. "7.5M". Not numeric.
	Price string `json:"price" db:"price"`

	// Category is either CategoryCity or CategoryPlace.
	Category string `json:"category" db:"category"`

	// CreatedAt is the timestamp at which the tour was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the tour.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ValidCategory reports whether c is one of the known catalog buckets.
func ValidCategory(c string) bool {
	return c == CategoryCity || c == CategoryPlace
}

package types

import "time"

// User represents an account in the system.
// The same record stores administrators and regular customers;
// the Admin flag is the only distinction between the two.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Username is the unique login name chosen by the user.
	Username string `json:"username" db:"username"`

	// Email is the user's email address. It is optional and, unlike
	// Username, carries no uniqueness constraint.
	Email string `json:"email" db:"email"`

	// Name is the user's given name. Optional.
	Name string `json:"name" db:"name"`

	// Surname is the user's family name. Optional.
	Surname string `json:"surname" db:"surname"`

	// ImageKey is the object-storage key of the user's profile image,
	// empty when no image has been uploaded.
	ImageKey string `json:"image_key" db:"image_key"`

	// Admin indicates whether the user may access the management surface
	// (dashboard, tour CRUD, reservation overview).
	Admin bool `json:"admin" db:"admin"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Principal is the authenticated identity resolved by the access guard
// and handed to every protected handler. Handlers receive it explicitly
// instead of reading ambient session state.
type Principal struct {
	// UserID is the identifier of the acting user.
	UserID int `json:"user_id"`

	// Username is the login name recorded when the session was opened.
	Username string `json:"username"`

	// Admin mirrors the user's admin flag at resolution time. It is
	// re-read from the store on every request, so revoking the flag
	// takes effect immediately.
	Admin bool `json:"admin"`
}

// Session is a server-side login session keyed by an opaque identifier.
// The identifier travels in a cookie; everything else stays in the store.
type Session struct {
	// ID is the opaque session identifier handed to the client.
	ID string `json:"-" db:"id"`

	// UserID references the user who opened the session.
	UserID int `json:"user_id" db:"user_id"`

	// Username is a snapshot of the login name at session creation.
	Username string `json:"username" db:"username"`

	// CreatedAt is the timestamp when the session was opened.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// ExpiresAt is the timestamp after which the session is rejected.
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}

// PasswordReset is a single-use token allowing a user to set a new
// password without knowing the old one.
type PasswordReset struct {
	// Token is the opaque reset token mailed to the user.
	Token string `json:"-" db:"token"`

	// UserID references the user the token was issued for.
	UserID int `json:"user_id" db:"user_id"`

	// ExpiresAt is the timestamp after which the token is rejected.
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}

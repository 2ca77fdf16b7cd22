package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrAmbiguousIdentity is returned when a login identifier matches more
// than one user, which can happen because emails are not unique and may
// collide with another user's username.
var ErrAmbiguousIdentity = errors.New("identifier matches multiple users")

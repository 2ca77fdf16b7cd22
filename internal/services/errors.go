package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrBadCredential is returned when the supplied password does not match
// the stored one.
var ErrBadCredential = errors.New("invalid credentials")

// ErrNotAdmin is returned by the admin-only login entry point when the
// credentials are valid but the account is not an administrator.
var ErrNotAdmin = errors.New("account is not an administrator")

// ErrUsernameTaken is returned on registration when the username is
// already in use.
var ErrUsernameTaken = errors.New("username already taken")

// ErrTourNotFound is returned when a reservation references a tour that
// does not exist.
var ErrTourNotFound = errors.New("tour not found")

// ValidationError collects per-field input problems. All fields are
// validated before persistence is attempted, so the caller sees every
// offending field at once rather than the first persistence failure.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid fields: %s", strings.Join(names, ", "))
}

func (e *ValidationError) add(field, problem string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = problem
}

func (e *ValidationError) ok() bool {
	return len(e.Fields) == 0
}

package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when a migration record does not exist.
	ErrNotFound = errors.New("migration not found")
	// ErrAlreadyExists is returned when creating a record whose ID is taken.
	ErrAlreadyExists = errors.New("migration already exists")
	// ErrInvalidTransition is returned for a disallowed status change.
	ErrInvalidTransition = errors.New("invalid status transition")
)

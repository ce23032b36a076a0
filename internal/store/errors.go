package store

import "errors"

var (
	// ErrNotFound is returned when a record id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrProtectedRecord is returned when attempting to delete a default
	// voice profile.
	ErrProtectedRecord = errors.New("cannot delete a default record")

	// ErrValidation is returned when user input is rejected before any
	// side effect takes place.
	ErrValidation = errors.New("validation failed")
)

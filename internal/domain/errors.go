package domain

import "errors"

var (
	// ErrNotFound is returned by stores when no entry exists for the key.
	ErrNotFound = errors.New("not found")

	// ErrUnknownSportType is returned when a sport type string is not one of
	// the supported values.
	ErrUnknownSportType = errors.New("unknown sport type")

	// ErrInvalidInput indicates a request that fails validation.
	ErrInvalidInput = errors.New("invalid input")
)

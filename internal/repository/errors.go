package repository

import "errors"

var (
	// ErrNotFound maps to HTTP 404.
	ErrNotFound = errors.New("not found")
	// ErrInvalidID maps to HTTP 400, never 500.
	ErrInvalidID = errors.New("invalid id")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

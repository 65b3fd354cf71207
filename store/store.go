package store

import "errors"

var (
	// ErrNotFound covers absent, expired and already-consumed records
	// alike; callers must not be able to tell which.
	ErrNotFound = errors.New("not found")

	ErrDuplicateEmail = errors.New("email already registered")
)

// Package common defines the sentinel errors shared across the storage and
// handler layers. Callers should match them with errors.Is.
package common

import "errors"

var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("already exists")
	ErrAuth       = errors.New("invalid credentials")
	ErrNotFound   = errors.New("not found")

	// ErrUnavailable marks the primary store as unreachable. It never maps to
	// an HTTP status: the gateway recovers from it via the mirror.
	ErrUnavailable = errors.New("database unavailable")
)

// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRevConflict indicates optimistic concurrency failure (expected rev mismatch).
	ErrRevConflict = errors.New("rev conflict")

	// ErrInvalidInput indicates a malformed slug, slot or request body.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPayloadTooLarge indicates the save state exceeds the configured ceiling.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrUnauthorized indicates a missing or invalid bearer token.
	ErrUnauthorized = errors.New("unauthorized")
)

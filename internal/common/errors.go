// Package common defines shared constants and sentinel errors used across
// the layers of Drivault. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Storage configuration errors. Fatal at startup: the service must not
	// accept uploads without a validated, writable storage root.
	ErrStorageConfig = errors.New("invalid storage configuration")

	// Upload validation errors.
	ErrInvalidFilename = errors.New("invalid filename")
)

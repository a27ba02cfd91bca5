package usecase

import "errors"

var (
	// ErrInvalidPassword is returned when the supplied password does not match
	// the configured hash, or when no password hash is configured at all.
	ErrInvalidPassword = errors.New("invalid password")
)

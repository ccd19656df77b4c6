package auth

import "errors"

var (
	// ErrMissingInput rejects a login attempt before any storage access.
	ErrMissingInput = errors.New("auth: email and password are required")

	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so responses cannot be used for account enumeration.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrInvalidToken covers signature mismatch, decode failure and expiry.
	// Callers must not distinguish these cases in client responses.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrNotFound is returned by stores when no credential record matches.
	ErrNotFound = errors.New("auth: not found")
)

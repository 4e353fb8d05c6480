package shared

import "errors"

var (
	// ErrUnknownPrincipal indicates login with an unregistered identifier.
	ErrUnknownPrincipal = errors.New("unknown principal")
	// ErrCSRFTokenMissing occurs when the CSRF token is missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

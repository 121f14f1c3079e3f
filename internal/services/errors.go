package services

import "errors"

// Closed error set surfaced by the services. Handlers map these to HTTP
// statuses; anything else is an internal error.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingToken       = errors.New("refresh token missing")
	// ErrTokenInvalid covers malformed, expired and unknown tokens alike so a
	// caller cannot probe which check failed.
	ErrTokenInvalid  = errors.New("invalid or expired token")
	ErrTokenMismatch = errors.New("refresh token revoked")
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailDelivery = errors.New("email could not be sent")
	ErrForbidden     = errors.New("forbidden")
)

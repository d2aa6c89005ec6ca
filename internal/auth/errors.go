package auth

import "errors"

var (
	// ErrEmailTaken indicates a signup with an already-registered email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserNotFound indicates the user row no longer exists.
	ErrUserNotFound = errors.New("user not found")
	// ErrBadToken indicates an unparsable, forged, or expired access token.
	ErrBadToken = errors.New("invalid token")
	// ErrBadGoogleToken indicates Google ID-token verification failed.
	ErrBadGoogleToken = errors.New("invalid google token")

	errInvalidFullName = errors.New("full name must be between 4 and 20 characters")
	errInvalidEmail    = errors.New("a valid email address is required")
	errInvalidPassword = errors.New("password must be between 8 and 128 characters")
)

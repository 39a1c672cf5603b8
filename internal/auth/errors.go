package auth

import "errors"

var (
	// ErrInvalidCredentials is the single signal for every login failure:
	// unknown email, wrong password, or a non-active account.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrTokenInvalid covers malformed, tampered and expired tokens alike.
	ErrTokenInvalid    = errors.New("invalid token")
	ErrSessionNotFound = errors.New("session not found")
	ErrAlreadyExists   = errors.New("email already registered")
)

package users

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailRegistered = errors.New("email already registered")
	ErrInvalidEmail    = errors.New("invalid email address")
)

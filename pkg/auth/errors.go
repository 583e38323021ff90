package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	ErrUserExists         = errors.New("auth: user already registered")
	ErrClosed             = errors.New("auth: user store is closed")
)

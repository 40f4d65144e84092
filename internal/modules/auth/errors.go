package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("too many failed attempts")
	ErrAuthDisabled       = errors.New("auth is disabled")
)

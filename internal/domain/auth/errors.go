package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrIncorrectPassword  = errors.New("old password is incorrect")
	ErrAdminOnly          = errors.New("admin access required")
)

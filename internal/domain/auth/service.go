package auth

import (
	"context"
	"time"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	// Logout revokes token until it would have expired anyway.
	Logout(ctx context.Context, token string, expiresAt time.Time) error
	UpdatePassword(ctx context.Context, req UpdatePasswordRequest) error
}

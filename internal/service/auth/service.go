package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/employee-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/employee-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/employee-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/employee-backend-go/internal/pkg/password"
)

type AuthServiceImpl struct {
	store      employee.EmployeeStore
	jwtService jwt.Service
	bcryptCost int
}

func NewAuthService(store employee.EmployeeStore, jwtService jwt.Service, bcryptCost int) auth.AuthService {
	return &AuthServiceImpl{
		store:      store,
		jwtService: jwtService,
		bcryptCost: bcryptCost,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	user, err := a.store.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := password.Compare(user.PasswordHash, req.Password); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.jwtService.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	slog.Info("user logged in", "user_id", user.ID, "role", user.Role)

	return auth.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User: auth.LoginUser{
			ID:         user.ID,
			Name:       user.Name,
			Email:      user.Email,
			Role:       string(user.Role),
			EmployeeID: user.EmployeeID,
		},
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string, expiresAt time.Time) error {
	if token == "" {
		return auth.ErrInvalidToken
	}
	if err := a.jwtService.RevokeToken(ctx, token, expiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// UpdatePassword implements auth.AuthService.
func (a *AuthServiceImpl) UpdatePassword(ctx context.Context, req auth.UpdatePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	return a.store.WithinTransaction(ctx, func(repo employee.EmployeeRepository) error {
		user, err := repo.LockByID(ctx, req.UserID, nil)
		if err != nil {
			return err
		}

		if err := password.Compare(user.PasswordHash, req.OldPassword); err != nil {
			if errors.Is(err, password.ErrMismatch) {
				return auth.ErrIncorrectPassword
			}
			return fmt.Errorf("failed to verify password: %w", err)
		}

		hashed, err := password.Hash(req.NewPassword, a.bcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		if _, err := repo.Update(ctx, user.ID, employee.EmployeePatch{PasswordHash: &hashed}); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		return nil
	})
}

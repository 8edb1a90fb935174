package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/employee-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/employee-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/employee-backend-go/internal/handler/http/response"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	UpdatePassword(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{
		authService: authService,
	}
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest

	if !decodeJSON(w, r, &loginReq) {
		return
	}

	if err := loginReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	loginResponse, err := a.authService.Login(r.Context(), loginReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("User logged in", "user_id", loginResponse.User.ID)
	response.SuccessWithMessage(w, "Login successful", loginResponse)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	if err := a.authService.Logout(r.Context(), caller.Token, caller.ExpiresAt); err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("User logged out", "user_id", caller.ID)
	response.SuccessWithMessage(w, "Logout successful", nil)
}

// UpdatePassword implements AuthHandler.
func (a *AuthHandlerImpl) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var updateReq auth.UpdatePasswordRequest
	if !decodeJSON(w, r, &updateReq) {
		return
	}
	updateReq.UserID = caller.ID

	if err := updateReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := a.authService.UpdatePassword(r.Context(), updateReq); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Password updated successfully", nil)
}

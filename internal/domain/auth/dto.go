package auth

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/employee-backend-go/internal/pkg/validator"
)

const (
	// MinPasswordLength applies to newly chosen passwords.
	MinPasswordLength = 6
	// MaxPasswordLength is the bcrypt input limit, in bytes.
	MaxPasswordLength = 72
)

// CheckPasswordLength rejects a newly chosen password outside the accepted
// bounds. It returns nil when the length is fine.
func CheckPasswordLength(field, password string) *validator.ValidationError {
	switch {
	case len(password) < MinPasswordLength:
		return &validator.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must be at least %d characters long", field, MinPasswordLength),
		}
	case len(password) > MaxPasswordLength:
		return &validator.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must not exceed %d bytes", field, MaxPasswordLength),
		}
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.TrimSpace(r.Email)
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	}
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LoginUser struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	EmployeeID string `json:"employeeId"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt int64     `json:"expiresAt"`
	User      LoginUser `json:"user"`
}

type UpdatePasswordRequest struct {
	UserID      string `json:"-"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (r *UpdatePasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.OldPassword) {
		errs = append(errs, validator.ValidationError{
			Field:   "oldPassword",
			Message: "oldPassword is required",
		})
	}
	if validator.IsEmpty(r.NewPassword) {
		errs = append(errs, validator.ValidationError{
			Field:   "newPassword",
			Message: "newPassword is required",
		})
	} else if verr := CheckPasswordLength("newPassword", r.NewPassword); verr != nil {
		errs = append(errs, *verr)
	}
	if r.OldPassword != "" && r.OldPassword == r.NewPassword {
		errs = append(errs, validator.ValidationError{
			Field:   "newPassword",
			Message: "newPassword must differ from oldPassword",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

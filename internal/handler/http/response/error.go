package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/employee-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/employee-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/employee-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/employee-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/employee-backend-go/internal/service/file"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		message := "Validation failed"
		if errors.Is(err, employee.ErrMissingRequiredFields) {
			message = "Missing required fields"
		}
		ValidationError(w, message, validationDetails(validationErrs))
		return
	}

	var conflict *employee.ConflictError
	if errors.As(err, &conflict) {
		details := make(map[string]interface{}, len(conflict.Fields))
		for _, field := range []string{employee.FieldEmail, employee.FieldEmployeeID} {
			if conflict.HasField(field) {
				details[field] = field + " already exists"
			}
		}
		Conflict(w, conflict.Error(), details)
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Not authorized, token invalid or expired")
	case errors.Is(err, auth.ErrAdminOnly):
		Forbidden(w, "Admin access required")
	case errors.Is(err, auth.ErrIncorrectPassword):
		BadRequest(w, "Old password is incorrect", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmptyUpdate):
		BadRequest(w, "No fields to update", nil)
	case errors.Is(err, employee.ErrProfilePictureInUse):
		Conflict(w, "Profile picture belongs to another employee", map[string]interface{}{
			employee.FieldProfilePictureKey: "profilePictureKey is already in use",
		})

	// Profile picture errors
	case errors.Is(err, file.ErrFileTooLarge):
		RequestEntityTooLarge(w, "File size must not exceed 5MB")
	case errors.Is(err, file.ErrInvalidImage):
		BadRequest(w, "Only image files are allowed", nil)
	case errors.Is(err, file.ErrInvalidFileName):
		BadRequest(w, "Invalid file name", nil)
	case errors.Is(err, file.ErrInvalidProfilePath):
		BadRequest(w, "Invalid profile picture key", nil)
	case errors.Is(err, file.ErrProfileNotUploaded):
		BadRequest(w, "Profile picture has not been uploaded", nil)
	case errors.Is(err, storage.ErrPresignUnsupported):
		NotImplemented(w, "Direct uploads are not supported by the configured storage")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

// validationDetails keys the first failure of each field by field name. Enum
// failures carry the rejected value and the allowed set.
func validationDetails(errs validator.ValidationErrors) map[string]interface{} {
	details := make(map[string]interface{}, len(errs))
	for _, field := range errs.Fields() {
		for _, e := range errs {
			if e.Field != field {
				continue
			}
			if e.Allowed != nil {
				details[field] = FieldDetail{Message: e.Message, Value: e.Value, Allowed: e.Allowed}
			} else {
				details[field] = e.Message
			}
			break
		}
	}
	return details
}

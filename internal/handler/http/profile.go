package http

import (
	"net/http"

	"github.com/cmlabs-hris/employee-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/employee-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/employee-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/employee-backend-go/internal/handler/http/response"
)

// ProfileHandler serves the caller's own record.
type ProfileHandler interface {
	GetProfile(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
	GetUploadURL(w http.ResponseWriter, r *http.Request)
}

type profileHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewProfileHandler(employeeService employee.EmployeeService) ProfileHandler {
	return &profileHandlerImpl{
		employeeService: employeeService,
	}
}

// GetProfile implements ProfileHandler
func (h *profileHandlerImpl) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	result, err := h.employeeService.GetProfile(r.Context(), caller.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateProfile implements ProfileHandler
func (h *profileHandlerImpl) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req employee.UpdateProfileRequest
	upload, cleanup, ok := decodeEmployeeBody(w, r, &req)
	if !ok {
		return
	}
	defer cleanup()
	req.ID = caller.ID
	req.ProfilePicture = upload

	result, err := h.employeeService.UpdateProfile(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Profile updated successfully", result)
}

// GetUploadURL implements ProfileHandler
func (h *profileHandlerImpl) GetUploadURL(w http.ResponseWriter, r *http.Request) {
	presignUpload(w, r, h.employeeService)
}

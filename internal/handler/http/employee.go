package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/employee-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/employee-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/employee-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// EmployeeHandler serves the admin employee endpoints.
type EmployeeHandler interface {
	CreateEmployee(w http.ResponseWriter, r *http.Request)
	ListEmployees(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	UpdateEmployee(w http.ResponseWriter, r *http.Request)
	DeleteEmployee(w http.ResponseWriter, r *http.Request)
	GetUploadURL(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
	}
}

// CreateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest

	upload, cleanup, ok := decodeEmployeeBody(w, r, &req)
	if !ok {
		return
	}
	defer cleanup()
	req.ProfilePicture = upload

	result, err := h.employeeService.CreateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Employee created", "id", result.ID, "employee_id", result.EmployeeID)
	response.Created(w, "Employee created successfully", result)
}

// ListEmployees implements EmployeeHandler
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	filter := parseEmployeeFilter(r)
	if caller, ok := middleware.CallerFromContext(r.Context()); ok {
		filter.ExcludeID = caller.ID
	}

	result, err := h.employeeService.ListEmployees(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.employeeService.GetEmployee(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.UpdateEmployeeRequest

	upload, cleanup, ok := decodeEmployeeBody(w, r, &req)
	if !ok {
		return
	}
	defer cleanup()
	req.ID = chi.URLParam(r, "id")
	req.ProfilePicture = upload

	result, err := h.employeeService.UpdateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee updated successfully", result)
}

// DeleteEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.employeeService.DeleteEmployee(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Employee deleted", "id", result.ID)
	response.SuccessWithMessage(w, "Employee deleted successfully", result)
}

// GetUploadURL implements EmployeeHandler
func (h *employeeHandlerImpl) GetUploadURL(w http.ResponseWriter, r *http.Request) {
	presignUpload(w, r, h.employeeService)
}

func presignUpload(w http.ResponseWriter, r *http.Request, svc employee.EmployeeService) {
	var req employee.PresignUploadRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := svc.GetProfileUploadURL(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// parseEmployeeFilter reads listing parameters. Malformed numbers fall back to
// the defaults applied by Normalize.
func parseEmployeeFilter(r *http.Request) employee.EmployeeFilter {
	q := r.URL.Query()
	filter := employee.EmployeeFilter{
		Search:      q.Get("search"),
		Department:  q.Get("department"),
		Designation: q.Get("designation"),
		SortBy:      q.Get("sortBy"),
		SortOrder:   q.Get("sortOrder"),
	}

	if p := q.Get("page"); p != "" {
		if page, err := strconv.Atoi(p); err == nil {
			filter.Page = page
		}
	}
	if l := q.Get("limit"); l != "" {
		if limit, err := strconv.Atoi(l); err == nil {
			filter.Limit = limit
		}
	}

	return filter
}

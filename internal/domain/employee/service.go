package employee

import (
	"context"
)

// EmployeeService defines business logic for employee records
type EmployeeService interface {
	// CreateEmployee validates, conflict-checks and inserts a record in one transaction
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// GetEmployee retrieves an Employee-role record by ID
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// ListEmployees lists Employee-role records with filters, search, sort and pagination
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)

	// UpdateEmployee applies a partial update to an Employee-role record (admin only)
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee physically removes an Employee-role record and its profile picture
	DeleteEmployee(ctx context.Context, id string) (DeleteEmployeeResponse, error)

	// GetProfile retrieves the caller's own record, whatever its role
	GetProfile(ctx context.Context, callerID string) (EmployeeResponse, error)

	// UpdateProfile applies a partial update to the caller's own record
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (EmployeeResponse, error)

	// GetProfileUploadURL issues a presigned URL for a direct profile picture upload
	GetProfileUploadURL(ctx context.Context, req PresignUploadRequest) (PresignUploadResponse, error)
}

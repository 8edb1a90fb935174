package employee

import (
	"fmt"
	"io"
	"strings"

	"github.com/cmlabs-hris/employee-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/employee-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// UploadedFile is a profile picture sent inline with a create or update request.
type UploadedFile struct {
	Content  io.Reader
	FileName string
}

type CreateEmployeeRequest struct {
	Name              string           `json:"name"`
	Email             string           `json:"email"`
	Password          string           `json:"password"`
	Designation       string           `json:"designation"`
	Department        string           `json:"department"`
	DateOfBirth       *string          `json:"dateOfBirth,omitempty"`
	EmployeeID        string           `json:"employeeId"`
	Salary            *decimal.Decimal `json:"salary,omitempty"`
	JoiningDate       string           `json:"joiningDate"`
	PhoneNumber       *string          `json:"phoneNumber,omitempty"`
	Status            *string          `json:"status,omitempty"`
	Role              *string          `json:"role,omitempty"`
	ProfilePictureKey *string          `json:"profilePictureKey,omitempty"`

	ProfilePicture *UploadedFile `json:"-"`
}

// Validate checks presence and format. Enum membership is checked separately
// by ValidateEnums.
func (r *CreateEmployeeRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)

	var missing validator.ValidationErrors
	required := []struct {
		field string
		value string
	}{
		{"name", r.Name},
		{"email", r.Email},
		{"password", r.Password},
		{"designation", r.Designation},
		{"department", r.Department},
		{"employeeId", r.EmployeeID},
		{"joiningDate", r.JoiningDate},
	}
	for _, f := range required {
		if validator.IsEmpty(f.value) {
			missing = append(missing, validator.ValidationError{
				Field:   f.field,
				Message: f.field + " is required",
			})
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %w", ErrMissingRequiredFields, missing)
	}

	var errs validator.ValidationErrors
	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}
	if _, ok := validator.IsValidDate(r.JoiningDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "joiningDate", Message: "joiningDate must be in YYYY-MM-DD format"})
	}
	if r.DateOfBirth != nil {
		if _, ok := validator.IsValidDate(*r.DateOfBirth); !ok {
			errs = append(errs, validator.ValidationError{Field: "dateOfBirth", Message: "dateOfBirth must be in YYYY-MM-DD format"})
		}
	}
	if verr := auth.CheckPasswordLength("password", r.Password); verr != nil {
		errs = append(errs, *verr)
	}
	if r.Salary != nil && r.Salary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "salary", Message: "salary must not be negative"})
	}
	if r.PhoneNumber != nil && !validator.IsValidPhoneNumber(*r.PhoneNumber) {
		errs = append(errs, validator.ValidationError{Field: "phoneNumber", Message: "phoneNumber must contain 7 to 15 digits"})
	}
	if r.ProfilePictureKey != nil && validator.IsEmpty(*r.ProfilePictureKey) {
		errs = append(errs, validator.ValidationError{Field: "profilePictureKey", Message: "profilePictureKey cannot be empty"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ProfileFields are the fields both the admin and the self-service update may touch.
type ProfileFields struct {
	Name              *string          `json:"name,omitempty"`
	Email             *string          `json:"email,omitempty"`
	Designation       *string          `json:"designation,omitempty"`
	Department        *string          `json:"department,omitempty"`
	DateOfBirth       *string          `json:"dateOfBirth,omitempty"`
	EmployeeID        *string          `json:"employeeId,omitempty"`
	Salary            *decimal.Decimal `json:"salary,omitempty"`
	JoiningDate       *string          `json:"joiningDate,omitempty"`
	PhoneNumber       *string          `json:"phoneNumber,omitempty"`
	Status            *string          `json:"status,omitempty"`
	ProfilePictureKey *string          `json:"profilePictureKey,omitempty"`
}

func (f *ProfileFields) validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	notEmpty := func(field string, value *string) {
		if value != nil && validator.IsEmpty(*value) {
			errs = append(errs, validator.ValidationError{Field: field, Message: field + " cannot be empty"})
		}
	}
	trim := func(value *string) {
		if value != nil {
			*value = strings.TrimSpace(*value)
		}
	}

	trim(f.Name)
	trim(f.Email)
	trim(f.EmployeeID)

	notEmpty("name", f.Name)
	notEmpty("employeeId", f.EmployeeID)
	notEmpty("profilePictureKey", f.ProfilePictureKey)

	if f.Email != nil && !validator.IsValidEmail(*f.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}
	if f.DateOfBirth != nil {
		if _, ok := validator.IsValidDate(*f.DateOfBirth); !ok {
			errs = append(errs, validator.ValidationError{Field: "dateOfBirth", Message: "dateOfBirth must be in YYYY-MM-DD format"})
		}
	}
	if f.JoiningDate != nil {
		if _, ok := validator.IsValidDate(*f.JoiningDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "joiningDate", Message: "joiningDate must be in YYYY-MM-DD format"})
		}
	}
	if f.Salary != nil && f.Salary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "salary", Message: "salary must not be negative"})
	}
	if f.PhoneNumber != nil && !validator.IsValidPhoneNumber(*f.PhoneNumber) {
		errs = append(errs, validator.ValidationError{Field: "phoneNumber", Message: "phoneNumber must contain 7 to 15 digits"})
	}

	return errs
}

// UpdateEmployeeRequest is the admin update of an Employee-role record.
type UpdateEmployeeRequest struct {
	ID string `json:"-"`
	ProfileFields
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`

	ProfilePicture *UploadedFile `json:"-"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	errs := r.ProfileFields.validate()
	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if r.Password != nil {
		if validator.IsEmpty(*r.Password) {
			errs = append(errs, validator.ValidationError{Field: "password", Message: "password cannot be empty"})
		} else if verr := auth.CheckPasswordLength("password", *r.Password); verr != nil {
			errs = append(errs, *verr)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateProfileRequest is the caller's update of their own record. Role and
// password are not part of it.
type UpdateProfileRequest struct {
	ID string `json:"-"`
	ProfileFields

	ProfilePicture *UploadedFile `json:"-"`
}

func (r *UpdateProfileRequest) Validate() error {
	errs := r.ProfileFields.validate()
	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PresignUploadRequest struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
}

func (r *PresignUploadRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.FileName) {
		errs = append(errs, validator.ValidationError{Field: "fileName", Message: "fileName is required"})
	}
	if validator.IsEmpty(r.FileType) {
		errs = append(errs, validator.ValidationError{Field: "fileType", Message: "fileType is required"})
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrMissingRequiredFields, errs)
	}
	return nil
}

type PresignUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

type SortField string

const (
	SortByName        SortField = "name"
	SortByDepartment  SortField = "department"
	SortByJoiningDate SortField = "joiningDate"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// EmployeeFilter is the raw listing input as received from the caller.
type EmployeeFilter struct {
	Page        int
	Limit       int
	Search      string
	Department  string
	Designation string
	SortBy      string
	SortOrder   string
	ExcludeID   string
}

// ListQuery is a normalized EmployeeFilter. A nil SortBy means newest first.
type ListQuery struct {
	Page        int
	Limit       int
	Search      string
	Department  *Department
	Designation *Designation
	SortBy      *SortField
	SortOrder   SortOrder
	ExcludeID   string
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Normalize applies defaults and bounds. Unknown department, designation and
// sort values are dropped rather than rejected.
func (f EmployeeFilter) Normalize() ListQuery {
	q := ListQuery{
		Page:      f.Page,
		Limit:     f.Limit,
		Search:    strings.TrimSpace(f.Search),
		SortOrder: SortAsc,
		ExcludeID: f.ExcludeID,
	}

	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}

	if d, ok := ParseDepartment(f.Department); ok {
		q.Department = &d
	}
	if d, ok := ParseDesignation(f.Designation); ok {
		q.Designation = &d
	}

	switch field := SortField(f.SortBy); field {
	case SortByName, SortByDepartment, SortByJoiningDate:
		q.SortBy = &field
	}
	if strings.EqualFold(f.SortOrder, string(SortDesc)) {
		q.SortOrder = SortDesc
	}

	return q
}

type EmployeeResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	Designation       string  `json:"designation"`
	Department        string  `json:"department"`
	DateOfBirth       *string `json:"dateOfBirth"`
	EmployeeID        string  `json:"employeeId"`
	Salary            *string `json:"salary"`
	JoiningDate       string  `json:"joiningDate"`
	PhoneNumber       *string `json:"phoneNumber"`
	ProfilePictureKey *string `json:"profilePictureKey"`
	ProfilePictureURL *string `json:"profilePictureUrl"`
	Status            string  `json:"status"`
	Role              string  `json:"role"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

type PaginationMeta struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

type ListEmployeeResponse struct {
	Employees  []EmployeeResponse `json:"employees"`
	Pagination PaginationMeta     `json:"pagination"`
}

type DeleteEmployeeResponse struct {
	ID string `json:"id"`
}

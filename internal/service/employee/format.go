package employee

import (
	"time"

	"github.com/cmlabs-hris/employee-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/employee-backend-go/internal/pkg/validator"
)

// timestampLayout is RFC 3339 with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// toEmployeeResponse strips the password hash and renders dates and amounts as text.
func toEmployeeResponse(emp employee.Employee, pictureURL *string) employee.EmployeeResponse {
	var dob *string
	if emp.DateOfBirth != nil {
		s := emp.DateOfBirth.Format(validator.DateLayout)
		dob = &s
	}

	var salary *string
	if emp.Salary != nil {
		s := emp.Salary.StringFixed(2)
		salary = &s
	}

	return employee.EmployeeResponse{
		ID:                emp.ID,
		Name:              emp.Name,
		Email:             emp.Email,
		Designation:       string(emp.Designation),
		Department:        string(emp.Department),
		DateOfBirth:       dob,
		EmployeeID:        emp.EmployeeID,
		Salary:            salary,
		JoiningDate:       emp.JoiningDate.Format(validator.DateLayout),
		PhoneNumber:       emp.PhoneNumber,
		ProfilePictureKey: emp.ProfilePictureKey,
		ProfilePictureURL: pictureURL,
		Status:            string(emp.Status),
		Role:              string(emp.Role),
		CreatedAt:         formatTimestamp(emp.CreatedAt),
		UpdatedAt:         formatTimestamp(emp.UpdatedAt),
	}
}

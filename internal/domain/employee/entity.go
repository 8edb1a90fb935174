package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID                string
	Name              string
	Email             string
	PasswordHash      string
	Designation       Designation
	Department        Department
	DateOfBirth       *time.Time
	EmployeeID        string
	Salary            *decimal.Decimal
	JoiningDate       time.Time
	PhoneNumber       *string
	ProfilePictureKey *string
	Status            Status
	Role              Role
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// EmployeePatch is a partial update. A nil field is left untouched; fields
// cannot be cleared to NULL through a patch.
type EmployeePatch struct {
	Name              *string
	Email             *string
	PasswordHash      *string
	Designation       *Designation
	Department        *Department
	DateOfBirth       *time.Time
	EmployeeID        *string
	Salary            *decimal.Decimal
	JoiningDate       *time.Time
	PhoneNumber       *string
	ProfilePictureKey *string
	Status            *Status
	Role              *Role
}

func (p EmployeePatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.PasswordHash == nil &&
		p.Designation == nil && p.Department == nil && p.DateOfBirth == nil &&
		p.EmployeeID == nil && p.Salary == nil && p.JoiningDate == nil &&
		p.PhoneNumber == nil && p.ProfilePictureKey == nil && p.Status == nil &&
		p.Role == nil
}

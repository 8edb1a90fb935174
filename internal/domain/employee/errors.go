package employee

import (
	"errors"
	"strings"
)

const (
	FieldEmail             = "email"
	FieldEmployeeID        = "employeeId"
	FieldProfilePictureKey = "profilePictureKey"
)

var (
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrConflict              = errors.New("employee already exists")
	ErrEmptyUpdate           = errors.New("no fields to update")
	ErrProfilePictureInUse   = errors.New("profile picture belongs to another employee")
)

// ConflictError reports which unique fields collided with an existing record.
type ConflictError struct {
	Fields []string
}

func (e *ConflictError) Error() string {
	var names []string
	for _, f := range e.Fields {
		switch f {
		case FieldEmail:
			names = append(names, "email")
		case FieldEmployeeID:
			names = append(names, "employee ID")
		default:
			names = append(names, f)
		}
	}
	if len(names) == 0 {
		names = []string{"email", "employee ID"}
	}
	return "User already exists with this " + strings.Join(names, " or ")
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// HasField reports whether field is among the collided fields.
func (e *ConflictError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f == field {
			return true
		}
	}
	return false
}

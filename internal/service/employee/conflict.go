package employee

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/employee-backend-go/internal/domain/employee"
)

// checkConflicts rejects an email or employee ID already held by another record.
// It must run on the repository of the transaction that performs the write.
func checkConflicts(ctx context.Context, repo employee.EmployeeRepository, email, employeeID *string, excludeID *string) error {
	if email == nil && employeeID == nil {
		return nil
	}

	matches, err := repo.FindConflicts(ctx, email, employeeID, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check employee conflicts: %w", err)
	}
	if len(matches) == 0 {
		return nil
	}

	var emailTaken, employeeIDTaken bool
	for _, m := range matches {
		if email != nil && m.Email == *email {
			emailTaken = true
		}
		if employeeID != nil && m.EmployeeID == *employeeID {
			employeeIDTaken = true
		}
	}

	conflict := &employee.ConflictError{}
	if emailTaken {
		conflict.Fields = append(conflict.Fields, employee.FieldEmail)
	}
	if employeeIDTaken {
		conflict.Fields = append(conflict.Fields, employee.FieldEmployeeID)
	}
	return conflict
}

// checkPictureOwner rejects a client-supplied picture key that a record other
// than ownerID already references.
func checkPictureOwner(ctx context.Context, repo employee.EmployeeRepository, key, ownerID string) error {
	inUse, err := repo.ProfilePictureInUse(ctx, key, ownerID)
	if err != nil {
		return err
	}
	if inUse {
		return employee.ErrProfilePictureInUse
	}
	return nil
}

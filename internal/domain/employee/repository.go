package employee

import "context"

// Conflict is an existing record whose email or employee ID matched a lookup.
type Conflict struct {
	Email      string
	EmployeeID string
}

type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)

	// LockByID loads the record and holds a row lock until the surrounding
	// transaction ends. A nil role matches any role.
	LockByID(ctx context.Context, id string, role *Role) (Employee, error)

	// FindConflicts returns records matching email or employeeID, skipping
	// excludeID when it is set.
	FindConflicts(ctx context.Context, email, employeeID *string, excludeID *string) ([]Conflict, error)

	// ProfilePictureInUse reports whether a record other than excludeID
	// references key.
	ProfilePictureInUse(ctx context.Context, key string, excludeID string) (bool, error)

	Update(ctx context.Context, id string, patch EmployeePatch) (Employee, error)
	Delete(ctx context.Context, id string) error

	// List returns one page of Employee-role records and the total match count.
	List(ctx context.Context, query ListQuery) ([]Employee, int64, error)
}

// EmployeeStore hands out repositories bound either to the pool or to a
// single transaction.
type EmployeeStore interface {
	EmployeeRepository

	// WithinTransaction runs fn with a repository bound to one transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTransaction(ctx context.Context, fn func(repo EmployeeRepository) error) error
}

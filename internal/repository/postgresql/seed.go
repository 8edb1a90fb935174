package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/employee-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/employee-backend-go/internal/pkg/database"
)

// SeedAdmin inserts admin unless a record with the same email or employee ID
// already exists. It reports whether a row was inserted.
func SeedAdmin(ctx context.Context, db *database.DB, admin employee.Employee) (bool, error) {
	query := `
		INSERT INTO users (
			name, email, password, designation, department, date_of_birth,
			employee_id, salary, joining_date, phone_number, status, role
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12
		)
		ON CONFLICT DO NOTHING
	`

	tag, err := db.Exec(ctx, query,
		admin.Name, admin.Email, admin.PasswordHash,
		string(admin.Designation), string(admin.Department), admin.DateOfBirth,
		admin.EmployeeID, admin.Salary, admin.JoiningDate, admin.PhoneNumber,
		string(admin.Status), string(employee.RoleAdmin),
	)
	if err != nil {
		return false, fmt.Errorf("failed to seed admin %s: %w", admin.Email, err)
	}

	return tag.RowsAffected() > 0, nil
}

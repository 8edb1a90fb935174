package postgresql_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/employee-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/employee-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/employee-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// newTestDatabase connects to TEST_DATABASE_URL, applies migrations and
// empties the users table. Tests are skipped when the variable is unset.
func newTestDatabase(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping PostgreSQL integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = postgresql.RunMigrations(ctx, db)
	require.NoError(t, err)

	truncateUsers(t, db)
	t.Cleanup(func() { truncateUsers(t, db) })

	return db
}

func truncateUsers(t *testing.T, db *database.DB) {
	t.Helper()
	_, err := db.Exec(context.Background(), "TRUNCATE TABLE users CASCADE")
	require.NoError(t, err)
}

func newEmployee(name, email, employeeID string) employee.Employee {
	salary := decimal.NewFromInt(50000)
	return employee.Employee{
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuu4n0aV0Q6wQmGk8p5bGq0kQ2Zp2b1mW",
		Designation:  employee.DesignationDeveloper,
		Department:   employee.DepartmentEngineering,
		EmployeeID:   employeeID,
		Salary:       &salary,
		JoiningDate:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:       employee.StatusCurrentEmployee,
		Role:         employee.RoleEmployee,
	}
}

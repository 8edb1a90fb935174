package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/employee-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/employee-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `id, name, email, password, designation, department, date_of_birth,
	employee_id, salary, joining_date, phone_number, profile_picture_key,
	status, role, created_at, updated_at`

// Unique constraint names created by the users migration.
const (
	constraintUsersEmail          = "users_email_key"
	constraintUsersEmployeeID     = "users_employee_id_key"
	constraintUsersProfilePicture = "users_profile_picture_key_key"
)

var employeeSortColumns = map[employee.SortField]string{
	employee.SortByName:        "name",
	employee.SortByDepartment:  "department",
	employee.SortByJoiningDate: "joining_date",
}

type employeeRepositoryImpl struct {
	q database.Querier
}

type employeeStoreImpl struct {
	*employeeRepositoryImpl
	db *database.DB
}

// NewEmployeeStore returns a store whose direct methods run on the pool.
func NewEmployeeStore(db *database.DB) employee.EmployeeStore {
	return &employeeStoreImpl{
		employeeRepositoryImpl: &employeeRepositoryImpl{q: db.Pool},
		db:                     db,
	}
}

// WithinTransaction implements employee.EmployeeStore.
func (s *employeeStoreImpl) WithinTransaction(ctx context.Context, fn func(repo employee.EmployeeRepository) error) error {
	return WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		return fn(&employeeRepositoryImpl{q: tx})
	})
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Email, &emp.PasswordHash, &emp.Designation, &emp.Department,
		&emp.DateOfBirth, &emp.EmployeeID, &emp.Salary, &emp.JoiningDate, &emp.PhoneNumber,
		&emp.ProfilePictureKey, &emp.Status, &emp.Role, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}
	return emp, nil
}

// mapWriteError turns a unique violation into the conflict the application
// check would have reported.
func mapWriteError(err error) error {
	constraint, ok := database.UniqueViolation(err)
	if !ok {
		return err
	}
	switch constraint {
	case constraintUsersEmail:
		return &employee.ConflictError{Fields: []string{employee.FieldEmail}}
	case constraintUsersEmployeeID:
		return &employee.ConflictError{Fields: []string{employee.FieldEmployeeID}}
	case constraintUsersProfilePicture:
		return employee.ErrProfilePictureInUse
	default:
		return &employee.ConflictError{}
	}
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	query := `
		INSERT INTO users (
			name, email, password, designation, department, date_of_birth,
			employee_id, salary, joining_date, phone_number, profile_picture_key,
			status, role
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13
		)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(r.q.QueryRow(ctx, query,
		newEmployee.Name, newEmployee.Email, newEmployee.PasswordHash,
		string(newEmployee.Designation), string(newEmployee.Department), newEmployee.DateOfBirth,
		newEmployee.EmployeeID, newEmployee.Salary, newEmployee.JoiningDate, newEmployee.PhoneNumber,
		newEmployee.ProfilePictureKey, string(newEmployee.Status), string(newEmployee.Role),
	))
	if err != nil {
		return employee.Employee{}, mapWriteError(err)
	}
	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM users WHERE id = $1`
	return scanEmployee(r.q.QueryRow(ctx, query, id))
}

// GetByEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM users WHERE email = $1`
	return scanEmployee(r.q.QueryRow(ctx, query, email))
}

// LockByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) LockByID(ctx context.Context, id string, role *employee.Role) (employee.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM users WHERE id = $1`
	args := []interface{}{id}
	if role != nil {
		query += ` AND role = $2`
		args = append(args, string(*role))
	}
	query += ` FOR UPDATE`

	return scanEmployee(r.q.QueryRow(ctx, query, args...))
}

// FindConflicts implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) FindConflicts(ctx context.Context, email, employeeID *string, excludeID *string) ([]employee.Conflict, error) {
	var matches []string
	var args []interface{}
	argIdx := 1

	if email != nil {
		matches = append(matches, fmt.Sprintf("email = $%d", argIdx))
		args = append(args, *email)
		argIdx++
	}
	if employeeID != nil {
		matches = append(matches, fmt.Sprintf("employee_id = $%d", argIdx))
		args = append(args, *employeeID)
		argIdx++
	}
	if len(matches) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT email, employee_id FROM users WHERE (%s)`, strings.Join(matches, " OR "))
	if excludeID != nil {
		query += fmt.Sprintf(" AND id <> $%d", argIdx)
		args = append(args, *excludeID)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to look up conflicting employees: %w", err)
	}
	defer rows.Close()

	var conflicts []employee.Conflict
	for rows.Next() {
		var c employee.Conflict
		if err := rows.Scan(&c.Email, &c.EmployeeID); err != nil {
			return nil, err
		}
		conflicts = append(conflicts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return conflicts, nil
}

// ProfilePictureInUse implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ProfilePictureInUse(ctx context.Context, key string, excludeID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE profile_picture_key = $1 AND id <> $2)`

	var inUse bool
	if err := r.q.QueryRow(ctx, query, key, excludeID).Scan(&inUse); err != nil {
		return false, fmt.Errorf("failed to check profile picture owner: %w", err)
	}
	return inUse, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, id string, patch employee.EmployeePatch) (employee.Employee, error) {
	var updates []string
	var args []interface{}
	argIdx := 1

	set := func(column string, value interface{}) {
		updates = append(updates, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Email != nil {
		set("email", *patch.Email)
	}
	if patch.PasswordHash != nil {
		set("password", *patch.PasswordHash)
	}
	if patch.Designation != nil {
		set("designation", string(*patch.Designation))
	}
	if patch.Department != nil {
		set("department", string(*patch.Department))
	}
	if patch.DateOfBirth != nil {
		set("date_of_birth", *patch.DateOfBirth)
	}
	if patch.EmployeeID != nil {
		set("employee_id", *patch.EmployeeID)
	}
	if patch.Salary != nil {
		set("salary", *patch.Salary)
	}
	if patch.JoiningDate != nil {
		set("joining_date", *patch.JoiningDate)
	}
	if patch.PhoneNumber != nil {
		set("phone_number", *patch.PhoneNumber)
	}
	if patch.ProfilePictureKey != nil {
		set("profile_picture_key", *patch.ProfilePictureKey)
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	if patch.Role != nil {
		set("role", string(*patch.Role))
	}

	if len(updates) == 0 {
		return employee.Employee{}, employee.ErrEmptyUpdate
	}

	updates = append(updates, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(updates, ", "), argIdx, employeeColumns)

	updated, err := scanEmployee(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return employee.Employee{}, mapWriteError(err)
	}
	return updated, nil
}

// Delete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, query employee.ListQuery) ([]employee.Employee, int64, error) {
	whereClause, args := buildEmployeeWhere(query)
	argIdx := len(args) + 1

	countQuery := `SELECT COUNT(*) FROM users ` + whereClause

	var total int64
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM users
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, employeeColumns, whereClause, employeeOrderBy(query), argIdx, argIdx+1)

	args = append(args, query.Limit, query.Offset())

	rows, err := r.q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0, query.Limit)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func buildEmployeeWhere(query employee.ListQuery) (string, []interface{}) {
	whereClause := "WHERE role = $1"
	args := []interface{}{string(employee.RoleEmployee)}
	argIndex := 2

	if query.ExcludeID != "" {
		whereClause += fmt.Sprintf(" AND id <> $%d", argIndex)
		args = append(args, query.ExcludeID)
		argIndex++
	}

	if query.Search != "" {
		whereClause += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+escapeLike(query.Search)+"%")
		argIndex++
	}

	if query.Department != nil {
		whereClause += fmt.Sprintf(" AND department = $%d", argIndex)
		args = append(args, string(*query.Department))
		argIndex++
	}

	if query.Designation != nil {
		whereClause += fmt.Sprintf(" AND designation = $%d", argIndex)
		args = append(args, string(*query.Designation))
	}

	return whereClause, args
}

func employeeOrderBy(query employee.ListQuery) string {
	if query.SortBy == nil {
		return "created_at DESC, id ASC"
	}
	column, ok := employeeSortColumns[*query.SortBy]
	if !ok {
		return "created_at DESC, id ASC"
	}
	direction := "ASC"
	if query.SortOrder == employee.SortDesc {
		direction = "DESC"
	}
	return fmt.Sprintf("%s %s, id ASC", column, direction)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes search text match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

package employee

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/employee-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConflicts(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()

	ann, err := store.Create(ctx, employee.Employee{Name: "Ann", Email: "ann@example.com", EmployeeID: "EMP-001"})
	require.NoError(t, err)
	_, err = store.Create(ctx, employee.Employee{Name: "Bob", Email: "bob@example.com", EmployeeID: "EMP-002"})
	require.NoError(t, err)

	repo := &memoryRepo{s: store}

	assert.NoError(t, checkConflicts(ctx, repo, nil, nil, nil))
	assert.NoError(t, checkConflicts(ctx, repo, ptr("new@example.com"), ptr("EMP-009"), nil))
	assert.NoError(t, checkConflicts(ctx, repo, ptr("ann@example.com"), ptr("EMP-001"), &ann.ID))

	err = checkConflicts(ctx, repo, ptr("ann@example.com"), ptr("EMP-002"), nil)
	var conflict *employee.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{employee.FieldEmail, employee.FieldEmployeeID}, conflict.Fields)
	assert.Equal(t, "User already exists with this email or employee ID", err.Error())

	err = checkConflicts(ctx, repo, nil, ptr("EMP-002"), &ann.ID)
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{employee.FieldEmployeeID}, conflict.Fields)
	assert.Equal(t, "User already exists with this employee ID", err.Error())
}

func TestCheckPictureOwner(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()

	key := "profiles/EMP-001-1-ann.png"
	ann, err := store.Create(ctx, employee.Employee{Name: "Ann", Email: "ann@example.com", EmployeeID: "EMP-001", ProfilePictureKey: &key})
	require.NoError(t, err)
	bob, err := store.Create(ctx, employee.Employee{Name: "Bob", Email: "bob@example.com", EmployeeID: "EMP-002"})
	require.NoError(t, err)

	repo := &memoryRepo{s: store}

	assert.NoError(t, checkPictureOwner(ctx, repo, key, ann.ID))
	assert.NoError(t, checkPictureOwner(ctx, repo, "profiles/EMP-002-1-bob.png", bob.ID))
	assert.ErrorIs(t, checkPictureOwner(ctx, repo, key, bob.ID), employee.ErrProfilePictureInUse)
}

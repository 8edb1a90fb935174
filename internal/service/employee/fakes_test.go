package employee

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/employee-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/employee-backend-go/internal/service/file"
	"github.com/google/uuid"
)

// memoryStore is an in-memory EmployeeStore. Transactions snapshot the rows
// and restore them when the callback fails.
type memoryStore struct {
	mu        sync.Mutex
	rows      map[string]employee.Employee
	clock     time.Time
	listErr   error
	updateErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		rows:  make(map[string]employee.Employee),
		clock: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (s *memoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func (s *memoryStore) WithinTransaction(ctx context.Context, fn func(repo employee.EmployeeRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[string]employee.Employee, len(s.rows))
	for k, v := range s.rows {
		snapshot[k] = v
	}

	if err := fn(&memoryRepo{s: s}); err != nil {
		s.rows = snapshot
		return err
	}
	return nil
}

func (s *memoryStore) locked() (*memoryRepo, func()) {
	s.mu.Lock()
	return &memoryRepo{s: s}, s.mu.Unlock
}

func (s *memoryStore) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r, unlock := s.locked()
	defer unlock()
	return r.Create(ctx, e)
}

func (s *memoryStore) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r, unlock := s.locked()
	defer unlock()
	return r.GetByID(ctx, id)
}

func (s *memoryStore) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	r, unlock := s.locked()
	defer unlock()
	return r.GetByEmail(ctx, email)
}

func (s *memoryStore) LockByID(ctx context.Context, id string, role *employee.Role) (employee.Employee, error) {
	r, unlock := s.locked()
	defer unlock()
	return r.LockByID(ctx, id, role)
}

func (s *memoryStore) FindConflicts(ctx context.Context, email, employeeID *string, excludeID *string) ([]employee.Conflict, error) {
	r, unlock := s.locked()
	defer unlock()
	return r.FindConflicts(ctx, email, employeeID, excludeID)
}

func (s *memoryStore) ProfilePictureInUse(ctx context.Context, key string, excludeID string) (bool, error) {
	r, unlock := s.locked()
	defer unlock()
	return r.ProfilePictureInUse(ctx, key, excludeID)
}

func (s *memoryStore) Update(ctx context.Context, id string, patch employee.EmployeePatch) (employee.Employee, error) {
	r, unlock := s.locked()
	defer unlock()
	return r.Update(ctx, id, patch)
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	r, unlock := s.locked()
	defer unlock()
	return r.Delete(ctx, id)
}

func (s *memoryStore) List(ctx context.Context, query employee.ListQuery) ([]employee.Employee, int64, error) {
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	r, unlock := s.locked()
	defer unlock()
	return r.List(ctx, query)
}

// memoryRepo assumes the store mutex is held.
type memoryRepo struct {
	s *memoryStore
}

func (r *memoryRepo) tick() time.Time {
	r.s.clock = r.s.clock.Add(time.Second)
	return r.s.clock
}

// unique mimics the users_email_key, users_employee_id_key and
// users_profile_picture_key_key constraints.
func (r *memoryRepo) unique(e employee.Employee) error {
	for _, row := range r.s.rows {
		if row.ID == e.ID {
			continue
		}
		if row.Email == e.Email {
			return &employee.ConflictError{Fields: []string{employee.FieldEmail}}
		}
		if row.EmployeeID == e.EmployeeID {
			return &employee.ConflictError{Fields: []string{employee.FieldEmployeeID}}
		}
		if row.ProfilePictureKey != nil && e.ProfilePictureKey != nil && *row.ProfilePictureKey == *e.ProfilePictureKey {
			return employee.ErrProfilePictureInUse
		}
	}
	return nil
}

func (r *memoryRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	e.ID = uuid.NewString()
	if err := r.unique(e); err != nil {
		return employee.Employee{}, err
	}
	now := r.tick()
	e.CreatedAt, e.UpdatedAt = now, now
	r.s.rows[e.ID] = e
	return e, nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := r.s.rows[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *memoryRepo) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	for _, e := range r.s.rows {
		if e.Email == email {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *memoryRepo) LockByID(ctx context.Context, id string, role *employee.Role) (employee.Employee, error) {
	e, err := r.GetByID(ctx, id)
	if err != nil {
		return employee.Employee{}, err
	}
	if role != nil && e.Role != *role {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *memoryRepo) FindConflicts(ctx context.Context, email, employeeID *string, excludeID *string) ([]employee.Conflict, error) {
	var out []employee.Conflict
	for _, e := range r.s.rows {
		if excludeID != nil && e.ID == *excludeID {
			continue
		}
		if (email != nil && e.Email == *email) || (employeeID != nil && e.EmployeeID == *employeeID) {
			out = append(out, employee.Conflict{Email: e.Email, EmployeeID: e.EmployeeID})
		}
	}
	return out, nil
}

func (r *memoryRepo) ProfilePictureInUse(ctx context.Context, key string, excludeID string) (bool, error) {
	for _, e := range r.s.rows {
		if e.ID != excludeID && e.ProfilePictureKey != nil && *e.ProfilePictureKey == key {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) Update(ctx context.Context, id string, patch employee.EmployeePatch) (employee.Employee, error) {
	if r.s.updateErr != nil {
		return employee.Employee{}, r.s.updateErr
	}
	if patch.IsEmpty() {
		return employee.Employee{}, employee.ErrEmptyUpdate
	}
	e, ok := r.s.rows[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	updated := applyPatch(e, patch)
	if err := r.unique(updated); err != nil {
		return employee.Employee{}, err
	}
	updated.UpdatedAt = r.tick()
	r.s.rows[id] = updated
	return updated, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.s.rows[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(r.s.rows, id)
	return nil
}

func (r *memoryRepo) List(ctx context.Context, q employee.ListQuery) ([]employee.Employee, int64, error) {
	var matched []employee.Employee
	search := strings.ToLower(q.Search)
	for _, e := range r.s.rows {
		if e.Role != employee.RoleEmployee || e.ID == q.ExcludeID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Name), search) &&
			!strings.Contains(strings.ToLower(e.Email), search) {
			continue
		}
		if q.Department != nil && e.Department != *q.Department {
			continue
		}
		if q.Designation != nil && e.Designation != *q.Designation {
			continue
		}
		matched = append(matched, e)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if q.SortBy == nil {
			return a.CreatedAt.After(b.CreatedAt)
		}
		var less bool
		switch *q.SortBy {
		case employee.SortByName:
			less = a.Name < b.Name
		case employee.SortByDepartment:
			less = a.Department < b.Department
		case employee.SortByJoiningDate:
			less = a.JoiningDate.Before(b.JoiningDate)
		}
		if q.SortOrder == employee.SortDesc {
			return !less
		}
		return less
	})

	total := int64(len(matched))
	start := q.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// applyPatch returns a copy of e with the non-nil patch fields applied.
func applyPatch(e employee.Employee, p employee.EmployeePatch) employee.Employee {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Email != nil {
		e.Email = *p.Email
	}
	if p.PasswordHash != nil {
		e.PasswordHash = *p.PasswordHash
	}
	if p.Designation != nil {
		e.Designation = *p.Designation
	}
	if p.Department != nil {
		e.Department = *p.Department
	}
	if p.DateOfBirth != nil {
		dob := *p.DateOfBirth
		e.DateOfBirth = &dob
	}
	if p.EmployeeID != nil {
		e.EmployeeID = *p.EmployeeID
	}
	if p.Salary != nil {
		salary := *p.Salary
		e.Salary = &salary
	}
	if p.JoiningDate != nil {
		e.JoiningDate = *p.JoiningDate
	}
	if p.PhoneNumber != nil {
		phone := *p.PhoneNumber
		e.PhoneNumber = &phone
	}
	if p.ProfilePictureKey != nil {
		key := *p.ProfilePictureKey
		e.ProfilePictureKey = &key
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.Role != nil {
		e.Role = *p.Role
	}
	return e
}

// fakeFiles records gateway calls. Keys listed in missing were never uploaded.
type fakeFiles struct {
	mu        sync.Mutex
	uploaded  []string
	deleted   []string
	missing   map[string]bool
	uploadErr error
	urlFails  bool
}

func (f *fakeFiles) UploadProfilePicture(ctx context.Context, employeeID string, r io.Reader, fileName string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	key := "profiles/" + employeeID + "-1700000000000-" + fileName
	f.mu.Lock()
	f.uploaded = append(f.uploaded, key)
	f.mu.Unlock()
	return key, nil
}

func (f *fakeFiles) PresignProfileUpload(ctx context.Context, fileName, fileType string) (file.PresignedUpload, error) {
	if !strings.HasPrefix(fileType, "image/") {
		return file.PresignedUpload{}, file.ErrInvalidImage
	}
	key := "profiles/" + uuid.NewString() + "-1700000000000-" + fileName
	return file.PresignedUpload{UploadURL: "https://bucket.test/" + key + "?sig=1", Key: key, ExpiresIn: 300}, nil
}

func (f *fakeFiles) ValidateProfileKey(ctx context.Context, key string) error {
	if !strings.HasPrefix(key, "profiles/") || strings.Contains(key, "..") {
		return file.ErrInvalidProfilePath
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missing[key] {
		return file.ErrProfileNotUploaded
	}
	return nil
}

func (f *fakeFiles) DeleteFile(ctx context.Context, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
}

func (f *fakeFiles) ProfilePictureURL(ctx context.Context, key *string) *string {
	if key == nil || *key == "" || f.urlFails {
		return nil
	}
	url := "https://cdn.test/" + *key
	return &url
}

var errStorageDown = errors.New("storage unavailable")

package employee

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/employee-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/employee-backend-go/internal/pkg/password"
	"github.com/cmlabs-hris/employee-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/employee-backend-go/internal/service/file"
	"golang.org/x/sync/errgroup"
)

// urlWorkers bounds concurrent profile picture URL lookups while formatting a page.
const urlWorkers = 8

type EmployeeServiceImpl struct {
	store       employee.EmployeeStore
	fileService file.FileService
	bcryptCost  int
}

func NewEmployeeService(store employee.EmployeeStore, fileService file.FileService, bcryptCost int) employee.EmployeeService {
	return &EmployeeServiceImpl{
		store:       store,
		fileService: fileService,
		bcryptCost:  bcryptCost,
	}
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if req.ProfilePictureKey != nil && req.ProfilePicture == nil {
		if err := s.fileService.ValidateProfileKey(ctx, *req.ProfilePictureKey); err != nil {
			return employee.EmployeeResponse{}, err
		}
	}

	var created employee.Employee
	var uploadedKey string
	err := s.store.WithinTransaction(ctx, func(repo employee.EmployeeRepository) error {
		if err := checkConflicts(ctx, repo, &req.Email, &req.EmployeeID, nil); err != nil {
			return err
		}

		status := string(employee.StatusCurrentEmployee)
		if req.Status != nil {
			status = *req.Status
		}
		role := string(employee.RoleEmployee)
		if req.Role != nil {
			role = *req.Role
		}
		if err := employee.ValidateEnums(employee.EnumFields{
			Designation: &req.Designation,
			Department:  &req.Department,
			Status:      &status,
			Role:        &role,
		}); err != nil {
			return err
		}

		hashed, err := password.Hash(req.Password, s.bcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		newEmployee := employee.Employee{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hashed,
			EmployeeID:   req.EmployeeID,
			Salary:       req.Salary,
			PhoneNumber:  req.PhoneNumber,
		}
		newEmployee.Designation, _ = employee.ParseDesignation(req.Designation)
		newEmployee.Department, _ = employee.ParseDepartment(req.Department)
		newEmployee.Status, _ = employee.ParseStatus(status)
		newEmployee.Role, _ = employee.ParseRole(role)
		newEmployee.JoiningDate, _ = validator.IsValidDate(req.JoiningDate)
		if req.DateOfBirth != nil {
			dob, _ := validator.IsValidDate(*req.DateOfBirth)
			newEmployee.DateOfBirth = &dob
		}

		created, err = repo.Create(ctx, newEmployee)
		if err != nil {
			return fmt.Errorf("failed to create employee: %w", err)
		}

		var key *string
		switch {
		case req.ProfilePicture != nil:
			uploaded, err := s.fileService.UploadProfilePicture(ctx, created.EmployeeID, req.ProfilePicture.Content, req.ProfilePicture.FileName)
			if err != nil {
				return err
			}
			uploadedKey = uploaded
			key = &uploaded
		case req.ProfilePictureKey != nil:
			if err := checkPictureOwner(ctx, repo, *req.ProfilePictureKey, created.ID); err != nil {
				return err
			}
			key = req.ProfilePictureKey
		}

		if key != nil {
			created, err = repo.Update(ctx, created.ID, employee.EmployeePatch{ProfilePictureKey: key})
			if err != nil {
				return fmt.Errorf("failed to attach profile picture: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		s.discardUpload(ctx, uploadedKey)
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee created", "id", created.ID, "employee_id", created.EmployeeID)
	return s.formatEmployee(ctx, created), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	if !validator.IsValidUUID(id) {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}

	emp, err := s.store.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if emp.Role != employee.RoleEmployee {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}

	return s.formatEmployee(ctx, emp), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	query := filter.Normalize()

	employees, total, err := s.store.List(ctx, query)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	responses := make([]employee.EmployeeResponse, len(employees))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(urlWorkers)
	for i, emp := range employees {
		i, emp := i, emp
		g.Go(func() error {
			responses[i] = s.formatEmployee(gctx, emp)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	return employee.ListEmployeeResponse{
		Employees:  responses,
		Pagination: NewPagination(total, query.Page, query.Limit),
	}, nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !validator.IsValidUUID(req.ID) {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}

	scope := employee.RoleEmployee
	return s.update(ctx, updateInput{
		id:       req.ID,
		scope:    &scope,
		fields:   req.ProfileFields,
		password: req.Password,
		role:     req.Role,
		upload:   req.ProfilePicture,
	})
}

// GetProfile implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetProfile(ctx context.Context, callerID string) (employee.EmployeeResponse, error) {
	if !validator.IsValidUUID(callerID) {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}

	emp, err := s.store.GetByID(ctx, callerID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return s.formatEmployee(ctx, emp), nil
}

// UpdateProfile implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateProfile(ctx context.Context, req employee.UpdateProfileRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !validator.IsValidUUID(req.ID) {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}

	return s.update(ctx, updateInput{
		id:     req.ID,
		fields: req.ProfileFields,
		upload: req.ProfilePicture,
	})
}

type updateInput struct {
	id       string
	scope    *employee.Role
	fields   employee.ProfileFields
	password *string
	role     *string
	upload   *employee.UploadedFile
}

func (s *EmployeeServiceImpl) update(ctx context.Context, in updateInput) (employee.EmployeeResponse, error) {
	if in.fields.ProfilePictureKey != nil && in.upload == nil {
		if err := s.fileService.ValidateProfileKey(ctx, *in.fields.ProfilePictureKey); err != nil {
			return employee.EmployeeResponse{}, err
		}
	}

	var updated employee.Employee
	var staleKey, uploadedKey string

	err := s.store.WithinTransaction(ctx, func(repo employee.EmployeeRepository) error {
		existing, err := repo.LockByID(ctx, in.id, in.scope)
		if err != nil {
			return err
		}

		if err := employee.ValidateEnums(employee.EnumFields{
			Designation: in.fields.Designation,
			Department:  in.fields.Department,
			Status:      in.fields.Status,
			Role:        in.role,
		}); err != nil {
			return err
		}

		if in.fields.Email != nil || in.fields.EmployeeID != nil {
			if err := checkConflicts(ctx, repo, in.fields.Email, in.fields.EmployeeID, &in.id); err != nil {
				return err
			}
		}

		patch, err := s.buildPatch(in)
		if err != nil {
			return err
		}

		if in.upload != nil {
			employeeID := existing.EmployeeID
			if patch.EmployeeID != nil {
				employeeID = *patch.EmployeeID
			}
			key, err := s.fileService.UploadProfilePicture(ctx, employeeID, in.upload.Content, in.upload.FileName)
			if err != nil {
				return err
			}
			uploadedKey = key
			patch.ProfilePictureKey = &key
		} else if patch.ProfilePictureKey != nil {
			if err := checkPictureOwner(ctx, repo, *patch.ProfilePictureKey, in.id); err != nil {
				return err
			}
		}

		if patch.IsEmpty() {
			updated = existing
			return nil
		}

		updated, err = repo.Update(ctx, in.id, patch)
		if err != nil {
			return fmt.Errorf("failed to update employee: %w", err)
		}

		if patch.ProfilePictureKey != nil && existing.ProfilePictureKey != nil &&
			*existing.ProfilePictureKey != *patch.ProfilePictureKey {
			staleKey = *existing.ProfilePictureKey
		}
		return nil
	})
	if err != nil {
		s.discardUpload(ctx, uploadedKey)
		return employee.EmployeeResponse{}, err
	}

	if staleKey != "" {
		s.fileService.DeleteFile(context.WithoutCancel(ctx), staleKey)
	}

	return s.formatEmployee(ctx, updated), nil
}

// discardUpload removes an object uploaded inside a transaction that did not commit.
func (s *EmployeeServiceImpl) discardUpload(ctx context.Context, key string) {
	if key != "" {
		s.fileService.DeleteFile(context.WithoutCancel(ctx), key)
	}
}

// buildPatch converts already validated input into typed patch values.
func (s *EmployeeServiceImpl) buildPatch(in updateInput) (employee.EmployeePatch, error) {
	f := in.fields
	patch := employee.EmployeePatch{
		Name:              f.Name,
		Email:             f.Email,
		EmployeeID:        f.EmployeeID,
		Salary:            f.Salary,
		PhoneNumber:       f.PhoneNumber,
		ProfilePictureKey: f.ProfilePictureKey,
	}

	if f.Designation != nil {
		d, _ := employee.ParseDesignation(*f.Designation)
		patch.Designation = &d
	}
	if f.Department != nil {
		d, _ := employee.ParseDepartment(*f.Department)
		patch.Department = &d
	}
	if f.Status != nil {
		st, _ := employee.ParseStatus(*f.Status)
		patch.Status = &st
	}
	if in.role != nil {
		r, _ := employee.ParseRole(*in.role)
		patch.Role = &r
	}
	if f.DateOfBirth != nil {
		dob, _ := validator.IsValidDate(*f.DateOfBirth)
		patch.DateOfBirth = &dob
	}
	if f.JoiningDate != nil {
		joined, _ := validator.IsValidDate(*f.JoiningDate)
		patch.JoiningDate = &joined
	}
	if in.password != nil {
		hashed, err := password.Hash(*in.password, s.bcryptCost)
		if err != nil {
			return employee.EmployeePatch{}, fmt.Errorf("failed to hash password: %w", err)
		}
		patch.PasswordHash = &hashed
	}

	return patch, nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) (employee.DeleteEmployeeResponse, error) {
	if !validator.IsValidUUID(id) {
		return employee.DeleteEmployeeResponse{}, employee.ErrEmployeeNotFound
	}

	var deleted employee.Employee
	err := s.store.WithinTransaction(ctx, func(repo employee.EmployeeRepository) error {
		scope := employee.RoleEmployee
		existing, err := repo.LockByID(ctx, id, &scope)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		deleted = existing
		return nil
	})
	if err != nil {
		return employee.DeleteEmployeeResponse{}, err
	}

	if deleted.ProfilePictureKey != nil {
		s.fileService.DeleteFile(context.WithoutCancel(ctx), *deleted.ProfilePictureKey)
	}

	slog.Info("employee deleted", "id", id, "employee_id", deleted.EmployeeID)
	return employee.DeleteEmployeeResponse{ID: id}, nil
}

// GetProfileUploadURL implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetProfileUploadURL(ctx context.Context, req employee.PresignUploadRequest) (employee.PresignUploadResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.PresignUploadResponse{}, err
	}

	upload, err := s.fileService.PresignProfileUpload(ctx, req.FileName, req.FileType)
	if err != nil {
		return employee.PresignUploadResponse{}, err
	}

	return employee.PresignUploadResponse{
		UploadURL: upload.UploadURL,
		Key:       upload.Key,
		ExpiresIn: upload.ExpiresIn,
	}, nil
}

func (s *EmployeeServiceImpl) formatEmployee(ctx context.Context, emp employee.Employee) employee.EmployeeResponse {
	return toEmployeeResponse(emp, s.fileService.ProfilePictureURL(ctx, emp.ProfilePictureKey))
}

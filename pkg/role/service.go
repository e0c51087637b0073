package role

import (
	"context"
	"errors"
	"fmt"

	"github.com/tendant/simple-directory/pkg/errs"
)

var (
	ErrEmptyRoleName  = errs.New(errs.CodeValidationFailed, "Role name cannot be empty")
	ErrRoleNotFound   = errs.New(errs.CodeNotFound, "Role not found")
	ErrRoleNameExists = errs.New(errs.CodeAlreadyExists, "Role with this name already exists")

	// ErrProtectedRole is the repository-level refusal to mutate the
	// protected role. Services translate it into the operation-specific
	// forbidden errors below.
	ErrProtectedRole = errs.New(errs.CodeForbidden, "Superuser role cannot be modified")

	ErrCannotUpdateProtected = errs.New(errs.CodeForbidden, "Cannot update Superuser role")
	ErrCannotDeleteProtected = errs.New(errs.CodeForbidden, "Cannot delete Superuser role")

	ErrRoleInUse = errs.New(errs.CodeInvalidInput, "Role is still assigned to one or more users")
)

// UserCounter reports how many users reference a role. Implemented by the
// user repository; kept as a local interface to avoid an import cycle.
type UserCounter interface {
	CountUsersByRole(ctx context.Context, roleID int64) (int64, error)
}

// RoleService provides methods for role management
type RoleService struct {
	repo  RoleRepository
	users UserCounter
}

// NewRoleService creates a role service. users may be nil, in which case
// delete relies solely on the store's foreign key to detect roles in use.
func NewRoleService(repo RoleRepository, users UserCounter) *RoleService {
	return &RoleService{
		repo:  repo,
		users: users,
	}
}

// FindRoles returns a window of roles
func (s *RoleService) FindRoles(ctx context.Context, skip, limit int32) ([]Role, error) {
	return s.repo.ListRoles(ctx, skip, limit)
}

// GetRole retrieves a role by ID
func (s *RoleService) GetRole(ctx context.Context, id int64) (Role, error) {
	return s.repo.GetRole(ctx, id)
}

// GetRoleByName retrieves a role by its unique name
func (s *RoleService) GetRoleByName(ctx context.Context, name string) (Role, error) {
	return s.repo.GetRoleByName(ctx, name)
}

// CreateRole adds a new role, rejecting names that are already taken
func (s *RoleService) CreateRole(ctx context.Context, name string) (Role, error) {
	if name == "" {
		return Role{}, ErrEmptyRoleName
	}

	_, err := s.repo.GetRoleByName(ctx, name)
	if err == nil {
		return Role{}, ErrRoleNameExists
	}
	if !errors.Is(err, ErrRoleNotFound) {
		return Role{}, fmt.Errorf("failed to check role name: %w", err)
	}

	return s.repo.CreateRole(ctx, name)
}

// UpdateRole modifies an existing role. The protected role is rejected
// before the repository is called so the error is specific; the repository
// refusal is still translated in case a concurrent rename slipped past.
func (s *RoleService) UpdateRole(ctx context.Context, id int64, arg UpdateRoleParams) (Role, error) {
	current, err := s.repo.GetRole(ctx, id)
	if err != nil {
		return Role{}, err
	}

	if IsProtected(current.Name) {
		return Role{}, ErrCannotUpdateProtected
	}

	if arg.Name != nil && *arg.Name != current.Name {
		if *arg.Name == "" {
			return Role{}, ErrEmptyRoleName
		}
		existing, err := s.repo.GetRoleByName(ctx, *arg.Name)
		if err == nil && existing.ID != id {
			return Role{}, ErrRoleNameExists
		}
		if err != nil && !errors.Is(err, ErrRoleNotFound) {
			return Role{}, fmt.Errorf("failed to check role name: %w", err)
		}
	}

	updated, err := s.repo.UpdateRole(ctx, id, arg)
	if err != nil {
		if errors.Is(err, ErrProtectedRole) {
			return Role{}, ErrCannotUpdateProtected
		}
		return Role{}, err
	}
	return updated, nil
}

// DeleteRole removes a role. The protected role and roles still assigned
// to users are rejected; the repository re-checks both.
func (s *RoleService) DeleteRole(ctx context.Context, id int64) error {
	current, err := s.repo.GetRole(ctx, id)
	if err != nil {
		return err
	}

	if IsProtected(current.Name) {
		return ErrCannotDeleteProtected
	}

	if s.users != nil {
		count, err := s.users.CountUsersByRole(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to count users for role: %w", err)
		}
		if count > 0 {
			return ErrRoleInUse
		}
	}

	err = s.repo.DeleteRole(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProtectedRole) {
			return ErrCannotDeleteProtected
		}
		return err
	}
	return nil
}

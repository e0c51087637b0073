package role

import (
	"context"
)

// RoleRepository defines the interface for role storage operations.
// Implementations must commit every mutation before returning so the
// caller always observes durable state on success.
type RoleRepository interface {
	// GetRole retrieves a role by ID, returning ErrRoleNotFound when absent
	GetRole(ctx context.Context, id int64) (Role, error)
	// GetRoleByName retrieves a role by its unique name
	GetRoleByName(ctx context.Context, name string) (Role, error)
	// ListRoles returns a window of roles ordered by ID.
	// A non-positive limit falls back to DefaultListLimit.
	ListRoles(ctx context.Context, skip, limit int32) ([]Role, error)
	// CreateRole inserts a role and returns it with its assigned ID and
	// timestamp. Name uniqueness is not checked here; the unique constraint
	// is the authoritative guard and surfaces as ErrRoleNameExists.
	CreateRole(ctx context.Context, name string) (Role, error)
	// UpdateRole applies only the fields present in arg. Returns
	// ErrRoleNotFound when the id is absent and ErrProtectedRole when the
	// target is the protected role.
	UpdateRole(ctx context.Context, id int64, arg UpdateRoleParams) (Role, error)
	// DeleteRole removes a role. Returns ErrRoleNotFound when absent,
	// ErrProtectedRole for the protected role, and ErrRoleInUse when users
	// still reference it.
	DeleteRole(ctx context.Context, id int64) error
}

// DefaultListLimit caps list windows when the caller does not specify one.
const DefaultListLimit = 100

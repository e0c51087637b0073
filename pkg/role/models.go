package role

import (
	"time"
)

// ProtectedRoleName is the role that can be referenced and assigned but
// never renamed or deleted once created.
const ProtectedRoleName = "Superuser"

// IsProtected reports whether a role name is protected from mutation.
// All protected-role checks go through this predicate so the rule lives
// in exactly one place.
func IsProtected(name string) bool {
	return name == ProtectedRoleName
}

// Role represents a role in the system
type Role struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// UpdateRoleParams contains parameters for updating a role.
// Nil fields were not present in the request and are left untouched.
type UpdateRoleParams struct {
	Name *string `json:"name,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all.
func (p UpdateRoleParams) IsEmpty() bool {
	return p.Name == nil
}

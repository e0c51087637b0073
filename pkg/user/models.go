package user

import (
	"time"

	"github.com/tendant/simple-directory/pkg/role"
)

// User represents a user in the system. The password hash is persisted
// but never serialized.
type User struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	Username       string     `json:"username"`
	FullName       *string    `json:"full_name,omitempty"`
	IsActive       bool       `json:"is_active"`
	RoleID         int64      `json:"role_id"`
	HashedPassword *string    `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
	Role           *role.Role `json:"role,omitempty"`
}

// CreateUserParams contains parameters for creating a new user.
// Password is optional plaintext; it is hashed before storage and a
// passwordless account is permitted.
type CreateUserParams struct {
	Email    string
	Username string
	FullName *string
	IsActive bool
	RoleID   int64
	Password string
}

// UpdateUserParams contains parameters for a partial user update.
// Nil fields were not present in the request and are left untouched.
type UpdateUserParams struct {
	Email    *string
	Username *string
	FullName *string
	IsActive *bool
	RoleID   *int64
}

// IsEmpty reports whether the update carries no fields at all.
func (p UpdateUserParams) IsEmpty() bool {
	return p.Email == nil && p.Username == nil && p.FullName == nil &&
		p.IsActive == nil && p.RoleID == nil
}

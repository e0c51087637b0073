package user

import (
	"context"
)

// UserRepository defines the interface for user storage operations.
// Implementations must commit every mutation before returning so the
// caller always observes durable state on success. Reads embed the
// referenced role.
type UserRepository interface {
	// GetUser retrieves a user by ID, returning ErrUserNotFound when absent
	GetUser(ctx context.Context, id int64) (User, error)
	// GetUserByEmail retrieves a user by their unique email
	GetUserByEmail(ctx context.Context, email string) (User, error)
	// GetUserByUsername retrieves a user by their unique username
	GetUserByUsername(ctx context.Context, username string) (User, error)
	// ListUsers returns a window of users ordered by ID.
	// A non-positive limit falls back to DefaultListLimit.
	ListUsers(ctx context.Context, skip, limit int32) ([]User, error)
	// CreateUser inserts a user and returns it with its assigned ID and
	// timestamp. u.HashedPassword must already be hashed (or nil).
	// The unique constraints on email and username are the authoritative
	// guards and surface as ErrEmailRegistered / ErrUsernameTaken.
	CreateUser(ctx context.Context, u User) (User, error)
	// UpdateUser applies only the fields present in arg
	UpdateUser(ctx context.Context, id int64, arg UpdateUserParams) (User, error)
	// DeleteUser removes a user unconditionally
	DeleteUser(ctx context.Context, id int64) error
	// CountUsersByRole reports how many users reference the given role
	CountUsersByRole(ctx context.Context, roleID int64) (int64, error)
}

// DefaultListLimit caps list windows when the caller does not specify one.
const DefaultListLimit = 100

package user

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryUserRepository implements UserRepository using in-memory storage.
// Role embedding is resolved through the provided RoleGetter.
type InMemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[int64]User
	nextID int64
	roles  RoleGetter
}

// NewInMemoryUserRepository creates a new in-memory user repository
func NewInMemoryUserRepository(roles RoleGetter) *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users:  make(map[int64]User),
		nextID: 1,
		roles:  roles,
	}
}

func (r *InMemoryUserRepository) withRole(ctx context.Context, u User) User {
	if r.roles != nil {
		if rl, err := r.roles.GetRole(ctx, u.RoleID); err == nil {
			u.Role = &rl
		}
	}
	return u
}

// GetUser retrieves a user by ID with the role embedded
func (r *InMemoryUserRepository) GetUser(ctx context.Context, id int64) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return r.withRole(ctx, u), nil
}

// GetUserByEmail retrieves a user by their unique email
func (r *InMemoryUserRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return r.withRole(ctx, u), nil
		}
	}
	return User{}, ErrUserNotFound
}

// GetUserByUsername retrieves a user by their unique username
func (r *InMemoryUserRepository) GetUserByUsername(ctx context.Context, username string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			return r.withRole(ctx, u), nil
		}
	}
	return User{}, ErrUserNotFound
}

// ListUsers returns a window of users ordered by ID with roles embedded
func (r *InMemoryUserRepository) ListUsers(ctx context.Context, skip, limit int32) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if skip < 0 {
		skip = 0
	}

	all := make([]User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	start := int(skip)
	if start > len(all) {
		start = len(all)
	}
	end := start + int(limit)
	if end > len(all) {
		end = len(all)
	}

	window := make([]User, 0, end-start)
	for _, u := range all[start:end] {
		window = append(window, r.withRole(ctx, u))
	}
	return window, nil
}

// CreateUser creates a new user
func (r *InMemoryUserRepository) CreateUser(ctx context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, other := range r.users {
		if other.Email == u.Email {
			return User{}, ErrEmailRegistered
		}
		if other.Username == u.Username {
			return User{}, ErrUsernameTaken
		}
	}

	u.ID = r.nextID
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = nil
	u.Role = nil
	r.nextID++
	r.users[u.ID] = u
	return r.withRole(ctx, u), nil
}

// UpdateUser applies only the fields present in arg
func (r *InMemoryUserRepository) UpdateUser(ctx context.Context, id int64, arg UpdateUserParams) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	if arg.IsEmpty() {
		return r.withRole(ctx, u), nil
	}

	for _, other := range r.users {
		if other.ID == id {
			continue
		}
		if arg.Email != nil && other.Email == *arg.Email {
			return User{}, ErrEmailRegistered
		}
		if arg.Username != nil && other.Username == *arg.Username {
			return User{}, ErrUsernameTaken
		}
	}

	if arg.Email != nil {
		u.Email = *arg.Email
	}
	if arg.Username != nil {
		u.Username = *arg.Username
	}
	if arg.FullName != nil {
		u.FullName = arg.FullName
	}
	if arg.IsActive != nil {
		u.IsActive = *arg.IsActive
	}
	if arg.RoleID != nil {
		if r.roles != nil {
			if _, err := r.roles.GetRole(ctx, *arg.RoleID); err != nil {
				return User{}, ErrRoleNotFound
			}
		}
		u.RoleID = *arg.RoleID
	}
	now := time.Now().UTC()
	u.UpdatedAt = &now
	r.users[id] = u
	return r.withRole(ctx, u), nil
}

// DeleteUser removes a user unconditionally
func (r *InMemoryUserRepository) DeleteUser(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// CountUsersByRole reports how many users reference the given role
func (r *InMemoryUserRepository) CountUsersByRole(ctx context.Context, roleID int64) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, u := range r.users {
		if u.RoleID == roleID {
			count++
		}
	}
	return count, nil
}

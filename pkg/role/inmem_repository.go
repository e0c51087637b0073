package role

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRoleRepository implements RoleRepository using in-memory storage
type InMemoryRoleRepository struct {
	mu     sync.RWMutex
	roles  map[int64]Role
	nextID int64
}

// NewInMemoryRoleRepository creates a new in-memory role repository
func NewInMemoryRoleRepository() *InMemoryRoleRepository {
	return &InMemoryRoleRepository{
		roles:  make(map[int64]Role),
		nextID: 1,
	}
}

// GetRole retrieves a role by ID
func (r *InMemoryRoleRepository) GetRole(ctx context.Context, id int64) (Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.roles[id]
	if !ok {
		return Role{}, ErrRoleNotFound
	}
	return role, nil
}

// GetRoleByName retrieves a role by its unique name
func (r *InMemoryRoleRepository) GetRoleByName(ctx context.Context, name string) (Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, role := range r.roles {
		if role.Name == name {
			return role, nil
		}
	}
	return Role{}, ErrRoleNotFound
}

// ListRoles returns a window of roles ordered by ID
func (r *InMemoryRoleRepository) ListRoles(ctx context.Context, skip, limit int32) ([]Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if skip < 0 {
		skip = 0
	}

	all := make([]Role, 0, len(r.roles))
	for _, role := range r.roles {
		all = append(all, role)
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
	return all[start:end], nil
}

// CreateRole creates a new role
func (r *InMemoryRoleRepository) CreateRole(ctx context.Context, name string) (Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, role := range r.roles {
		if role.Name == name {
			return Role{}, ErrRoleNameExists
		}
	}

	role := Role{
		ID:        r.nextID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	r.nextID++
	r.roles[role.ID] = role
	return role, nil
}

// UpdateRole updates an existing role
func (r *InMemoryRoleRepository) UpdateRole(ctx context.Context, id int64, arg UpdateRoleParams) (Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	role, ok := r.roles[id]
	if !ok {
		return Role{}, ErrRoleNotFound
	}
	if IsProtected(role.Name) {
		return Role{}, ErrProtectedRole
	}
	if arg.IsEmpty() {
		return role, nil
	}

	for _, other := range r.roles {
		if other.ID != id && other.Name == *arg.Name {
			return Role{}, ErrRoleNameExists
		}
	}

	role.Name = *arg.Name
	now := time.Now().UTC()
	role.UpdatedAt = &now
	r.roles[id] = role
	return role, nil
}

// DeleteRole deletes a role
func (r *InMemoryRoleRepository) DeleteRole(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	role, ok := r.roles[id]
	if !ok {
		return ErrRoleNotFound
	}
	if IsProtected(role.Name) {
		return ErrProtectedRole
	}

	delete(r.roles, id)
	return nil
}

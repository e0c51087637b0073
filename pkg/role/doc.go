// Package role manages named roles for simple-directory.
//
// Roles are flat labels assigned to users; every user references exactly
// one role. The package supports PostgreSQL and in-memory storage through
// the RoleRepository interface.
//
// # Overview
//
// The role package provides:
//   - Role lifecycle management (CRUD operations)
//   - A protected role that cannot be renamed or deleted
//   - Repository pattern for database abstraction
//
// # Basic Usage
//
//	import "github.com/tendant/simple-directory/pkg/role"
//
//	// Create service
//	repo := role.NewPostgresRoleRepository(pool)
//	service := role.NewRoleService(repo, userRepo)
//
//	// Create a role
//	created, err := service.CreateRole(ctx, "editor")
//
//	// List roles
//	roles, err := service.FindRoles(ctx, 0, 100)
//
//	// Get role by ID or name
//	r, err := service.GetRole(ctx, created.ID)
//	r, err = service.GetRoleByName(ctx, "editor")
//
//	// Rename a role
//	name := "senior-editor"
//	r, err = service.UpdateRole(ctx, created.ID, role.UpdateRoleParams{Name: &name})
//
//	// Delete a role
//	err = service.DeleteRole(ctx, created.ID)
//
// # Protected Role
//
// The role named by ProtectedRoleName ("Superuser") is reserved for
// administrative accounts. Update and delete are refused for it at both
// the service and repository layers. Roles still assigned to users
// cannot be deleted either; the store's foreign key enforces this even
// under concurrent assignment.
package role

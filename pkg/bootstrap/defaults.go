package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tendant/simple-directory/pkg/role"
	"github.com/tendant/simple-directory/pkg/user"
)

// DefaultRoleNames are the roles guaranteed to exist after bootstrap.
// The protected role comes first; the admin user is assigned to it.
var DefaultRoleNames = []string{role.ProtectedRoleName, "User"}

// Config contains configuration for bootstrapping default roles and the
// administrative user
type Config struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string

	RoleService *role.RoleService
	UserService *user.UserService
}

// RoleInfo contains information about a bootstrapped role
type RoleInfo struct {
	ID      int64
	Name    string
	Created bool // true if created, false if already existed
}

// Result contains the result of the bootstrap operation
type Result struct {
	Roles       []RoleInfo
	AdminUserID int64
	UserCreated bool
}

// EnsureDefaults idempotently ensures the default roles and the
// administrative user exist. It is invoked explicitly during startup,
// after migrations, and is safe to call on every process start.
func EnsureDefaults(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid bootstrap configuration: %w", err)
	}

	roleInfos, err := ensureRoles(ctx, cfg.RoleService)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure default roles: %w", err)
	}

	// Admin user is assigned to the protected role
	adminRole := roleInfos[0]

	result := &Result{Roles: roleInfos}

	existing, err := cfg.UserService.GetUserByUsername(ctx, cfg.AdminUsername)
	if err == nil {
		result.AdminUserID = existing.ID
		slog.Info("Admin user already exists - skipping", "username", cfg.AdminUsername)
		return result, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check admin user: %w", err)
	}

	created, err := cfg.UserService.CreateUser(ctx, user.CreateUserParams{
		Email:    cfg.AdminEmail,
		Username: cfg.AdminUsername,
		IsActive: true,
		RoleID:   adminRole.ID,
		Password: cfg.AdminPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}

	result.AdminUserID = created.ID
	result.UserCreated = true

	slog.Info("Bootstrap completed",
		"roles_created", countCreated(roleInfos),
		"user_created", true,
		"username", cfg.AdminUsername)

	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.AdminUsername == "" {
		return fmt.Errorf("admin username is required")
	}
	if cfg.AdminEmail == "" {
		return fmt.Errorf("admin email is required")
	}
	if cfg.RoleService == nil {
		return fmt.Errorf("RoleService is required")
	}
	if cfg.UserService == nil {
		return fmt.Errorf("UserService is required")
	}
	return nil
}

func ensureRoles(ctx context.Context, roleService *role.RoleService) ([]RoleInfo, error) {
	infos := make([]RoleInfo, 0, len(DefaultRoleNames))

	for _, name := range DefaultRoleNames {
		existing, err := roleService.GetRoleByName(ctx, name)
		if err == nil {
			infos = append(infos, RoleInfo{ID: existing.ID, Name: name})
			continue
		}
		if !errors.Is(err, role.ErrRoleNotFound) {
			return nil, fmt.Errorf("failed to look up role %q: %w", name, err)
		}

		created, err := roleService.CreateRole(ctx, name)
		if err != nil {
			// A concurrent start may have created it between the lookup
			// and the insert; the unique constraint reports that.
			if errors.Is(err, role.ErrRoleNameExists) {
				existing, lookupErr := roleService.GetRoleByName(ctx, name)
				if lookupErr != nil {
					return nil, fmt.Errorf("failed to look up role %q: %w", name, lookupErr)
				}
				infos = append(infos, RoleInfo{ID: existing.ID, Name: name})
				continue
			}
			return nil, fmt.Errorf("failed to create role %q: %w", name, err)
		}
		infos = append(infos, RoleInfo{ID: created.ID, Name: name, Created: true})
	}

	return infos, nil
}

func countCreated(infos []RoleInfo) int {
	count := 0
	for _, info := range infos {
		if info.Created {
			count++
		}
	}
	return count
}

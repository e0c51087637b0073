package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-directory/pkg/role"
	"github.com/tendant/simple-directory/pkg/user"
)

// plainHasher keeps bootstrap tests fast
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (plainHasher) Verify(password, hashedPassword string) (bool, error) {
	return hashedPassword == "hashed:"+password, nil
}

func setupBootstrapConfig(t *testing.T) Config {
	t.Helper()

	roleRepo := role.NewInMemoryRoleRepository()
	userRepo := user.NewInMemoryUserRepository(roleRepo)

	return Config{
		AdminUsername: "admin",
		AdminEmail:    "admin@example.com",
		AdminPassword: "admin123",
		RoleService:   role.NewRoleService(roleRepo, userRepo),
		UserService:   user.NewUserService(userRepo, roleRepo, plainHasher{}),
	}
}

func TestEnsureDefaults(t *testing.T) {
	ctx := context.Background()
	cfg := setupBootstrapConfig(t)

	result, err := EnsureDefaults(ctx, cfg)
	require.NoError(t, err)

	require.Len(t, result.Roles, 2)
	assert.Equal(t, role.ProtectedRoleName, result.Roles[0].Name)
	assert.Equal(t, "User", result.Roles[1].Name)
	assert.True(t, result.Roles[0].Created)
	assert.True(t, result.Roles[1].Created)
	assert.True(t, result.UserCreated)

	admin, err := cfg.UserService.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.True(t, admin.IsActive)
	assert.Equal(t, result.Roles[0].ID, admin.RoleID)
	require.NotNil(t, admin.HashedPassword)
	assert.Equal(t, "hashed:admin123", *admin.HashedPassword)
}

func TestEnsureDefaultsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	cfg := setupBootstrapConfig(t)

	first, err := EnsureDefaults(ctx, cfg)
	require.NoError(t, err)

	second, err := EnsureDefaults(ctx, cfg)
	require.NoError(t, err)

	assert.False(t, second.UserCreated)
	assert.Equal(t, first.AdminUserID, second.AdminUserID)
	for _, info := range second.Roles {
		assert.False(t, info.Created)
	}

	roles, err := cfg.RoleService.FindRoles(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, roles, 2)
}

func TestEnsureDefaultsExistingRoles(t *testing.T) {
	ctx := context.Background()
	cfg := setupBootstrapConfig(t)

	// A previously seeded protected role is reused, not duplicated
	existing, err := cfg.RoleService.CreateRole(ctx, role.ProtectedRoleName)
	require.NoError(t, err)

	result, err := EnsureDefaults(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, result.Roles[0].ID)
	assert.False(t, result.Roles[0].Created)
	assert.True(t, result.Roles[1].Created)
}

func TestEnsureDefaultsValidation(t *testing.T) {
	ctx := context.Background()

	cfg := setupBootstrapConfig(t)
	cfg.AdminUsername = ""
	_, err := EnsureDefaults(ctx, cfg)
	assert.Error(t, err)

	cfg = setupBootstrapConfig(t)
	cfg.RoleService = nil
	_, err = EnsureDefaults(ctx, cfg)
	assert.Error(t, err)
}

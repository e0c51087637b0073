package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-directory/pkg/role"
)

// plainHasher marks passwords instead of hashing them, keeping tests fast
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (plainHasher) Verify(password, hashedPassword string) (bool, error) {
	return hashedPassword == "hashed:"+password, nil
}

func strPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}

func setupUserService(t *testing.T) (*UserService, role.Role) {
	t.Helper()

	roleRepo := role.NewInMemoryRoleRepository()
	defaultRole, err := roleRepo.CreateRole(context.Background(), "User")
	require.NoError(t, err)

	repo := NewInMemoryUserRepository(roleRepo)
	service := NewUserService(repo, roleRepo, plainHasher{})
	return service, defaultRole
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	service, defaultRole := setupUserService(t)

	_, err := service.CreateUser(ctx, CreateUserParams{
		Email:    "taken@example.com",
		Username: "taken",
		IsActive: true,
		RoleID:   defaultRole.ID,
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		params  CreateUserParams
		wantErr error
	}{
		{
			name: "valid user",
			params: CreateUserParams{
				Email:    "alice@example.com",
				Username: "alice",
				FullName: strPtr("Alice Example"),
				IsActive: true,
				RoleID:   defaultRole.ID,
				Password: "secret123",
			},
		},
		{
			name: "missing email",
			params: CreateUserParams{
				Username: "noemail",
				RoleID:   defaultRole.ID,
			},
			wantErr: ErrEmailRequired,
		},
		{
			name: "malformed email",
			params: CreateUserParams{
				Email:    "not-an-email",
				Username: "bademail",
				RoleID:   defaultRole.ID,
			},
			wantErr: ErrInvalidEmail,
		},
		{
			name: "missing username",
			params: CreateUserParams{
				Email:  "nouser@example.com",
				RoleID: defaultRole.ID,
			},
			wantErr: ErrUsernameRequired,
		},
		{
			name: "duplicate email",
			params: CreateUserParams{
				Email:    "taken@example.com",
				Username: "someoneelse",
				RoleID:   defaultRole.ID,
			},
			wantErr: ErrEmailRegistered,
		},
		{
			name: "duplicate username",
			params: CreateUserParams{
				Email:    "someoneelse@example.com",
				Username: "taken",
				RoleID:   defaultRole.ID,
			},
			wantErr: ErrUsernameTaken,
		},
		{
			name: "unknown role",
			params: CreateUserParams{
				Email:    "norole@example.com",
				Username: "norole",
				RoleID:   9999,
			},
			wantErr: ErrRoleNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := service.CreateUser(ctx, tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotZero(t, created.ID)
			assert.Equal(t, tt.params.Email, created.Email)
			assert.Equal(t, tt.params.Username, created.Username)
			assert.True(t, created.IsActive)
			require.NotNil(t, created.HashedPassword)
			assert.Equal(t, "hashed:secret123", *created.HashedPassword)
			require.NotNil(t, created.Role)
			assert.Equal(t, defaultRole.ID, created.Role.ID)
		})
	}
}

func TestCreateUserWithoutPassword(t *testing.T) {
	ctx := context.Background()
	service, defaultRole := setupUserService(t)

	created, err := service.CreateUser(ctx, CreateUserParams{
		Email:    "nopass@example.com",
		Username: "nopass",
		IsActive: true,
		RoleID:   defaultRole.ID,
	})
	require.NoError(t, err)
	assert.Nil(t, created.HashedPassword)
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	service, defaultRole := setupUserService(t)

	created, err := service.CreateUser(ctx, CreateUserParams{
		Email:    "bob@example.com",
		Username: "bob",
		IsActive: true,
		RoleID:   defaultRole.ID,
	})
	require.NoError(t, err)

	got, err := service.GetUser(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	require.NotNil(t, got.Role)
	assert.Equal(t, "User", got.Role.Name)

	_, err = service.GetUser(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserByEmailAndUsername(t *testing.T) {
	ctx := context.Background()
	service, defaultRole := setupUserService(t)

	created, err := service.CreateUser(ctx, CreateUserParams{
		Email:    "carol@example.com",
		Username: "carol",
		IsActive: true,
		RoleID:   defaultRole.ID,
	})
	require.NoError(t, err)

	byEmail, err := service.GetUserByEmail(ctx, "carol@example.com")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byUsername, err := service.GetUserByUsername(ctx, "carol")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, byUsername.ID)

	_, err = service.GetUserByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = service.GetUserByUsername(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFindUsers(t *testing.T) {
	ctx := context.Background()
	service, defaultRole := setupUserService(t)

	usernames := []string{"user1", "user2", "user3"}
	for _, name := range usernames {
		_, err := service.CreateUser(ctx, CreateUserParams{
			Email:    name + "@example.com",
			Username: name,
			IsActive: true,
			RoleID:   defaultRole.ID,
		})
		require.NoError(t, err)
	}

	users, err := service.FindUsers(ctx, 0, 100)
	assert.NoError(t, err)
	assert.Len(t, users, 3)

	users, err = service.FindUsers(ctx, 1, 1)
	assert.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "user2", users[0].Username)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	service, defaultRole := setupUserService(t)

	created, err := service.CreateUser(ctx, CreateUserParams{
		Email:    "dave@example.com",
		Username: "dave",
		IsActive: true,
		RoleID:   defaultRole.ID,
	})
	require.NoError(t, err)

	other, err := service.CreateUser(ctx, CreateUserParams{
		Email:    "erin@example.com",
		Username: "erin",
		IsActive: true,
		RoleID:   defaultRole.ID,
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		userID  int64
		arg     UpdateUserParams
		wantErr error
		check   func(t *testing.T, u User)
	}{
		{
			name:   "update full name",
			userID: created.ID,
			arg:    UpdateUserParams{FullName: strPtr("Dave Example")},
			check: func(t *testing.T, u User) {
				require.NotNil(t, u.FullName)
				assert.Equal(t, "Dave Example", *u.FullName)
				assert.NotNil(t, u.UpdatedAt)
			},
		},
		{
			name:   "deactivate",
			userID: created.ID,
			arg:    UpdateUserParams{IsActive: boolPtr(false)},
			check: func(t *testing.T, u User) {
				assert.False(t, u.IsActive)
			},
		},
		{
			name:    "non-existent user",
			userID:  9999,
			arg:     UpdateUserParams{FullName: strPtr("Nobody")},
			wantErr: ErrUserNotFound,
		},
		{
			name:    "email taken by another user",
			userID:  created.ID,
			arg:     UpdateUserParams{Email: strPtr(other.Email)},
			wantErr: ErrEmailRegistered,
		},
		{
			name:    "username taken by another user",
			userID:  created.ID,
			arg:     UpdateUserParams{Username: strPtr(other.Username)},
			wantErr: ErrUsernameTaken,
		},
		{
			name:    "malformed email",
			userID:  created.ID,
			arg:     UpdateUserParams{Email: strPtr("nope")},
			wantErr: ErrInvalidEmail,
		},
		{
			name:   "same email is not a conflict",
			userID: created.ID,
			arg:    UpdateUserParams{Email: strPtr("dave@example.com")},
			check: func(t *testing.T, u User) {
				assert.Equal(t, "dave@example.com", u.Email)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := service.UpdateUser(ctx, tt.userID, tt.arg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, updated)
			}
		})
	}
}

func TestUpdateUserNoFields(t *testing.T) {
	ctx := context.Background()
	service, defaultRole := setupUserService(t)

	created, err := service.CreateUser(ctx, CreateUserParams{
		Email:    "frank@example.com",
		Username: "frank",
		IsActive: true,
		RoleID:   defaultRole.ID,
	})
	require.NoError(t, err)

	// An update with no fields set leaves the user untouched
	updated, err := service.UpdateUser(ctx, created.ID, UpdateUserParams{})
	assert.NoError(t, err)
	assert.Equal(t, created.Email, updated.Email)
	assert.Nil(t, updated.UpdatedAt)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	service, defaultRole := setupUserService(t)

	created, err := service.CreateUser(ctx, CreateUserParams{
		Email:    "gone@example.com",
		Username: "gone",
		IsActive: true,
		RoleID:   defaultRole.ID,
	})
	require.NoError(t, err)

	err = service.DeleteUser(ctx, created.ID)
	assert.NoError(t, err)

	_, err = service.GetUser(ctx, created.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = service.DeleteUser(ctx, created.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("user@example.com"))
	assert.NoError(t, ValidateEmail("first.last+tag@sub.example.co"))
	assert.ErrorIs(t, ValidateEmail(""), ErrEmailRequired)
	assert.ErrorIs(t, ValidateEmail("plainaddress"), ErrInvalidEmail)
	assert.ErrorIs(t, ValidateEmail("@example.com"), ErrInvalidEmail)
	assert.ErrorIs(t, ValidateEmail("user@"), ErrInvalidEmail)
}

package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/tendant/simple-directory/pkg/errs"
	"github.com/tendant/simple-directory/pkg/role"
)

var (
	ErrUserNotFound    = errs.New(errs.CodeNotFound, "User not found")
	ErrEmailRegistered = errs.New(errs.CodeAlreadyExists, "Email already registered")
	ErrUsernameTaken   = errs.New(errs.CodeAlreadyExists, "Username already taken")
	ErrRoleNotFound    = errs.New(errs.CodeInvalidInput, "Role not found")

	ErrEmailRequired    = errs.New(errs.CodeValidationFailed, "Field 'email' is required")
	ErrUsernameRequired = errs.New(errs.CodeValidationFailed, "Field 'username' is required")
	ErrInvalidEmail     = errs.New(errs.CodeValidationFailed, "Invalid email address")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks email syntax. Malformed addresses are a client
// input error, distinct from the uniqueness conflicts.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// RoleGetter looks up roles referenced by users. Satisfied by
// role.RoleRepository.
type RoleGetter interface {
	GetRole(ctx context.Context, id int64) (role.Role, error)
}

// UserService provides methods for user management
type UserService struct {
	repo   UserRepository
	roles  RoleGetter
	hasher PasswordHasher
}

// NewUserService creates a user service. A nil hasher falls back to bcrypt.
func NewUserService(repo UserRepository, roles RoleGetter, hasher PasswordHasher) *UserService {
	if hasher == nil {
		hasher = &BcryptHasher{}
	}
	return &UserService{
		repo:   repo,
		roles:  roles,
		hasher: hasher,
	}
}

// FindUsers returns a window of users with their roles embedded
func (s *UserService) FindUsers(ctx context.Context, skip, limit int32) ([]User, error) {
	return s.repo.ListUsers(ctx, skip, limit)
}

// GetUser retrieves a user by ID with their role embedded
func (s *UserService) GetUser(ctx context.Context, id int64) (User, error) {
	return s.repo.GetUser(ctx, id)
}

// GetUserByEmail retrieves a user by their unique email
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetUserByEmail(ctx, email)
}

// GetUserByUsername retrieves a user by their unique username
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (User, error) {
	return s.repo.GetUserByUsername(ctx, username)
}

// CreateUser creates a new user after checking email and username are
// free and the referenced role exists. The password is hashed only when
// provided; a passwordless account stores a null hash.
func (s *UserService) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	if err := ValidateEmail(params.Email); err != nil {
		return User{}, err
	}
	if params.Username == "" {
		return User{}, ErrUsernameRequired
	}

	if _, err := s.repo.GetUserByEmail(ctx, params.Email); err == nil {
		return User{}, ErrEmailRegistered
	} else if !errors.Is(err, ErrUserNotFound) {
		return User{}, fmt.Errorf("failed to check email: %w", err)
	}

	if _, err := s.repo.GetUserByUsername(ctx, params.Username); err == nil {
		return User{}, ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return User{}, fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.roles.GetRole(ctx, params.RoleID); err != nil {
		if errors.Is(err, role.ErrRoleNotFound) {
			return User{}, ErrRoleNotFound
		}
		return User{}, fmt.Errorf("failed to check role: %w", err)
	}

	var hashedPassword *string
	if params.Password != "" {
		hashed, err := s.hasher.Hash(params.Password)
		if err != nil {
			return User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		hashedPassword = &hashed
	}

	return s.repo.CreateUser(ctx, User{
		Email:          params.Email,
		Username:       params.Username,
		FullName:       params.FullName,
		IsActive:       params.IsActive,
		RoleID:         params.RoleID,
		HashedPassword: hashedPassword,
	})
}

// UpdateUser applies a partial update. Changed email and username values
// are re-checked for uniqueness against other users. The role reference
// is not re-validated here; the store's foreign key rejects dangling ids.
func (s *UserService) UpdateUser(ctx context.Context, id int64, arg UpdateUserParams) (User, error) {
	current, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return User{}, err
	}

	if arg.Email != nil && *arg.Email != current.Email {
		if err := ValidateEmail(*arg.Email); err != nil {
			return User{}, err
		}
		if existing, err := s.repo.GetUserByEmail(ctx, *arg.Email); err == nil && existing.ID != id {
			return User{}, ErrEmailRegistered
		} else if err != nil && !errors.Is(err, ErrUserNotFound) {
			return User{}, fmt.Errorf("failed to check email: %w", err)
		}
	}

	if arg.Username != nil && *arg.Username != current.Username {
		if *arg.Username == "" {
			return User{}, ErrUsernameRequired
		}
		if existing, err := s.repo.GetUserByUsername(ctx, *arg.Username); err == nil && existing.ID != id {
			return User{}, ErrUsernameTaken
		} else if err != nil && !errors.Is(err, ErrUserNotFound) {
			return User{}, fmt.Errorf("failed to check username: %w", err)
		}
	}

	return s.repo.UpdateUser(ctx, id, arg)
}

// DeleteUser removes a user unconditionally
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	return s.repo.DeleteUser(ctx, id)
}

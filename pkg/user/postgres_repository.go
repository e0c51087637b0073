package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tendant/simple-directory/pkg/role"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PostgresUserRepository implements UserRepository using PostgreSQL
type PostgresUserRepository struct {
	db DBTX
}

// NewPostgresUserRepository creates a new PostgreSQL user repository
func NewPostgresUserRepository(db DBTX) *PostgresUserRepository {
	return &PostgresUserRepository{
		db: db,
	}
}

const userSelect = `
	SELECT u.id, u.email, u.username, u.full_name, u.is_active, u.role_id,
	       u.hashed_password, u.created_at, u.updated_at,
	       r.id, r.name, r.created_at, r.updated_at
	FROM users u
	JOIN roles r ON r.id = u.role_id
`

func scanUser(row pgx.Row) (User, error) {
	var u User
	var r role.Role
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.FullName, &u.IsActive, &u.RoleID,
		&u.HashedPassword, &u.CreatedAt, &u.UpdatedAt,
		&r.ID, &r.Name, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return User{}, err
	}
	u.Role = &r
	return u, nil
}

// GetUser retrieves a user by ID with the role embedded
func (r *PostgresUserRepository) GetUser(ctx context.Context, id int64) (User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, userSelect+` WHERE u.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by their unique email
func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, userSelect+` WHERE u.email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by their unique username
func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, userSelect+` WHERE u.username = $1`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// ListUsers returns a window of users ordered by ID with roles embedded
func (r *PostgresUserRepository) ListUsers(ctx context.Context, skip, limit int32) ([]User, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if skip < 0 {
		skip = 0
	}

	rows, err := r.db.Query(ctx, userSelect+` ORDER BY u.id OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// CreateUser inserts a user and returns the stored record with the role
// embedded. Uniqueness and the role reference are enforced by the store's
// constraints.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, u User) (User, error) {
	query := `
		INSERT INTO users (email, username, full_name, is_active, role_id, hashed_password)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		u.Email, u.Username, u.FullName, u.IsActive, u.RoleID, u.HashedPassword,
	).Scan(&id)
	if err != nil {
		return User{}, mapUserConstraintError(err)
	}

	return r.GetUser(ctx, id)
}

// UpdateUser applies only the fields present in arg and returns the
// updated record with the role embedded.
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, id int64, arg UpdateUserParams) (User, error) {
	if arg.IsEmpty() {
		// Nothing to apply; the stored record is returned unchanged.
		return r.GetUser(ctx, id)
	}

	set := []string{}
	args := []interface{}{id}

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if arg.Email != nil {
		addSet("email", *arg.Email)
	}
	if arg.Username != nil {
		addSet("username", *arg.Username)
	}
	if arg.FullName != nil {
		addSet("full_name", *arg.FullName)
	}
	if arg.IsActive != nil {
		addSet("is_active", *arg.IsActive)
	}
	if arg.RoleID != nil {
		addSet("role_id", *arg.RoleID)
	}
	set = append(set, "updated_at = now()")

	query := `UPDATE users SET ` + strings.Join(set, ", ") + ` WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return User{}, mapUserConstraintError(err)
	}
	if tag.RowsAffected() == 0 {
		return User{}, ErrUserNotFound
	}

	return r.GetUser(ctx, id)
}

// DeleteUser removes a user unconditionally
func (r *PostgresUserRepository) DeleteUser(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CountUsersByRole reports how many users reference the given role
func (r *PostgresUserRepository) CountUsersByRole(ctx context.Context, roleID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM users WHERE role_id = $1`, roleID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users by role: %w", err)
	}
	return count, nil
}

// mapUserConstraintError translates store constraint violations into the
// domain errors the service layer already produces, so the constraints
// stay the authoritative guard under concurrent requests.
func mapUserConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("failed to write user: %w", err)
	}
	switch {
	case pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "email"):
		return ErrEmailRegistered
	case pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "username"):
		return ErrUsernameTaken
	case pgErr.Code == "23503":
		return ErrRoleNotFound
	default:
		return fmt.Errorf("failed to write user: %w", err)
	}
}

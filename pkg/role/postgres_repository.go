package role

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresRoleRepository implements RoleRepository using PostgreSQL
type PostgresRoleRepository struct {
	db DBTX
}

// NewPostgresRoleRepository creates a new PostgreSQL role repository
func NewPostgresRoleRepository(db DBTX) *PostgresRoleRepository {
	return &PostgresRoleRepository{
		db: db,
	}
}

const roleColumns = "id, name, created_at, updated_at"

func scanRole(row pgx.Row) (Role, error) {
	var role Role
	err := row.Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt)
	return role, err
}

// GetRole retrieves a role by ID
func (r *PostgresRoleRepository) GetRole(ctx context.Context, id int64) (Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE id = $1`

	role, err := scanRole(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, ErrRoleNotFound
		}
		return Role{}, fmt.Errorf("failed to get role: %w", err)
	}
	return role, nil
}

// GetRoleByName retrieves a role by its unique name
func (r *PostgresRoleRepository) GetRoleByName(ctx context.Context, name string) (Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE name = $1`

	role, err := scanRole(r.db.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, ErrRoleNotFound
		}
		return Role{}, fmt.Errorf("failed to get role by name: %w", err)
	}
	return role, nil
}

// ListRoles returns a window of roles ordered by ID
func (r *PostgresRoleRepository) ListRoles(ctx context.Context, skip, limit int32) ([]Role, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if skip < 0 {
		skip = 0
	}

	query := `SELECT ` + roleColumns + ` FROM roles ORDER BY id OFFSET $1 LIMIT $2`

	rows, err := r.db.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	roles := []Role{}
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// CreateRole inserts a role and returns the stored record
func (r *PostgresRoleRepository) CreateRole(ctx context.Context, name string) (Role, error) {
	query := `INSERT INTO roles (name) VALUES ($1) RETURNING ` + roleColumns

	role, err := scanRole(r.db.QueryRow(ctx, query, name))
	if err != nil {
		if isUniqueViolation(err) {
			return Role{}, ErrRoleNameExists
		}
		return Role{}, fmt.Errorf("failed to create role: %w", err)
	}
	return role, nil
}

// UpdateRole applies only the fields present in arg. The protected-role
// check runs inside the row lock so a concurrent rename cannot slip past.
func (r *PostgresRoleRepository) UpdateRole(ctx context.Context, id int64, arg UpdateRoleParams) (Role, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Role{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := scanRole(tx.QueryRow(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, ErrRoleNotFound
		}
		return Role{}, fmt.Errorf("failed to lock role: %w", err)
	}

	if IsProtected(current.Name) {
		return Role{}, ErrProtectedRole
	}

	if arg.IsEmpty() {
		// Nothing to apply; the stored record is returned unchanged.
		return current, nil
	}

	updated, err := scanRole(tx.QueryRow(ctx,
		`UPDATE roles SET name = $2, updated_at = now() WHERE id = $1 RETURNING `+roleColumns,
		id, *arg.Name))
	if err != nil {
		if isUniqueViolation(err) {
			return Role{}, ErrRoleNameExists
		}
		return Role{}, fmt.Errorf("failed to update role: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Role{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return updated, nil
}

// DeleteRole removes a role, refusing the protected role and roles still
// referenced by users. The foreign key on users.role_id is the
// authoritative in-use guard.
func (r *PostgresRoleRepository) DeleteRole(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := scanRole(tx.QueryRow(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("failed to lock role: %w", err)
	}

	if IsProtected(current.Name) {
		return ErrProtectedRole
	}

	if _, err := tx.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return ErrRoleInUse
		}
		return fmt.Errorf("failed to delete role: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

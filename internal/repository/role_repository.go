package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/admin-service/internal/domain"
)

// DefaultRoleID is assigned to accounts created through registration.
const DefaultRoleID int64 = 2

// RoleRepository resolves role assignments and their grants.
type RoleRepository interface {
	GetUserRoles(ctx context.Context, userID int64) ([]domain.Role, error)
	GetRolePermissions(ctx context.Context, roleID int64) ([]domain.Permission, error)
	AssignDefaultRole(ctx context.Context, userID int64) error
	ReplaceUserRoles(ctx context.Context, userID int64, roleIDs []int64) error
}

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository returns a Postgres-backed implementation.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{pool: pool}
}

func (r *roleRepository) GetUserRoles(ctx context.Context, userID int64) ([]domain.Role, error) {
	const query = `
        SELECT r.id, r.name, r.description, r.status, r.created_at
        FROM roles r
        JOIN user_roles ur ON ur.role_id = r.id
        WHERE ur.user_id = $1 AND r.status = 1
        ORDER BY r.id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.Status, &role.CreatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *roleRepository) GetRolePermissions(ctx context.Context, roleID int64) ([]domain.Permission, error) {
	const query = `
        SELECT p.id, p.menu_id, p.name, p.action, p.created_at, p.updated_at
        FROM permissions p
        JOIN role_permissions rp ON rp.permission_id = p.id
        WHERE rp.role_id = $1
        ORDER BY p.id`

	rows, err := r.pool.Query(ctx, query, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []domain.Permission
	for rows.Next() {
		var perm domain.Permission
		if err := rows.Scan(&perm.ID, &perm.MenuID, &perm.Name, &perm.Action, &perm.CreatedAt, &perm.UpdatedAt); err != nil {
			return nil, err
		}
		permissions = append(permissions, perm)
	}
	return permissions, rows.Err()
}

func (r *roleRepository) AssignDefaultRole(ctx context.Context, userID int64) error {
	const query = `
        INSERT INTO user_roles (user_id, role_id)
        VALUES ($1, $2)
        ON CONFLICT DO NOTHING`

	_, err := r.pool.Exec(ctx, query, userID, DefaultRoleID)
	return err
}

func (r *roleRepository) ReplaceUserRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id=$1`, userID); err != nil {
		return err
	}
	for _, roleID := range roleIDs {
		if _, err := tx.Exec(ctx, `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`, userID, roleID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

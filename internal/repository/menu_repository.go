package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/admin-service/internal/domain"
)

// MenuRepository loads navigation entries.
type MenuRepository interface {
	GetAll(ctx context.Context) ([]domain.Menu, error)
	GetUserMenus(ctx context.Context, userID int64) ([]domain.Menu, error)
}

type menuRepository struct {
	pool *pgxpool.Pool
}

// NewMenuRepository returns a Postgres-backed implementation.
func NewMenuRepository(pool *pgxpool.Pool) MenuRepository {
	return &menuRepository{pool: pool}
}

const menuColumns = `m.id, m.parent_id, m.path, m.component, m.redirect, m.name, m.title, m.icon,
        m.always_show, m.no_cache, m.affix, m.hidden, m.external_link, m.permission, m.menu_order,
        m.created_at, m.updated_at`

func (r *menuRepository) GetAll(ctx context.Context) ([]domain.Menu, error) {
	const query = `SELECT ` + menuColumns + ` FROM menus m ORDER BY m.menu_order, m.id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMenus(rows)
}

func (r *menuRepository) GetUserMenus(ctx context.Context, userID int64) ([]domain.Menu, error) {
	const query = `
        SELECT DISTINCT ` + menuColumns + `
        FROM menus m
        JOIN role_menus rm ON rm.menu_id = m.id
        JOIN user_roles ur ON ur.role_id = rm.role_id
        WHERE ur.user_id = $1
        ORDER BY m.menu_order, m.id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMenus(rows)
}

func scanMenus(rows pgx.Rows) ([]domain.Menu, error) {
	var menus []domain.Menu
	for rows.Next() {
		var m domain.Menu
		if err := rows.Scan(
			&m.ID,
			&m.ParentID,
			&m.Path,
			&m.Component,
			&m.Redirect,
			&m.Name,
			&m.Title,
			&m.Icon,
			&m.AlwaysShow,
			&m.NoCache,
			&m.Affix,
			&m.Hidden,
			&m.ExternalLink,
			&m.Permission,
			&m.MenuOrder,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		menus = append(menus, m)
	}
	return menus, rows.Err()
}

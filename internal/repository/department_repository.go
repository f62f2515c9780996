package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/admin-service/internal/domain"
)

// DepartmentRepository lists organizational departments.
type DepartmentRepository interface {
	List(ctx context.Context) ([]domain.Department, error)
	GetByID(ctx context.Context, id int64) (*domain.Department, error)
}

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository returns a Postgres-backed implementation.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

func (r *departmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	const query = `SELECT id, name, created_at FROM departments ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []domain.Department
	for rows.Next() {
		var d domain.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

func (r *departmentRepository) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	const query = `SELECT id, name, created_at FROM departments WHERE id=$1`

	var d domain.Department
	if err := r.pool.QueryRow(ctx, query, id).Scan(&d.ID, &d.Name, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

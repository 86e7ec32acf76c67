package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// DepartmentRepository exposes the seeded department aggregates. The
// counters themselves are only mutated by ComplaintRepository writes.
type DepartmentRepository interface {
	List(ctx context.Context) ([]domain.Department, error)
}

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository builds the repository.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

func (r *departmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	const query = `
        SELECT id, name, total_complaints, complaints_resolved, avg_resolution_time
        FROM departments ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Department
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.TotalComplaints, &dept.ComplaintsResolved, &dept.AvgResolutionTime); err != nil {
			return nil, err
		}
		result = append(result, dept)
	}
	return result, rows.Err()
}

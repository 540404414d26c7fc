package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heron-wellnest/auth-service/internal/domain"
)

// CollegeRepository resolves programs and departments for claim enrichment.
type CollegeRepository interface {
	GetProgramByID(ctx context.Context, id string) (*domain.CollegeProgram, error)
	GetProgramByName(ctx context.Context, name string) (*domain.CollegeProgram, error)
	GetDepartmentByID(ctx context.Context, id string) (*domain.CollegeDepartment, error)
}

type collegeRepository struct {
	pool *pgxpool.Pool
}

// NewCollegeRepository returns a Postgres-backed implementation.
func NewCollegeRepository(pool *pgxpool.Pool) CollegeRepository {
	return &collegeRepository{pool: pool}
}

func (r *collegeRepository) GetProgramByID(ctx context.Context, id string) (*domain.CollegeProgram, error) {
	const query = `
        SELECT program_id, program_name, college_department_id, is_deleted, created_at, updated_at
        FROM college_programs WHERE program_id=$1 AND is_deleted = FALSE`
	return r.scanProgram(r.pool.QueryRow(ctx, query, id))
}

func (r *collegeRepository) GetProgramByName(ctx context.Context, name string) (*domain.CollegeProgram, error) {
	const query = `
        SELECT program_id, program_name, college_department_id, is_deleted, created_at, updated_at
        FROM college_programs WHERE program_name=$1 AND is_deleted = FALSE`
	return r.scanProgram(r.pool.QueryRow(ctx, query, name))
}

func (r *collegeRepository) GetDepartmentByID(ctx context.Context, id string) (*domain.CollegeDepartment, error) {
	const query = `
        SELECT department_id, department_name, is_deleted, created_at, updated_at
        FROM college_departments WHERE department_id=$1 AND is_deleted = FALSE`

	var dept domain.CollegeDepartment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&dept.DepartmentID,
		&dept.DepartmentName,
		&dept.IsDeleted,
		&dept.CreatedAt,
		&dept.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *collegeRepository) scanProgram(row pgx.Row) (*domain.CollegeProgram, error) {
	var program domain.CollegeProgram
	if err := row.Scan(
		&program.ProgramID,
		&program.ProgramName,
		&program.CollegeDepartmentID,
		&program.IsDeleted,
		&program.CreatedAt,
		&program.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &program, nil
}

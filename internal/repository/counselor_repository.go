package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heron-wellnest/auth-service/internal/domain"
)

// CounselorRepository defines persistence access for counselors.
type CounselorRepository interface {
	Create(ctx context.Context, counselor *domain.Counselor) error
	GetByID(ctx context.Context, id string) (*domain.Counselor, error)
	GetByEmail(ctx context.Context, email string) (*domain.Counselor, error)
}

type counselorRepository struct {
	pool *pgxpool.Pool
}

// NewCounselorRepository returns a Postgres-backed implementation.
func NewCounselorRepository(pool *pgxpool.Pool) CounselorRepository {
	return &counselorRepository{pool: pool}
}

func (r *counselorRepository) Create(ctx context.Context, counselor *domain.Counselor) error {
	const query = `
        INSERT INTO counselors (email, user_name, password_hash, college_department_id)
        VALUES ($1, $2, $3, $4)
        RETURNING user_id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		counselor.Email,
		counselor.UserName,
		counselor.PasswordHash,
		counselor.CollegeDepartmentID,
	).Scan(&counselor.UserID, &counselor.CreatedAt, &counselor.UpdatedAt)
}

func (r *counselorRepository) GetByID(ctx context.Context, id string) (*domain.Counselor, error) {
	const query = `
        SELECT user_id, email, user_name, password_hash, college_department_id, is_deleted, created_at, updated_at
        FROM counselors WHERE user_id=$1 AND is_deleted = FALSE`
	return r.scanCounselor(r.pool.QueryRow(ctx, query, id))
}

func (r *counselorRepository) GetByEmail(ctx context.Context, email string) (*domain.Counselor, error) {
	const query = `
        SELECT user_id, email, user_name, password_hash, college_department_id, is_deleted, created_at, updated_at
        FROM counselors WHERE email=$1 AND is_deleted = FALSE`
	return r.scanCounselor(r.pool.QueryRow(ctx, query, email))
}

func (r *counselorRepository) scanCounselor(row pgx.Row) (*domain.Counselor, error) {
	var counselor domain.Counselor
	if err := row.Scan(
		&counselor.UserID,
		&counselor.Email,
		&counselor.UserName,
		&counselor.PasswordHash,
		&counselor.CollegeDepartmentID,
		&counselor.IsDeleted,
		&counselor.CreatedAt,
		&counselor.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &counselor, nil
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heron-wellnest/auth-service/internal/domain"
)

// AdminRepository defines persistence access for admins.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository returns a Postgres-backed implementation.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	const query = `
        INSERT INTO admins (email, user_name, password_hash, is_super_admin)
        VALUES ($1, $2, $3, $4)
        RETURNING user_id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		admin.Email,
		admin.UserName,
		admin.PasswordHash,
		admin.IsSuperAdmin,
	).Scan(&admin.UserID, &admin.CreatedAt, &admin.UpdatedAt)
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	const query = `
        SELECT user_id, email, user_name, password_hash, is_super_admin, is_deleted, created_at, updated_at
        FROM admins WHERE user_id=$1 AND is_deleted = FALSE`
	return r.scanAdmin(r.pool.QueryRow(ctx, query, id))
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	const query = `
        SELECT user_id, email, user_name, password_hash, is_super_admin, is_deleted, created_at, updated_at
        FROM admins WHERE email=$1 AND is_deleted = FALSE`
	return r.scanAdmin(r.pool.QueryRow(ctx, query, email))
}

func (r *adminRepository) scanAdmin(row pgx.Row) (*domain.Admin, error) {
	var admin domain.Admin
	if err := row.Scan(
		&admin.UserID,
		&admin.Email,
		&admin.UserName,
		&admin.PasswordHash,
		&admin.IsSuperAdmin,
		&admin.IsDeleted,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &admin, nil
}

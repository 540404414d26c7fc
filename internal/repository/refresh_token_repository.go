package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heron-wellnest/auth-service/internal/domain"
)

// RefreshTokenRepository is the per-role persistence boundary for rotation
// state. It performs no business validation; expiry and ownership checks
// belong to the rotation engine.
type RefreshTokenRepository interface {
	GetByUser(ctx context.Context, userID string) (*domain.RefreshTokenRecord, error)
	GetByUserAndToken(ctx context.Context, userID, token string) (*domain.RefreshTokenRecord, error)
	Save(ctx context.Context, record *domain.RefreshTokenRecord) error
	Delete(ctx context.Context, record *domain.RefreshTokenRecord) error
	// WithTx rebinds the repository to a transaction so callers can compose
	// delete+insert atomically.
	WithTx(tx pgx.Tx) RefreshTokenRepository
}

type refreshTokenRepository struct {
	db    querier
	table string
}

// NewStudentRefreshTokenRepository stores student session state.
func NewStudentRefreshTokenRepository(pool *pgxpool.Pool) RefreshTokenRepository {
	return &refreshTokenRepository{db: pool, table: "student_refresh_tokens"}
}

// NewCounselorRefreshTokenRepository stores counselor session state.
func NewCounselorRefreshTokenRepository(pool *pgxpool.Pool) RefreshTokenRepository {
	return &refreshTokenRepository{db: pool, table: "counselor_refresh_tokens"}
}

// NewAdminRefreshTokenRepository stores admin session state.
func NewAdminRefreshTokenRepository(pool *pgxpool.Pool) RefreshTokenRepository {
	return &refreshTokenRepository{db: pool, table: "admin_refresh_tokens"}
}

func (r *refreshTokenRepository) WithTx(tx pgx.Tx) RefreshTokenRepository {
	return &refreshTokenRepository{db: tx, table: r.table}
}

func (r *refreshTokenRepository) GetByUser(ctx context.Context, userID string) (*domain.RefreshTokenRecord, error) {
	query := `
        SELECT token_id, user_id, token, expires_at, created_at, updated_at
        FROM ` + r.table + ` WHERE user_id=$1`
	return r.scanRecord(r.db.QueryRow(ctx, query, userID))
}

func (r *refreshTokenRepository) GetByUserAndToken(ctx context.Context, userID, token string) (*domain.RefreshTokenRecord, error) {
	query := `
        SELECT token_id, user_id, token, expires_at, created_at, updated_at
        FROM ` + r.table + ` WHERE user_id=$1 AND token=$2`
	return r.scanRecord(r.db.QueryRow(ctx, query, userID, token))
}

func (r *refreshTokenRepository) Save(ctx context.Context, record *domain.RefreshTokenRecord) error {
	query := `
        INSERT INTO ` + r.table + ` (user_id, token, expires_at)
        VALUES ($1, $2, $3)
        RETURNING token_id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		record.UserID,
		record.Token,
		record.ExpiresAt,
	).Scan(&record.TokenID, &record.CreatedAt, &record.UpdatedAt)
}

func (r *refreshTokenRepository) Delete(ctx context.Context, record *domain.RefreshTokenRecord) error {
	query := `DELETE FROM ` + r.table + ` WHERE token_id=$1`

	cmd, err := r.db.Exec(ctx, query, record.TokenID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *refreshTokenRepository) scanRecord(row pgx.Row) (*domain.RefreshTokenRecord, error) {
	var record domain.RefreshTokenRecord
	if err := row.Scan(
		&record.TokenID,
		&record.UserID,
		&record.Token,
		&record.ExpiresAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &record, nil
}

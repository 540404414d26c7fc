package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heron-wellnest/auth-service/internal/domain"
)

// StudentRepository defines persistence access for students.
type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) error
	GetByID(ctx context.Context, id string) (*domain.Student, error)
	GetByEmail(ctx context.Context, email string) (*domain.Student, error)
	CompleteOnboarding(ctx context.Context, id, programID string) error
}

type studentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository returns a Postgres-backed implementation.
func NewStudentRepository(pool *pgxpool.Pool) StudentRepository {
	return &studentRepository{pool: pool}
}

func (r *studentRepository) Create(ctx context.Context, student *domain.Student) error {
	const query = `
        INSERT INTO students (email, user_name, college_program_id, finished_onboarding)
        VALUES ($1, $2, $3, $4)
        RETURNING user_id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		student.Email,
		student.UserName,
		student.CollegeProgramID,
		student.FinishedOnboarding,
	).Scan(&student.UserID, &student.CreatedAt, &student.UpdatedAt)
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	const query = `
        SELECT user_id, email, user_name, college_program_id, finished_onboarding, is_deleted, created_at, updated_at
        FROM students WHERE user_id=$1 AND is_deleted = FALSE`
	return r.scanStudent(r.pool.QueryRow(ctx, query, id))
}

func (r *studentRepository) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	const query = `
        SELECT user_id, email, user_name, college_program_id, finished_onboarding, is_deleted, created_at, updated_at
        FROM students WHERE email=$1 AND is_deleted = FALSE`
	return r.scanStudent(r.pool.QueryRow(ctx, query, email))
}

// CompleteOnboarding assigns the program and flips finished_onboarding. The
// guard on finished_onboarding keeps the false->true transition one-way even
// if two requests race.
func (r *studentRepository) CompleteOnboarding(ctx context.Context, id, programID string) error {
	const query = `
        UPDATE students SET college_program_id=$1, finished_onboarding=TRUE, updated_at=NOW()
        WHERE user_id=$2 AND finished_onboarding = FALSE`

	cmd, err := r.pool.Exec(ctx, query, programID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *studentRepository) scanStudent(row pgx.Row) (*domain.Student, error) {
	var student domain.Student
	if err := row.Scan(
		&student.UserID,
		&student.Email,
		&student.UserName,
		&student.CollegeProgramID,
		&student.FinishedOnboarding,
		&student.IsDeleted,
		&student.CreatedAt,
		&student.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &student, nil
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/heron-wellnest/auth-service/internal/auth"
	"github.com/heron-wellnest/auth-service/internal/domain"
	"github.com/heron-wellnest/auth-service/internal/identity"
	"github.com/heron-wellnest/auth-service/internal/repository"
	"github.com/heron-wellnest/auth-service/internal/token"
	"github.com/heron-wellnest/auth-service/pkg/util/errorutil"
)

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// TokenData is the issued pair returned to the caller.
type TokenData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	IsOnboarded  *bool  `json:"is_onboarded,omitempty"`
}

// Result is the uniform outcome of a successful core operation.
type Result struct {
	Code    string
	Message string
	Data    *TokenData
}

// RotationService orchestrates login, logout, refresh and onboarding flows
// and owns the invariant that the old refresh token is invalidated atomically
// with new token issuance.
type RotationService struct {
	students   repository.StudentRepository
	counselors repository.CounselorRepository
	admins     repository.AdminRepository
	colleges   repository.CollegeRepository

	studentTokens   repository.RefreshTokenRepository
	counselorTokens repository.RefreshTokenRepository
	adminTokens     repository.RefreshTokenRepository

	codec  *token.Codec
	tx     TxRunner
	logger *zap.Logger
	now    func() time.Time
}

// Dependencies encapsulates repo requirements for the rotation service.
type Dependencies struct {
	StudentRepo   repository.StudentRepository
	CounselorRepo repository.CounselorRepository
	AdminRepo     repository.AdminRepository
	CollegeRepo   repository.CollegeRepository

	StudentTokenRepo   repository.RefreshTokenRepository
	CounselorTokenRepo repository.RefreshTokenRepository
	AdminTokenRepo     repository.RefreshTokenRepository
}

// NewRotationService builds the service.
func NewRotationService(codec *token.Codec, tx TxRunner, deps Dependencies, logger *zap.Logger) *RotationService {
	return &RotationService{
		students:        deps.StudentRepo,
		counselors:      deps.CounselorRepo,
		admins:          deps.AdminRepo,
		colleges:        deps.CollegeRepo,
		studentTokens:   deps.StudentTokenRepo,
		counselorTokens: deps.CounselorTokenRepo,
		adminTokens:     deps.AdminTokenRepo,
		codec:           codec,
		tx:              tx,
		logger:          logger,
		now:             time.Now,
	}
}

// StudentLogin resolves the verified Google identity to a student,
// provisioning one on first login, and issues a fresh session.
func (s *RotationService) StudentLogin(ctx context.Context, googleUser identity.GoogleUser) (*Result, error) {
	student, err := s.students.GetByEmail(ctx, googleUser.Email)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		student = &domain.Student{
			User: domain.User{
				Email:    googleUser.Email,
				UserName: googleUser.Name,
			},
			FinishedOnboarding: false,
		}
		if err := s.students.Create(ctx, student); err != nil {
			return nil, err
		}
		s.logger.Info("student provisioned", zap.String("user_id", student.UserID))
	}

	claims, err := s.studentClaims(ctx, student)
	if err != nil {
		return nil, err
	}

	data, err := s.issueSession(ctx, s.studentTokens, claims, student.UserID)
	if err != nil {
		return nil, err
	}
	onboarded := student.FinishedOnboarding
	data.IsOnboarded = &onboarded

	if !student.FinishedOnboarding {
		return &Result{
			Code:    "ONBOARDING_REQUIRED",
			Message: "Onboarding required to complete your profile",
			Data:    data,
		}, nil
	}
	return &Result{
		Code:    "LOGIN_SUCCESS",
		Message: "Student login successful",
		Data:    data,
	}, nil
}

// CounselorLogin authenticates a counselor by email and password. Unknown
// email and wrong password fail identically so user existence never leaks.
func (s *RotationService) CounselorLogin(ctx context.Context, email, password string) (*Result, error) {
	counselor, err := s.counselors.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invalidCredentials()
		}
		return nil, err
	}
	if err := auth.ComparePassword(counselor.PasswordHash, password); err != nil {
		return nil, invalidCredentials()
	}

	claims, err := s.counselorClaims(ctx, counselor)
	if err != nil {
		return nil, err
	}

	data, err := s.issueSession(ctx, s.counselorTokens, claims, counselor.UserID)
	if err != nil {
		return nil, err
	}
	return &Result{
		Code:    "LOGIN_SUCCESS",
		Message: "Counselor login successful",
		Data:    data,
	}, nil
}

// AdminLogin authenticates an admin by email and password.
func (s *RotationService) AdminLogin(ctx context.Context, email, password string) (*Result, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invalidCredentials()
		}
		return nil, err
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return nil, invalidCredentials()
	}

	data, err := s.issueSession(ctx, s.adminTokens, token.AdminClaims(admin), admin.UserID)
	if err != nil {
		return nil, err
	}
	return &Result{
		Code:    "LOGIN_SUCCESS",
		Message: "Admin login successful",
		Data:    data,
	}, nil
}

// Logout verifies the presented refresh token, locates its stored record by
// exact match and deletes it. Logout never issues new tokens.
func (s *RotationService) Logout(ctx context.Context, role domain.Role, refreshToken string) (*Result, error) {
	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errorutil.NewBadRequest("INVALID_REFRESH_TOKEN", "Refresh token payload missing user ID.")
	}

	repo := s.tokenRepoFor(role)
	stored, err := repo.GetByUserAndToken(ctx, claims.Subject, refreshToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewUnauthorized("REFRESH_TOKEN_NOT_FOUND", "Refresh token not found or already invalidated.")
		}
		return nil, err
	}

	if err := repo.Delete(ctx, stored); err != nil {
		return nil, err
	}
	return &Result{
		Code:    "LOGOUT_SUCCESS",
		Message: "User logged out successfully.",
	}, nil
}

// Refresh rotates the session: the stored record must match the presented
// token exactly, expired or orphaned records self-heal by deletion, claims
// are re-derived from current user state, and delete-old plus insert-new run
// in one transaction so the old token is never usable after the call returns.
func (s *RotationService) Refresh(ctx context.Context, role domain.Role, userID, refreshToken string) (*Result, error) {
	repo := s.tokenRepoFor(role)

	stored, err := repo.GetByUserAndToken(ctx, userID, refreshToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewUnauthorized("INVALID_REFRESH_TOKEN", "Refresh token is invalid or not found")
		}
		return nil, err
	}

	if stored.Expired(s.now()) {
		if err := repo.Delete(ctx, stored); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("failed to delete expired refresh token", zap.Error(err))
		}
		return nil, errorutil.NewUnauthorized("EXPIRED_REFRESH_TOKEN", "Refresh token expired")
	}

	claims, onboarded, err := s.claimsForRefresh(ctx, role, stored, repo)
	if err != nil {
		return nil, err
	}

	data, err := s.rotate(ctx, repo, stored, claims)
	if err != nil {
		return nil, err
	}

	if role == domain.RoleStudent {
		data.IsOnboarded = onboarded
		if onboarded != nil && !*onboarded {
			return &Result{
				Code:    "ACCESS_TOKEN_REFRESH_SUCCESS_ONBOARDING_REQUIRED",
				Message: "Access token refresh successful. Onboarding required to complete your profile",
				Data:    data,
			}, nil
		}
	}
	return &Result{
		Code:    "ACCESS_TOKEN_REFRESH_SUCCESS",
		Message: "Access token refresh successful",
		Data:    data,
	}, nil
}

// CompleteOnboarding assigns a program to an unonboarded student, then
// invalidates any existing session and issues a fresh pair so the new claims
// take effect immediately.
func (s *RotationService) CompleteOnboarding(ctx context.Context, studentID, programName string) (*Result, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("USER_TO_BE_ONBOARDED_NOT_FOUND", "User with ID "+studentID+" was not found")
		}
		return nil, err
	}

	if student.FinishedOnboarding {
		return nil, errorutil.NewConflict("USER_ALREADY_ONBOARDED", "User "+student.UserName+" is already onboarded")
	}

	program, err := s.colleges.GetProgramByName(ctx, programName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("PROGRAM_NOT_FOUND", "College program "+programName+" was not found")
		}
		return nil, err
	}

	if err := s.students.CompleteOnboarding(ctx, student.UserID, program.ProgramID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost the race to a concurrent onboarding call.
			return nil, errorutil.NewConflict("USER_ALREADY_ONBOARDED", "User "+student.UserName+" is already onboarded")
		}
		return nil, err
	}

	student.CollegeProgramID = &program.ProgramID
	student.FinishedOnboarding = true

	claims, err := s.studentClaims(ctx, student)
	if err != nil {
		return nil, err
	}

	data, err := s.issueSession(ctx, s.studentTokens, claims, student.UserID)
	if err != nil {
		return nil, err
	}
	onboarded := true
	data.IsOnboarded = &onboarded

	return &Result{
		Code:    "USER_SUCCESSFULLY_ONBOARDED",
		Message: "User " + student.UserName + " successfully onboarded",
		Data:    data,
	}, nil
}

// issueSession signs a new pair and replaces any existing refresh record for
// the user. The delete and insert run in one transaction; a concurrent login
// colliding on the user_id unique index is retried once, so the last login
// wins and exactly one record remains.
func (s *RotationService) issueSession(ctx context.Context, repo repository.RefreshTokenRepository, claims token.AccessClaims, userID string) (*TokenData, error) {
	accessToken, err := s.codec.IssueAccess(claims)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.codec.IssueRefresh(userID)
	if err != nil {
		return nil, err
	}

	replace := func() error {
		return s.tx.WithinTx(ctx, func(tx pgx.Tx) error {
			txRepo := repo.WithTx(tx)
			existing, err := txRepo.GetByUser(ctx, userID)
			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return err
			}
			if existing != nil {
				if err := txRepo.Delete(ctx, existing); err != nil {
					return err
				}
			}
			return txRepo.Save(ctx, &domain.RefreshTokenRecord{
				UserID:    userID,
				Token:     refreshToken,
				ExpiresAt: s.now().Add(s.codec.RefreshTTL()),
			})
		})
	}

	if err := replace(); err != nil {
		if !repository.IsUniqueViolation(err) {
			return nil, err
		}
		if err := replace(); err != nil {
			return nil, err
		}
	}

	return &TokenData{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// rotate atomically swaps the stored record for a fresh pair. When a
// concurrent rotation already consumed the record, the delete comes back
// empty and the caller fails as invalid; exactly one attempt wins.
func (s *RotationService) rotate(ctx context.Context, repo repository.RefreshTokenRepository, stored *domain.RefreshTokenRecord, claims token.AccessClaims) (*TokenData, error) {
	accessToken, err := s.codec.IssueAccess(claims)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.codec.IssueRefresh(stored.UserID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(tx pgx.Tx) error {
		txRepo := repo.WithTx(tx)
		if err := txRepo.Delete(ctx, stored); err != nil {
			return err
		}
		return txRepo.Save(ctx, &domain.RefreshTokenRecord{
			UserID:    stored.UserID,
			Token:     refreshToken,
			ExpiresAt: s.now().Add(s.codec.RefreshTTL()),
		})
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewUnauthorized("INVALID_REFRESH_TOKEN", "Refresh token is invalid or not found")
		}
		return nil, err
	}

	return &TokenData{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// claimsForRefresh re-derives claims from current user state. Claims from
// the superseded token are never reused: onboarding or department state may
// have changed since issuance. Orphaned records self-heal by deletion.
func (s *RotationService) claimsForRefresh(ctx context.Context, role domain.Role, stored *domain.RefreshTokenRecord, repo repository.RefreshTokenRepository) (token.AccessClaims, *bool, error) {
	userNotFound := func() (token.AccessClaims, *bool, error) {
		if err := repo.Delete(ctx, stored); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("failed to delete orphaned refresh token", zap.Error(err))
		}
		return token.AccessClaims{}, nil, errorutil.NewNotFound("USER_NOT_FOUND", "User linked to refresh token not found.")
	}

	switch role {
	case domain.RoleStudent:
		student, err := s.students.GetByID(ctx, stored.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return userNotFound()
			}
			return token.AccessClaims{}, nil, err
		}
		claims, err := s.studentClaims(ctx, student)
		if err != nil {
			return token.AccessClaims{}, nil, err
		}
		onboarded := student.FinishedOnboarding
		return claims, &onboarded, nil
	case domain.RoleCounselor:
		counselor, err := s.counselors.GetByID(ctx, stored.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return userNotFound()
			}
			return token.AccessClaims{}, nil, err
		}
		claims, err := s.counselorClaims(ctx, counselor)
		return claims, nil, err
	default:
		admin, err := s.admins.GetByID(ctx, stored.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return userNotFound()
			}
			return token.AccessClaims{}, nil, err
		}
		return token.AdminClaims(admin), nil, nil
	}
}

// studentClaims resolves the nullable program->department chain before
// building the claim set.
func (s *RotationService) studentClaims(ctx context.Context, student *domain.Student) (token.AccessClaims, error) {
	var program *domain.CollegeProgram
	var dept *domain.CollegeDepartment

	if student.CollegeProgramID != nil {
		p, err := s.colleges.GetProgramByID(ctx, *student.CollegeProgramID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return token.AccessClaims{}, err
		}
		program = p
	}
	if program != nil && program.CollegeDepartmentID != nil {
		d, err := s.colleges.GetDepartmentByID(ctx, *program.CollegeDepartmentID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return token.AccessClaims{}, err
		}
		dept = d
	}

	return token.StudentClaims(student, program, dept), nil
}

func (s *RotationService) counselorClaims(ctx context.Context, counselor *domain.Counselor) (token.AccessClaims, error) {
	var dept *domain.CollegeDepartment
	if counselor.CollegeDepartmentID != nil {
		d, err := s.colleges.GetDepartmentByID(ctx, *counselor.CollegeDepartmentID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return token.AccessClaims{}, err
		}
		dept = d
	}
	return token.CounselorClaims(counselor, dept), nil
}

func (s *RotationService) tokenRepoFor(role domain.Role) repository.RefreshTokenRepository {
	switch role {
	case domain.RoleCounselor:
		return s.counselorTokens
	case domain.RoleAdmin:
		return s.adminTokens
	default:
		return s.studentTokens
	}
}

func invalidCredentials() error {
	return errorutil.NewUnauthorized("INVALID_CREDENTIALS", "Invalid email or password")
}

package token

import (
	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/heron-wellnest/auth-service/internal/domain"
)

// Role values embedded in access tokens.
const (
	RoleStudent        = "student"
	RoleStudentPending = "student_pending"
	RoleCounselor      = "counselor"
	RoleAdmin          = "admin"
	RoleSuperAdmin     = "super_admin"
)

// AccessClaims is the full claim set carried by access tokens. Optional
// fields use pointers so absent values serialize as null, never omitted.
type AccessClaims struct {
	Role              string  `json:"role"`
	Email             string  `json:"email"`
	Name              string  `json:"name"`
	IsOnboarded       *bool   `json:"is_onboarded"`
	CollegeProgram    *string `json:"college_program"`
	CollegeDepartment *string `json:"college_department"`
	jwt.RegisteredClaims
}

// StudentClaims derives the claim set for a student from current state. The
// caller resolves the nullable program and department chain; claims must be
// rebuilt on every issuance so onboarding and program changes surface
// immediately.
func StudentClaims(s *domain.Student, program *domain.CollegeProgram, dept *domain.CollegeDepartment) AccessClaims {
	role := RoleStudentPending
	if s.FinishedOnboarding {
		role = RoleStudent
	}

	onboarded := s.FinishedOnboarding
	claims := AccessClaims{
		Role:        role,
		Email:       s.Email,
		Name:        s.UserName,
		IsOnboarded: &onboarded,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: s.UserID,
		},
	}
	if program != nil {
		claims.CollegeProgram = &program.ProgramName
	}
	if dept != nil {
		claims.CollegeDepartment = &dept.DepartmentName
	}
	return claims
}

// CounselorClaims derives the claim set for a counselor.
func CounselorClaims(c *domain.Counselor, dept *domain.CollegeDepartment) AccessClaims {
	claims := AccessClaims{
		Role:  RoleCounselor,
		Email: c.Email,
		Name:  c.UserName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: c.UserID,
		},
	}
	if dept != nil {
		claims.CollegeDepartment = &dept.DepartmentName
	}
	return claims
}

// AdminClaims derives the claim set for an admin.
func AdminClaims(a *domain.Admin) AccessClaims {
	role := RoleAdmin
	if a.IsSuperAdmin {
		role = RoleSuperAdmin
	}
	return AccessClaims{
		Role:  role,
		Email: a.Email,
		Name:  a.UserName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: a.UserID,
		},
	}
}

package domain

import "time"

// Role tags the user variant a record or token belongs to.
type Role string

const (
	RoleStudent   Role = "student"
	RoleCounselor Role = "counselor"
	RoleAdmin     Role = "admin"
)

// User carries the fields shared by every role. UserID is generated once and
// never reassigned; email is unique within each role table.
type User struct {
	UserID    string
	Email     string
	UserName  string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Student is a lazily provisioned end-user. CollegeProgramID stays nil until
// onboarding completes.
type Student struct {
	User
	CollegeProgramID   *string
	FinishedOnboarding bool
}

// Counselor is pre-provisioned and authenticates with a password.
type Counselor struct {
	User
	CollegeDepartmentID *string
	PasswordHash        string
}

// Admin is pre-provisioned and authenticates with a password.
type Admin struct {
	User
	PasswordHash string
	IsSuperAdmin bool
}

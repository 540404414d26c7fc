package domain

import "time"

// CollegeDepartment is an organizational unit used only as claim enrichment.
type CollegeDepartment struct {
	DepartmentID   string
	DepartmentName string
	IsDeleted      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CollegeProgram belongs to at most one department.
type CollegeProgram struct {
	ProgramID           string
	ProgramName         string
	CollegeDepartmentID *string
	IsDeleted           bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

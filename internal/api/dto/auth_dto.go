package dto

// CredentialLoginRequest payload for counselor and admin login.
type CredentialLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest payload for token rotation.
type RefreshRequest struct {
	UserID       string `json:"user_id"`
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest payload for session invalidation.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// OnboardingRequest payload for student profile completion.
type OnboardingRequest struct {
	CollegeProgram string `json:"college_program"`
}

// Envelope is the uniform response shape for every auth operation.
type Envelope struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/heron-wellnest/auth-service/internal/api/dto"
	"github.com/heron-wellnest/auth-service/internal/auth"
	"github.com/heron-wellnest/auth-service/internal/service"
	"github.com/heron-wellnest/auth-service/pkg/util/errorutil"
)

// OnboardingHandler exposes the student profile-completion endpoint.
type OnboardingHandler struct {
	rotation *service.RotationService
}

// NewOnboardingHandler constructs handler.
func NewOnboardingHandler(rotation *service.RotationService) *OnboardingHandler {
	return &OnboardingHandler{rotation: rotation}
}

// Board handles POST /api/v1/auth/student/board. The access-token middleware
// has already verified the caller's token.
func (h *OnboardingHandler) Board(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok || claims.Subject == "" || claims.Email == "" || claims.Name == "" {
		return errorutil.NewBadRequest("MISSING_TOKEN_CREDENTIALS", "JWT is missing student info claims.")
	}

	var req dto.OnboardingRequest
	if err := c.BodyParser(&req); err != nil || req.CollegeProgram == "" {
		return errorutil.NewBadRequest("BODY_PARAM_MISSING", "The param college_program is required")
	}

	result, err := h.rotation.CompleteOnboarding(c.UserContext(), claims.Subject, req.CollegeProgram)
	if err != nil {
		return err
	}
	return writeResult(c, result)
}

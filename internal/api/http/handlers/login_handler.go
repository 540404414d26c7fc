package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/heron-wellnest/auth-service/internal/api/dto"
	"github.com/heron-wellnest/auth-service/internal/identity"
	"github.com/heron-wellnest/auth-service/internal/service"
	"github.com/heron-wellnest/auth-service/pkg/util/errorutil"
)

// LoginHandler exposes the per-role login endpoints.
type LoginHandler struct {
	rotation *service.RotationService
}

// NewLoginHandler constructs handler.
func NewLoginHandler(rotation *service.RotationService) *LoginHandler {
	return &LoginHandler{rotation: rotation}
}

// StudentLogin handles POST /api/v1/auth/student/login. The Google identity
// middleware has already verified the caller.
func (h *LoginHandler) StudentLogin(c *fiber.Ctx) error {
	googleUser, ok := identity.UserFromContext(c)
	if !ok || googleUser.Email == "" || googleUser.Name == "" {
		return errorutil.NewBadRequest("MISSING_CREDENTIALS", "Missing Google user info")
	}

	result, err := h.rotation.StudentLogin(c.UserContext(), *googleUser)
	if err != nil {
		return err
	}
	return writeResult(c, result)
}

// CounselorLogin handles POST /api/v1/auth/counselor/login.
func (h *LoginHandler) CounselorLogin(c *fiber.Ctx) error {
	email, password, err := parseCredentials(c)
	if err != nil {
		return err
	}

	result, err := h.rotation.CounselorLogin(c.UserContext(), email, password)
	if err != nil {
		return err
	}
	return writeResult(c, result)
}

// AdminLogin handles POST /api/v1/auth/admin/login.
func (h *LoginHandler) AdminLogin(c *fiber.Ctx) error {
	email, password, err := parseCredentials(c)
	if err != nil {
		return err
	}

	result, err := h.rotation.AdminLogin(c.UserContext(), email, password)
	if err != nil {
		return err
	}
	return writeResult(c, result)
}

func parseCredentials(c *fiber.Ctx) (string, string, error) {
	var req dto.CredentialLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return "", "", errorutil.NewBadRequest("MISSING_CREDENTIALS", "email and password are required")
	}
	if req.Email == "" || req.Password == "" {
		return "", "", errorutil.NewBadRequest("MISSING_CREDENTIALS", "email and password are required")
	}
	return req.Email, req.Password, nil
}

// writeResult serializes a successful core result into the uniform envelope.
// HTTP status is uniformly success; the code field carries the distinction.
func writeResult(c *fiber.Ctx, result *service.Result) error {
	envelope := dto.Envelope{
		Success: true,
		Code:    result.Code,
		Message: result.Message,
	}
	if result.Data != nil {
		envelope.Data = result.Data
	}
	return c.JSON(envelope)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/heron-wellnest/auth-service/internal/api/dto"
	"github.com/heron-wellnest/auth-service/internal/domain"
	"github.com/heron-wellnest/auth-service/internal/service"
	"github.com/heron-wellnest/auth-service/pkg/util/errorutil"
)

// SessionHandler exposes logout and refresh endpoints for each role.
type SessionHandler struct {
	rotation *service.RotationService
	role     domain.Role
}

// NewSessionHandler constructs a handler bound to one role.
func NewSessionHandler(rotation *service.RotationService, role domain.Role) *SessionHandler {
	return &SessionHandler{rotation: rotation, role: role}
}

// Logout handles POST /api/v1/auth/{role}/logout.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return errorutil.NewBadRequest("MISSING_REFRESH_PAYLOAD", "refresh_token is required.")
	}

	result, err := h.rotation.Logout(c.UserContext(), h.role, req.RefreshToken)
	if err != nil {
		return err
	}
	return writeResult(c, result)
}

// Refresh handles POST /api/v1/auth/{role}/refresh.
func (h *SessionHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == "" || req.RefreshToken == "" {
		return errorutil.NewBadRequest("MISSING_REFRESH_PAYLOAD", "user_id and refresh_token are required.")
	}

	result, err := h.rotation.Refresh(c.UserContext(), h.role, req.UserID, req.RefreshToken)
	if err != nil {
		return err
	}
	return writeResult(c, result)
}

package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/heron-wellnest/auth-service/internal/token"
	"github.com/heron-wellnest/auth-service/pkg/util/errorutil"
)

const claimsKey = "access_claims"

// ExtractBearer reads the token from an Authorization header value.
func ExtractBearer(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// Middleware validates locally issued access tokens on protected routes.
type Middleware struct {
	codec *token.Codec
}

// NewMiddleware constructs middleware around the codec.
func NewMiddleware(codec *token.Codec) *Middleware {
	return &Middleware{codec: codec}
}

// RequireStudent enforces a student access token and stores its claims.
func (m *Middleware) RequireStudent(c *fiber.Ctx) error {
	raw, ok := ExtractBearer(c.Get("Authorization"))
	if !ok {
		return errorutil.NewUnauthorized("AUTH_NO_TOKEN", "No token provided")
	}

	claims, err := m.codec.VerifyAccess(raw)
	if err != nil {
		return err
	}
	if claims.Role != token.RoleStudent && claims.Role != token.RoleStudentPending {
		return errorutil.NewForbidden("ROLE_FORBIDDEN", "student role required")
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

// ClaimsFromContext retrieves verified access claims set by the middleware.
func ClaimsFromContext(c *fiber.Ctx) (*token.AccessClaims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*token.AccessClaims)
	return claims, ok
}

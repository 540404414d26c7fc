package identity

import (
	"github.com/gofiber/fiber/v2"

	"github.com/heron-wellnest/auth-service/internal/auth"
	"github.com/heron-wellnest/auth-service/pkg/util/errorutil"
)

const googleUserKey = "google_user"

// Middleware authenticates requests carrying a Google ID token.
func Middleware(verifier Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := auth.ExtractBearer(c.Get("Authorization"))
		if !ok {
			return errorutil.NewUnauthorized("AUTH_NO_TOKEN", "No token provided")
		}

		user, err := verifier.Verify(c.UserContext(), raw)
		if err != nil {
			return err
		}

		c.Locals(googleUserKey, user)
		return c.Next()
	}
}

// UserFromContext retrieves the verified Google identity.
func UserFromContext(c *fiber.Ctx) (*GoogleUser, bool) {
	val := c.Locals(googleUserKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*GoogleUser)
	return user, ok
}

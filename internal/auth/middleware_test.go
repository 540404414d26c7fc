package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/heron-wellnest/auth-service/internal/config"
	"github.com/heron-wellnest/auth-service/internal/token"
	"github.com/heron-wellnest/auth-service/pkg/util/errorutil"
)

func TestExtractBearer(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc.def.ghi", "abc.def.ghi", true},
		{"Basic dXNlcg==", "", false},
		{"Bearer", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ExtractBearer(tc.header)
		if ok != tc.ok || got != tc.token {
			t.Errorf("ExtractBearer(%q) = (%q, %v), want (%q, %v)", tc.header, got, ok, tc.token, tc.ok)
		}
	}
}

func newTestCodec(t *testing.T) *token.Codec {
	t.Helper()
	codec, err := token.NewCodec(config.JWTConfig{
		Algorithm:       "HS256",
		Issuer:          "heron-wellnest-auth",
		Audience:        "heron-wellnest",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		Secret:          "test-secret",
	})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return codec
}

func requireApp(t *testing.T, codec *token.Codec) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			appErr := errorutil.ToAppError(err)
			return c.Status(appErr.HTTPStatus).JSON(fiber.Map{"code": appErr.Code})
		},
	})
	mw := NewMiddleware(codec)
	app.Get("/protected", mw.RequireStudent, func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return errorutil.NewInternal("CLAIMS_MISSING", nil)
		}
		return c.JSON(fiber.Map{"subject": claims.Subject})
	})
	return app
}

func TestRequireStudent(t *testing.T) {
	codec := newTestCodec(t)
	app := requireApp(t, codec)

	studentToken, err := codec.IssueAccess(token.AccessClaims{Role: token.RoleStudent})
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	pendingToken, err := codec.IssueAccess(token.AccessClaims{Role: token.RoleStudentPending})
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	adminToken, err := codec.IssueAccess(token.AccessClaims{Role: token.RoleAdmin})
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"no token", "", fiber.StatusUnauthorized},
		{"garbage token", "Bearer nope", fiber.StatusUnauthorized},
		{"student allowed", "Bearer " + studentToken, fiber.StatusOK},
		{"pending student allowed", "Bearer " + pendingToken, fiber.StatusOK},
		{"admin forbidden", "Bearer " + adminToken, fiber.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.status {
				t.Errorf("status: got %d, want %d", resp.StatusCode, tc.status)
			}
		})
	}
}

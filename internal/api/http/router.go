package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/heron-wellnest/auth-service/internal/api/http/handlers"
	"github.com/heron-wellnest/auth-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Login      *handlers.LoginHandler
	Onboarding *handlers.OnboardingHandler

	StudentSession   *handlers.SessionHandler
	CounselorSession *handlers.SessionHandler
	AdminSession     *handlers.SessionHandler

	GoogleAuth fiber.Handler
	AccessAuth *auth.Middleware
	RateLimit  fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/api/v1/auth")
	if cfg.RateLimit != nil {
		authGroup.Use(cfg.RateLimit)
	}

	authGroup.Post("/student/login", cfg.GoogleAuth, cfg.Login.StudentLogin)
	authGroup.Post("/student/logout", cfg.StudentSession.Logout)
	authGroup.Post("/student/refresh", cfg.StudentSession.Refresh)
	authGroup.Post("/student/board", cfg.AccessAuth.RequireStudent, cfg.Onboarding.Board)

	authGroup.Post("/counselor/login", cfg.Login.CounselorLogin)
	authGroup.Post("/counselor/logout", cfg.CounselorSession.Logout)
	authGroup.Post("/counselor/refresh", cfg.CounselorSession.Refresh)

	authGroup.Post("/admin/login", cfg.Login.AdminLogin)
	authGroup.Post("/admin/logout", cfg.AdminSession.Logout)
	authGroup.Post("/admin/refresh", cfg.AdminSession.Refresh)
}

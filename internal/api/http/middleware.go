package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/heron-wellnest/auth-service/internal/api/dto"
	"github.com/heron-wellnest/auth-service/internal/observability"
	"github.com/heron-wellnest/auth-service/pkg/util/errorutil"
)

// MiddlewareConfig controls global middleware behavior.
type MiddlewareConfig struct {
	Timeout     time.Duration
	CORSOrigins string
	Production  bool
}

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, cfg MiddlewareConfig) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	if cfg.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.Timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics, cfg.Production))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics, production bool) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = errorutil.NewInternal("INTERNAL_ERROR", nil)
			}
			if err != nil {
				appErr := errorutil.ToAppError(err)
				if metrics != nil {
					metrics.RecordError(c.Path(), c.Method(), appErr.Code)
				}
				if !appErr.Operational {
					fields := []zap.Field{zap.Error(appErr)}
					if !production {
						fields = append(fields, zap.ByteString("stack", debug.Stack()))
					}
					logger.Error("request failed", fields...)
				}
				c.Status(appErr.HTTPStatus)
				_ = c.JSON(dto.Envelope{
					Success: false,
					Code:    appErr.Code,
					Message: appErr.Message,
				})
				err = nil
			}
		}()
		return c.Next()
	}
}

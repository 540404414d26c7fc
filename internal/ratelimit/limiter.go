package ratelimit

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/heron-wellnest/auth-service/internal/config"
	"github.com/heron-wellnest/auth-service/pkg/util/errorutil"
)

const keyPrefix = "ratelimit:auth:"

// Limiter is a Redis-backed fixed-window rate limiter for auth routes.
type Limiter struct {
	client *redis.Client
	max    int
	window time.Duration
	logger *zap.Logger
}

// NewLimiter builds the limiter from config.
func NewLimiter(client *redis.Client, cfg config.RateLimitConfig, logger *zap.Logger) *Limiter {
	return &Limiter{
		client: client,
		max:    cfg.MaxRequests,
		window: time.Duration(cfg.WindowSeconds) * time.Second,
		logger: logger,
	}
}

// Allow increments the counter for key and reports whether the caller stays
// within the window budget.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(l.max), nil
}

// Handler applies the limiter per client IP. Redis outages fail open so the
// limiter never takes authentication down with it.
func (l *Limiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowed, err := l.Allow(c.UserContext(), keyPrefix+c.IP())
		if err != nil {
			l.logger.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}
		if !allowed {
			return errorutil.New("RATE_LIMIT_EXCEEDED", "Too many requests, please try again later", http.StatusTooManyRequests)
		}
		return c.Next()
	}
}

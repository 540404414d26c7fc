package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/heron-wellnest/auth-service/internal/api/http"
	"github.com/heron-wellnest/auth-service/internal/api/http/handlers"
	"github.com/heron-wellnest/auth-service/internal/auth"
	"github.com/heron-wellnest/auth-service/internal/config"
	"github.com/heron-wellnest/auth-service/internal/domain"
	"github.com/heron-wellnest/auth-service/internal/identity"
	"github.com/heron-wellnest/auth-service/internal/observability"
	"github.com/heron-wellnest/auth-service/internal/persistence"
	"github.com/heron-wellnest/auth-service/internal/ratelimit"
	"github.com/heron-wellnest/auth-service/internal/repository"
	"github.com/heron-wellnest/auth-service/internal/service"
	"github.com/heron-wellnest/auth-service/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Key material is validated up front: a misconfigured codec is fatal.
	codec, err := token.NewCodec(cfg.JWT)
	if err != nil {
		logger.Fatal("failed to init token codec", zap.Error(err))
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	googleVerifier, err := identity.NewGoogleVerifier(ctx, cfg.Google)
	if err != nil {
		logger.Fatal("failed to init google verifier", zap.Error(err))
	}

	pool := pg.PoolHandle()
	rotationService := service.NewRotationService(codec, pg, service.Dependencies{
		StudentRepo:        repository.NewStudentRepository(pool),
		CounselorRepo:      repository.NewCounselorRepository(pool),
		AdminRepo:          repository.NewAdminRepository(pool),
		CollegeRepo:        repository.NewCollegeRepository(pool),
		StudentTokenRepo:   repository.NewStudentRefreshTokenRepository(pool),
		CounselorTokenRepo: repository.NewCounselorRefreshTokenRepository(pool),
		AdminTokenRepo:     repository.NewAdminRefreshTokenRepository(pool),
	}, logger)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:     cfg.App.RequestTimeout(),
		CORSOrigins: cfg.App.CORSOrigins,
		Production:  cfg.App.IsProduction(),
	})

	var rateLimitHandler fiber.Handler
	if cfg.RateLimit.Enabled {
		rateLimitHandler = ratelimit.NewLimiter(redis.Client, cfg.RateLimit, logger).Handler()
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:           handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Login:            handlers.NewLoginHandler(rotationService),
		Onboarding:       handlers.NewOnboardingHandler(rotationService),
		StudentSession:   handlers.NewSessionHandler(rotationService, domain.RoleStudent),
		CounselorSession: handlers.NewSessionHandler(rotationService, domain.RoleCounselor),
		AdminSession:     handlers.NewSessionHandler(rotationService, domain.RoleAdmin),
		GoogleAuth:       identity.Middleware(googleVerifier),
		AccessAuth:       auth.NewMiddleware(codec),
		RateLimit:        rateLimitHandler,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

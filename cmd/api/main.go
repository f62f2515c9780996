package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/admin-service/internal/api/http"
	"github.com/spec-kit/admin-service/internal/api/http/handlers"
	"github.com/spec-kit/admin-service/internal/auth"
	"github.com/spec-kit/admin-service/internal/cache"
	"github.com/spec-kit/admin-service/internal/config"
	"github.com/spec-kit/admin-service/internal/events"
	"github.com/spec-kit/admin-service/internal/observability"
	"github.com/spec-kit/admin-service/internal/persistence"
	"github.com/spec-kit/admin-service/internal/ratelimit"
	"github.com/spec-kit/admin-service/internal/repository"
	"github.com/spec-kit/admin-service/internal/service"
	"github.com/spec-kit/admin-service/internal/worker"
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

	metrics := observability.NewMetrics("admin_service")
	metricsSrv := observability.ServeMetrics(cfg.Metrics, metrics, logger)

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	menuRepo := repository.NewMenuRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)

	snapshotCache := cache.NewRedisCache(redis.Client)
	loginLimiter := ratelimit.NewRedisLimiter(redis.Client, cfg.RateLimit)
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:       userRepo,
		RoleRepo:       roleRepo,
		DepartmentRepo: departmentRepo,
		Cache:          snapshotCache,
		Limiter:        loginLimiter,
		Dispatcher:     dispatcher,
		Metrics:        metrics,
		Logger:         logger,
	})
	menuService := service.NewMenuService(menuRepo, snapshotCache, metrics, logger, cfg.Cache.TTL())
	userService := service.NewUserService(userRepo, roleRepo, dispatcher, logger, cfg.Auth.BcryptCost)

	invalidationService := service.NewInvalidationService(dispatcher, snapshotCache, logger)
	worker.StartInvalidationWorker(invalidationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	authHandler := handlers.NewAuthHandler(authService, menuService, departmentRepo)
	usersHandler := handlers.NewUsersHandler(userService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Auth:           authHandler,
		Users:          usersHandler,
		AuthMiddleware: authMiddleware,
		Permissions:    authService,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(context.Background())
	}
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

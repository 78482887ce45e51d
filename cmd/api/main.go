package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/staff-auth/internal/api/http"
	"github.com/spec-kit/staff-auth/internal/api/http/handlers"
	"github.com/spec-kit/staff-auth/internal/auth"
	"github.com/spec-kit/staff-auth/internal/config"
	"github.com/spec-kit/staff-auth/internal/domain"
	"github.com/spec-kit/staff-auth/internal/events"
	"github.com/spec-kit/staff-auth/internal/observability"
	"github.com/spec-kit/staff-auth/internal/persistence"
	"github.com/spec-kit/staff-auth/internal/repository"
	"github.com/spec-kit/staff-auth/internal/service"
	"github.com/spec-kit/staff-auth/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	readiness := map[string]handlers.Pinger{}
	pool := pg.PoolHandle()

	var (
		staffRepo      repository.StaffRepository
		attemptRepo    repository.AttemptRepository
		departmentRepo repository.DepartmentRepository
	)
	if pool != nil {
		staffRepo = repository.NewStaffRepository(pool)
		attemptRepo = repository.NewAttemptRepository(pool)
		departmentRepo = repository.NewDepartmentRepository(pool)
		readiness["postgres"] = pg
	} else {
		var seed []domain.StaffRecord
		if cfg.Auth.StaffSeedFile != "" {
			if seed, err = repository.LoadStaffSeed(cfg.Auth.StaffSeedFile); err != nil {
				logger.Fatal("failed to load staff seed", zap.Error(err))
			}
		}
		if len(seed) == 0 {
			logger.Warn("in-memory staff store is empty; set STAFF_SEED_FILE or POSTGRES_DSN to allow logins")
		}
		logger.Warn("running with in-memory staff and attempt stores; data is lost on restart",
			zap.Int("staff", len(seed)))
		staffRepo = repository.NewMemoryStaffRepository(seed...)
		attemptRepo = repository.NewMemoryAttemptRepository()
		departmentRepo = repository.NewMemoryDepartmentRepository(cfg.Auth.AllowedDepartments...)
	}

	switch cfg.Auth.AttemptStore {
	case config.AttemptStoreRedis:
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
		attemptRepo = repository.NewRedisAttemptRepository(redis.Client, cfg.Redis.KeyPrefix)
		readiness["redis"] = redis
	case config.AttemptStoreMemory:
		attemptRepo = repository.NewMemoryAttemptRepository()
	}
	logger.Info("attempt store selected", zap.String("store", cfg.Auth.AttemptStore))

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger, cfg.Audit))

	metrics := observability.NewMetrics()
	authenticator := service.NewAuthenticator(*cfg, service.AuthDependencies{
		StaffRepo:   staffRepo,
		AttemptRepo: attemptRepo,
		Departments: service.NewDepartmentDirectory(cfg.Auth, departmentRepo),
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger.Named("auth"),
	})
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:             handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, readiness, metrics),
		Staff:              handlers.NewStaffHandler(authenticator, tokens, logger),
		AuthMiddleware:     auth.NewAuthMiddleware(tokens, staffRepo),
		RateLimit:          cfg.RateLimit,
		MetricsDepartments: cfg.Auth.MetricsDepartments,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

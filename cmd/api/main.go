package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/exam-compliance/internal/api/http"
	"github.com/spec-kit/exam-compliance/internal/api/http/handlers"
	"github.com/spec-kit/exam-compliance/internal/auth"
	"github.com/spec-kit/exam-compliance/internal/config"
	"github.com/spec-kit/exam-compliance/internal/events"
	"github.com/spec-kit/exam-compliance/internal/observability"
	"github.com/spec-kit/exam-compliance/internal/persistence"
	"github.com/spec-kit/exam-compliance/internal/repository"
	"github.com/spec-kit/exam-compliance/internal/service"
	"github.com/spec-kit/exam-compliance/internal/session"
	"github.com/spec-kit/exam-compliance/internal/source"
	"github.com/spec-kit/exam-compliance/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dataSource := buildSource(cfg, pg, redis, logger)

	dispatcher := events.NewInMemoryDispatcher()
	clock := service.NewClock(cfg.App.Location())

	loader := service.NewSnapshotLoader(dataSource, metrics, logger)
	roleService := service.NewRoleService(loader, logger)
	sessionService := service.NewSessionService(service.SessionDependencies{
		Store:       buildSessionStore(cfg, redis),
		Dispatcher:  dispatcher,
		Roles:       roleService,
		Invalidator: dataSource,
	}, logger)
	authService, err := service.NewAuthService(cfg.Auth, sessionService, logger)
	if err != nil {
		logger.Fatal("failed to init auth", zap.Error(err))
	}
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	worker.StartSnapshotWorker(dispatcher, loader, clock, logger)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Dashboard:      handlers.NewDashboardHandler(service.NewDashboardService(loader), clock),
		Roles:          handlers.NewRolesHandler(roleService, sessionService, clock),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func buildSource(cfg *config.Config, pg *persistence.Postgres, redis *persistence.Redis, logger *zap.Logger) *source.CachedSource {
	var base source.Source
	switch cfg.Source.Kind {
	case config.SourceKindPostgres:
		pool := pg.PoolHandle()
		if pool == nil {
			logger.Warn("SOURCE_KIND=postgres without POSTGRES_DSN; data will be unavailable")
			base = source.NewPostgresSource(nil, nil)
		} else {
			base = source.NewPostgresSource(repository.NewExamRecordRepository(pool), repository.NewRoleRequirementRepository(pool))
		}
	default:
		base = source.NewCSVSource(cfg.Source.RecordsCSVPath, cfg.Source.RolesCSVPath)
	}

	var cache source.SnapshotCache
	if redis.Enabled() {
		cache = source.NewRedisCache(redis.Client)
	} else {
		cache = source.NewMemoryCache(nil)
	}
	logger.Info("data source ready",
		zap.String("kind", cfg.Source.Kind),
		zap.Duration("cache_ttl", cfg.Source.CacheTTL()))
	return source.NewCachedSource(base, cache, cfg.Source.CacheTTL(), cfg.Source.CacheKeyPrefix, logger)
}

func buildSessionStore(cfg *config.Config, redis *persistence.Redis) session.Store {
	return session.NewStore(redis.Client, cfg.App.Name+":session", cfg.Auth.TokenTTL())
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

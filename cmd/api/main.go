package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/analify/dashboard-gateway/internal/api/http"
	"github.com/analify/dashboard-gateway/internal/api/http/handlers"
	"github.com/analify/dashboard-gateway/internal/backend"
	"github.com/analify/dashboard-gateway/internal/config"
	"github.com/analify/dashboard-gateway/internal/events"
	"github.com/analify/dashboard-gateway/internal/observability"
	"github.com/analify/dashboard-gateway/internal/persistence"
	"github.com/analify/dashboard-gateway/internal/service"
	"github.com/analify/dashboard-gateway/internal/session"
	"github.com/analify/dashboard-gateway/internal/storage"
	"github.com/analify/dashboard-gateway/internal/worker"
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

	backends := storage.Backends{}
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		backends.Postgres = pg.PoolHandle()
	case config.StorageDriverRedis:
		rdb, err := persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer rdb.Close()
		backends.Redis = rdb.Client
	}

	store, err := storage.New(cfg.Storage, backends)
	if err != nil {
		logger.Fatal("failed to open token storage", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	client := backend.NewClient(cfg.Backend, logger)

	sessions := session.NewManager(store, client,
		session.WithLogger(logger),
		session.WithDispatcher(dispatcher),
		session.WithTokenKey(cfg.Session.TokenKey),
	)

	auditService := service.NewAuditService(dispatcher, metrics, logger, cfg.Audit)
	stopAudit := worker.StartAuditWorker(auditService)
	defer stopAudit()

	go sessions.Restore(ctx)

	expiryWorker, err := worker.NewExpiryWorker(sessions, cfg.Session.ExpiryCheckSpec, logger)
	if err != nil {
		logger.Fatal("failed to schedule expiry watcher", zap.Error(err))
	}
	expiryWorker.Start(ctx)

	authService := service.NewAuthService(client, sessions, logger)
	profileService := service.NewProfileService(client, sessions, logger)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), sessions)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store, sessions, metrics),
		Auth:      handlers.NewAuthHandler(authService),
		Profile:   handlers.NewProfileHandler(profileService),
		Dashboard: handlers.NewDashboardHandler(),
		Proxy:     handlers.NewProxyHandler(client.BaseURL(), cfg.Backend.Timeout(), sessions, logger),
		Sessions:  sessions,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/complaint-service/internal/api/http"
	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/bot"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/persistence"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/internal/storage"
	"github.com/spec-kit/complaint-service/internal/triage"
	"github.com/spec-kit/complaint-service/internal/whatsapp"
	"github.com/spec-kit/complaint-service/internal/worker"
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

	if pg.PoolHandle() != nil && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var complaintRepo repository.ComplaintRepository
	var departmentRepo repository.DepartmentRepository
	if pool := pg.PoolHandle(); pool != nil {
		complaintRepo = repository.NewComplaintRepository(pool)
		departmentRepo = repository.NewDepartmentRepository(pool)
	} else {
		store := repository.NewMemoryStore()
		complaintRepo = store
		departmentRepo = store
	}

	uploads, err := storage.NewUploadStore(cfg.Upload)
	if err != nil {
		logger.Fatal("failed to init upload store", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	waClient := whatsapp.NewClient(cfg.WhatsApp, logger)

	intakeService := service.NewIntakeService(service.IntakeDependencies{
		ComplaintRepo: complaintRepo,
		Categorizer:   triage.NewRandomCategorizer(),
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	reportService := service.NewReportService(complaintRepo, departmentRepo, redis, logger)
	notificationService := service.NewNotificationService(dispatcher, waClient, logger)
	worker.StartNotificationWorker(notificationService)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	adminGate := auth.NewAdminGate(tokens, cfg.Auth.AdminPasswordHash != "")

	app := fiber.New(fiber.Config{BodyLimit: cfg.App.MaxBodyBytes})
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Complaints: handlers.NewComplaintsHandler(intakeService, complaintRepo, uploads, logger),
		Reports:    handlers.NewReportsHandler(reportService),
		Auth:       handlers.NewAuthHandler(tokens, cfg.Auth.AdminPasswordHash),
		Webhook:    bot.NewWebhookHandler(cfg.WhatsApp, intakeService, complaintRepo, waClient, redis, logger),
		AdminGate:  adminGate,
		UploadDir:  uploads.Dir(),
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

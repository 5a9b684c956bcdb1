package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/bp-tracker/internal/api/http"
	"github.com/spec-kit/bp-tracker/internal/api/http/handlers"
	"github.com/spec-kit/bp-tracker/internal/auth"
	"github.com/spec-kit/bp-tracker/internal/config"
	"github.com/spec-kit/bp-tracker/internal/events"
	"github.com/spec-kit/bp-tracker/internal/observability"
	"github.com/spec-kit/bp-tracker/internal/persistence"
	"github.com/spec-kit/bp-tracker/internal/repository"
	"github.com/spec-kit/bp-tracker/internal/service"
	"github.com/spec-kit/bp-tracker/internal/worker"
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

	pool := pg.PoolHandle()
	patientRepo := repository.NewPatientRepository(pool)
	measurementRepo := repository.NewMeasurementRepository(pool)
	reminderRepo := repository.NewReminderRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(*cfg, patientRepo)
	measurementService := service.NewMeasurementService(measurementRepo, cfg.Thresholds.CrisisThresholds(), dispatcher)
	reminderService := service.NewReminderService(reminderRepo, redis, logger)

	shareService, err := service.NewShareService(cfg.Share, patientRepo, measurementRepo, dispatcher, logger)
	if err != nil {
		logger.Fatal("failed to init share service", zap.Error(err))
	}

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notificationService.RegisterHandlers()

	worker.StartReminderWorker(ctx, reminderService, dispatcher, cfg.Reminder.PollInterval(), logger)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), patientRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Patients:       handlers.NewPatientsHandler(authService),
		Measurements:   handlers.NewMeasurementsHandler(measurementService),
		Reminders:      handlers.NewRemindersHandler(reminderService),
		Share:          handlers.NewShareHandler(shareService),
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

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

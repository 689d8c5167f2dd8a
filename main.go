package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/crime-report-service/internal/cache"
	"github.com/SAP-F-2025/crime-report-service/internal/config"
	"github.com/SAP-F-2025/crime-report-service/internal/events"
	"github.com/SAP-F-2025/crime-report-service/internal/handlers"
	"github.com/SAP-F-2025/crime-report-service/internal/metrics"
	"github.com/SAP-F-2025/crime-report-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/crime-report-service/internal/services"
	"github.com/SAP-F-2025/crime-report-service/internal/utils"
	"github.com/SAP-F-2025/crime-report-service/internal/validator"
	"github.com/SAP-F-2025/crime-report-service/internal/vision"
	"github.com/SAP-F-2025/crime-report-service/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, caching disabled", "error", err)
			redisClient = nil
		}
	}

	// Initialize repositories
	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	validator := validator.New()
	metrics.Register()

	// Event bus: kafka when brokers are configured, in-process otherwise
	bus, err := events.NewBus(cfg.Kafka, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize event bus: %v", err)
	}
	publisher := events.NewWatermillPublisher(bus.Publisher, cfg.Kafka.TopicPrefix, slogLogger)
	logger.Info("Event bus initialized", "backend", bus.Backend)

	var visionClient vision.Client
	if cfg.Gemini.APIKey != "" {
		visionClient = vision.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout)
	}

	// Initialize services
	serviceManager := services.NewServiceManager(db, repoManager.GetRepository(), slogLogger, validator,
		services.Dependencies{
			Cache:     cache.NewCacheManager(redisClient),
			Publisher: publisher,
			Vision:    visionClient,
		},
		services.ServiceManagerConfigFrom(cfg),
	)
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Report events feed the staff notification inbox
	consumer, err := events.NewConsumer(bus.Subscriber, cfg.Kafka.TopicPrefix, bus.Logger, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize event consumer: %v", err)
	}
	notifications := serviceManager.Notification()
	consumer.Handle("notify_report_created", events.ReportCreated, notifications.HandleReportEvent)
	consumer.Handle("notify_report_status_changed", events.ReportStatusChanged, notifications.HandleReportEvent)

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()
	go func() {
		if err := consumer.Run(consumerCtx); err != nil {
			logger.Error("Event consumer stopped", "error", err)
		}
	}()
	<-consumer.Running()

	if cfg.SeedDatabase {
		seeder := services.NewSeeder(repoManager.GetRepository(), serviceManager.Report(), slogLogger)
		seeded, err := seeder.Seed(context.Background())
		if err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
		logger.Info("Database seed finished", "seeded", seeded)
	}

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	handlers.NewHandlerManager(serviceManager, logger, cfg.AllowAnonymousReports).SetupRoutes(router)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment, "auth_provider", cfg.Auth.Provider)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if err := serviceManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown services", "error", err)
	}

	stopConsumer()
	if err := consumer.Close(); err != nil {
		logger.Error("Failed to close event consumer", "error", err)
	}
	if err := bus.Close(); err != nil {
		logger.Error("Failed to close event bus", "error", err)
	}

	if err := repoManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to close database", "error", err)
	}

	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited")
}

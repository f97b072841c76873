package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/govoyage/trip-sharing/internal/api/dto"
	"github.com/govoyage/trip-sharing/internal/api/handlers"
	"github.com/govoyage/trip-sharing/internal/api/routes"
	"github.com/govoyage/trip-sharing/internal/config"
	"github.com/govoyage/trip-sharing/internal/repository"
	"github.com/govoyage/trip-sharing/internal/service/auth"
	"github.com/govoyage/trip-sharing/internal/service/membership"
	"github.com/govoyage/trip-sharing/migrations"
	"github.com/govoyage/trip-sharing/pkg/cache"
	"github.com/govoyage/trip-sharing/pkg/database"
	"github.com/govoyage/trip-sharing/pkg/logger"
	"github.com/govoyage/trip-sharing/pkg/monitoring"
	"github.com/govoyage/trip-sharing/pkg/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting GoVoyage Trip-Sharing Application",
		logger.String("env", cfg.Server.Env),
		logger.String("port", cfg.Server.Port),
	)

	// Initialize New Relic
	nrApp, err := monitoring.New(monitoring.Config{
		LicenseKey: cfg.NewRelic.LicenseKey,
		AppName:    cfg.NewRelic.AppName,
		Enabled:    cfg.NewRelic.Enabled,
		LogLevel:   cfg.NewRelic.LogLevel,
	})
	if err != nil {
		appLogger.Warn("Failed to initialize New Relic", logger.Err(err))
	} else if nrApp.IsEnabled() {
		appLogger.Info("New Relic APM initialized successfully",
			logger.String("app_name", cfg.NewRelic.AppName))
	} else {
		appLogger.Info("New Relic APM disabled")
	}
	defer nrApp.Shutdown(10 * time.Second)

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cache.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
		DialTimeout: cfg.Redis.DialTimeout,
		ReadTimeout: cfg.Redis.ReadTimeout,
	})
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", logger.Err(err))
	}
	defer cache.Close(redisClient)

	appLogger.Info("Connected to Redis successfully")

	// Initialize PostgreSQL
	postgresDB, err := database.NewPostgresDB(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: cfg.Database.MaxConnections,
		MaxIdle:  cfg.Database.MaxIdleConns,
	})
	if err != nil {
		appLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
	}
	defer postgresDB.Close()

	appLogger.Info("Connected to PostgreSQL successfully")

	// Apply schema migrations
	if err := migrations.Migrate(postgresDB); err != nil {
		appLogger.Fatal("Failed to run migrations", logger.Err(err))
	}
	appLogger.Info("Database migrations applied")

	// Initialize WebSocket hub
	wsHub := websocket.NewHub(appLogger)
	go wsHub.Run()

	// Repositories
	userRepo := repository.NewUserRepository(postgresDB)
	tokenRepo := repository.NewTokenRepository(postgresDB)
	tripRepo := repository.NewTripRepository(postgresDB)
	profileRepo := repository.NewProfileRepository(postgresDB)
	reviewRepo := repository.NewReviewRepository(postgresDB)

	// Services
	var monitor *monitoring.NewRelicApp
	if nrApp.IsEnabled() {
		monitor = nrApp
	}
	authSvc := auth.NewService(userRepo, tokenRepo, redisClient, appLogger, auth.Config{
		TokenCacheTTL: cfg.Auth.TokenCacheTTL,
	})
	membershipSvc := membership.NewService(tripRepo, wsHub, monitor, appLogger)

	// Handlers
	h := handlers.NewHandlers(appLogger, wsHub, monitor, authSvc, membershipSvc,
		tripRepo, userRepo, profileRepo, reviewRepo, cfg)

	// Initialize Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	dto.RegisterFieldNameFunc()

	router := gin.Default()

	var nrApplication *newrelic.Application
	if nrApp.IsEnabled() {
		nrApplication = nrApp.Application
	}
	routes.SetupRoutes(router, h, nrApplication)

	appLogger.Info("Routes configured successfully")

	// Create HTTP server
	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info("Server starting", logger.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", logger.Err(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.Err(err))
	}

	appLogger.Info("Server stopped gracefully")
}

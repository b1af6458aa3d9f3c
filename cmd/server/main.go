package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/nichepilot/nichepilot-go/internal/api"
	"github.com/nichepilot/nichepilot-go/internal/cache"
	"github.com/nichepilot/nichepilot-go/internal/config"
	"github.com/nichepilot/nichepilot-go/internal/database"
	"github.com/nichepilot/nichepilot-go/internal/logging"
	"github.com/nichepilot/nichepilot-go/internal/providers"
	"github.com/nichepilot/nichepilot-go/internal/services"
	"github.com/nichepilot/nichepilot-go/internal/telemetry"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.Environment)

	ctx := context.Background()
	tele, err := telemetry.Init(ctx, cfg.Telemetry, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := tele.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Warn("Telemetry shutdown failed")
		}
	}()

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redis, err := database.NewRedisConnection(cfg.Redis)
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	// Keyword intelligence: pushed snapshots fronted by a Redis TTL cache.
	snapshots := providers.NewSnapshotStore()
	intel := cache.NewIntelCache(redis.Client, snapshots, cfg.IntelCacheTTL(), logger)

	engine := services.NewScoringEngine(cfg, intel, logger)
	repo := database.NewAssessmentRepository(db.Pool)
	notifier := services.NewNotificationService(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	api.SetupRoutes(router, api.Dependencies{
		Engine:    engine,
		Repo:      repo,
		Notifier:  notifier,
		Snapshots: snapshots,
		DB:        db,
		Redis:     redis,
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tracking/cmd"
	"tracking/internal/adapters/out/postgres"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	configs := cmd.LoadConfig()
	if err := configs.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := cmd.SetupLogger(configs, os.Stdout)
	slog.SetDefault(logger)

	gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if configs.DBAutoMigrate {
		if err := postgres.AutoMigrate(gormDB); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	var redisClient *redis.Client
	if configs.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     configs.RedisAddr,
			Password: configs.RedisPassword,
			DB:       configs.RedisDB,
		})
		defer redisClient.Close()
		logger.Info("Feed cache enabled", "redis", configs.RedisAddr, "ttl", configs.FeedCacheTTL)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, redisClient, logger)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs, logger)
}

func startWebServer(app *cmd.CompositionRoot, configs cmd.Config, logger *slog.Logger) {
	e, err := app.CreateRouter()
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("HTTP server listening", "port", configs.HTTPPort)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), configs.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
}

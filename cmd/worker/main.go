package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	authRepository "github.com/danisworo/shopapi/internal/domain/auth/repository"
	"github.com/danisworo/shopapi/internal/platform/config"
	"github.com/danisworo/shopapi/internal/platform/database"
	"github.com/danisworo/shopapi/internal/platform/queue"
)

func main() {
	// Setup zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	zlog.Info().Msg("Starting ShopAPI worker...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := database.InitMySQL(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	defer sqlDB.Close()

	// Initialize Redis client
	redisClient, err := queue.InitRedis(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	zlog.Info().Msg("Redis initialized successfully")

	queueService := queue.NewRedisQueue(redisClient, cfg.Queue.Name)
	authRepo := authRepository.NewAuthRepository(db)

	purgeInterval := time.Duration(cfg.Queue.PurgeIntervalMinutes) * time.Minute
	processor := NewProcessor(queueService, authRepo, purgeInterval)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	processorDone := make(chan error, 1)
	go func() {
		processorDone <- processor.Start(workerCtx)
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case <-quit:
		zlog.Info().Msg("Received shutdown signal, stopping worker...")
		cancel()

		select {
		case err := <-processorDone:
			if err != nil && err != context.Canceled {
				zlog.Error().Err(err).Msg("Worker stopped with error")
			} else {
				zlog.Info().Msg("Worker stopped gracefully")
			}
		case <-time.After(30 * time.Second):
			zlog.Warn().Msg("Worker shutdown timeout, forcing exit")
		}
	case err := <-processorDone:
		if err != nil {
			zlog.Fatal().Err(err).Msg("Worker stopped with error")
		}
	}

	zlog.Info().Msg("Worker exited")
}

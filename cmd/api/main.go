package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	authDelivery "github.com/danisworo/shopapi/internal/domain/auth/delivery"
	authRepository "github.com/danisworo/shopapi/internal/domain/auth/repository"
	authUsecase "github.com/danisworo/shopapi/internal/domain/auth/usecase"
	orderDelivery "github.com/danisworo/shopapi/internal/domain/orders/delivery"
	orderRepository "github.com/danisworo/shopapi/internal/domain/orders/repository"
	orderUsecase "github.com/danisworo/shopapi/internal/domain/orders/usecase"
	productDelivery "github.com/danisworo/shopapi/internal/domain/products/delivery"
	productRepository "github.com/danisworo/shopapi/internal/domain/products/repository"
	productUsecase "github.com/danisworo/shopapi/internal/domain/products/usecase"
	userDelivery "github.com/danisworo/shopapi/internal/domain/users/delivery"
	userRepository "github.com/danisworo/shopapi/internal/domain/users/repository"
	userUsecase "github.com/danisworo/shopapi/internal/domain/users/usecase"
	"github.com/danisworo/shopapi/internal/platform/config"
	"github.com/danisworo/shopapi/internal/platform/database"
	"github.com/danisworo/shopapi/internal/platform/queue"
	"github.com/danisworo/shopapi/internal/platform/session"
	"github.com/danisworo/shopapi/pkg/cookie"
	"github.com/danisworo/shopapi/pkg/jwt"
	"github.com/danisworo/shopapi/pkg/middleware"
	customValidator "github.com/danisworo/shopapi/pkg/validator"
)

func main() {
	// Setup zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	zlog.Info().Msg("Starting ShopAPI server...")

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

	ctx := context.Background()

	// Initialize Redis client
	redisClient, err := queue.InitRedis(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	zlog.Info().Msg("Redis initialized successfully")

	// Platform services
	queueService := queue.NewRedisQueue(redisClient, cfg.Queue.Name)
	sessionStore := session.NewStore(redisClient, time.Duration(cfg.Session.TTLDays)*24*time.Hour)
	cookieCodec := cookie.NewCodec(cfg.Cookie.Secret)
	tokenService := jwt.NewTokenService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		time.Duration(cfg.JWT.AccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWT.RefreshTTLDays)*24*time.Hour,
	)

	// Initialize Echo
	e := echo.New()
	e.Use(middleware.RequestID())
	e.HideBanner = false

	// Register validator
	e.Validator = customValidator.New()

	// Initialize repositories
	userRepo := userRepository.NewUserRepository(db)
	authRepo := authRepository.NewAuthRepository(db)
	productRepo := productRepository.NewProductRepository(db)
	orderRepo := orderRepository.NewOrderRepository(db)

	// Adapters for the order usecase
	productAdapter := orderRepository.NewProductRepositoryAdapter(productRepo)

	// Initialize use cases
	userUC := userUsecase.NewUsecase(userRepo)
	authUC := authUsecase.NewUsecase(userRepo, authRepo, tokenService, sessionStore, cookieCodec)
	productUC := productUsecase.NewUsecase(productRepo, userRepo)
	orderUC := orderUsecase.NewUsecase(orderRepo, productAdapter, queueService)

	// Initialize handlers
	userHandler := userDelivery.NewHandler(ctx, userUC)
	authHandler := authDelivery.NewHandler(ctx, authUC, cookieCodec,
		authDelivery.CookieSettings{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
		},
		authDelivery.CookieSettings{
			Name:   cfg.Cookie.Name,
			MaxAge: time.Duration(cfg.Cookie.MaxAgeDays) * 24 * time.Hour,
			Secure: cfg.Cookie.CookieSecure,
		},
	)
	productHandler := productDelivery.NewHandler(ctx, productUC)
	orderHandler := orderDelivery.NewHandler(ctx, orderUC)

	// Setup routes
	setupRoutes(e, routeDeps{
		cfg:          cfg,
		users:        userHandler,
		auth:         authHandler,
		products:     productHandler,
		orders:       orderHandler,
		tokenService: tokenService,
		sessionStore: sessionStore,
		cookieCodec:  cookieCodec,
		userSource:   userRepo,
	})

	// Start server in goroutine
	go func() {
		port := cfg.Server.Port
		if port == "" {
			port = "8080"
		}

		zlog.Info().Str("port", port).Msg("Starting HTTP server")
		if err := e.Start(":" + port); err != nil {
			zlog.Info().Err(err).Msg("Server stopped")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zlog.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	zlog.Info().Msg("Server exited successfully")
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RoamStay-Hotels/service-booking/internal/application"
	"github.com/RoamStay-Hotels/service-booking/internal/cache"
	"github.com/RoamStay-Hotels/service-booking/internal/config"
	"github.com/RoamStay-Hotels/service-booking/internal/database"
	bookingEvents "github.com/RoamStay-Hotels/service-booking/internal/events"
	"github.com/RoamStay-Hotels/service-booking/internal/handler"
	"github.com/RoamStay-Hotels/service-booking/internal/health"
	"github.com/RoamStay-Hotels/service-booking/internal/kafka"
	"github.com/RoamStay-Hotels/service-booking/internal/logger"
	"github.com/RoamStay-Hotels/service-booking/internal/metrics"
	"github.com/RoamStay-Hotels/service-booking/internal/middleware"
	"github.com/RoamStay-Hotels/service-booking/internal/repository"
	"github.com/RoamStay-Hotels/service-booking/internal/saga"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewNamed(cfg.AppEnv, "service-booking")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting service-booking",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.RoomModel{},
			&repository.PricingRuleModel{},
			&repository.AvailabilityModel{},
			&repository.BookingModel{},
		); err != nil {
			zapLogger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		zapLogger.Info("database migration completed (dev auto-migrate)")
	}

	// Register Prometheus collectors
	metrics.Register()

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, zapLogger)
	defer kafkaProducer.Close()

	// Initialize Redis-backed room catalog cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisConfig.Addr,
		Password: cfg.RedisConfig.Password,
	})
	defer redisClient.Close()

	// Initialize repositories
	roomCatalog := repository.NewRoomCatalog(db)
	cachedCatalog := cache.NewRoomCache(
		redisClient,
		roomCatalog,
		time.Duration(cfg.RedisConfig.TTLSecs)*time.Second,
		zapLogger,
	)
	ruleRepo := repository.NewPricingRuleRepository(db)
	ledgerRepo := repository.NewAvailabilityLedger(db)
	bookingRepo := repository.NewBookingRepository(db)

	// Initialize application services
	ledgerService := application.NewLedgerService(ledgerRepo, cachedCatalog, zapLogger)
	pricingService := application.NewPricingService(ruleRepo, cachedCatalog, ledgerService, zapLogger)
	sagaService := saga.NewBookingSagaService(bookingRepo, ledgerRepo, zapLogger)
	publisher := bookingEvents.NewBookingEventPublisher(kafkaProducer, zapLogger)
	bookingService := application.NewBookingService(
		bookingRepo,
		cachedCatalog,
		ledgerService,
		pricingService,
		sagaService,
		publisher,
		zapLogger,
	)

	// Initialize Kafka consumer for room-catalog events
	consumerGroupID := cfg.KafkaConfig.GroupPrefix + "booking-service"
	roomConsumer := bookingEvents.NewRoomEventConsumer(
		cfg.KafkaConfig.Brokers,
		consumerGroupID,
		ledgerService,
		zapLogger,
	)
	defer roomConsumer.Close()

	// Start Kafka consumer in a goroutine
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()

	go func() {
		zapLogger.Info("starting room event consumer")
		if err := roomConsumer.Start(consumerCtx); err != nil {
			if consumerCtx.Err() == nil {
				zapLogger.Error("room event consumer failed", zap.Error(err))
			}
		}
	}()

	// Initialize HTTP handlers
	availabilityHandler := handler.NewAvailabilityHandler(ledgerService)
	pricingHandler := handler.NewPricingHandler(pricingService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	adminHandler := handler.NewAdminHandler(bookingService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.Recovery(zapLogger))
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())

	// Register health check and metrics routes
	healthHandler := health.NewHandler(db, "service-booking")
	healthHandler.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Register API routes behind the rate limiter
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	apiV1 := router.Group("/api/v1")
	apiV1.Use(limiter.Middleware())
	availabilityHandler.RegisterRoutes(apiV1)
	pricingHandler.RegisterRoutes(apiV1)
	bookingHandler.RegisterRoutes(apiV1)
	adminHandler.RegisterRoutes(apiV1)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down service-booking...")

	// Cancel Kafka consumer
	consumerCancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("service-booking stopped")
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/teranga-tours/service-booking/internal/application"
	"github.com/teranga-tours/service-booking/internal/cache"
	"github.com/teranga-tours/service-booking/internal/config"
	"github.com/teranga-tours/service-booking/internal/database"
	bookingEvents "github.com/teranga-tours/service-booking/internal/events"
	"github.com/teranga-tours/service-booking/internal/handler"
	"github.com/teranga-tours/service-booking/internal/health"
	"github.com/teranga-tours/service-booking/internal/kafka"
	"github.com/teranga-tours/service-booking/internal/logger"
	"github.com/teranga-tours/service-booking/internal/metrics"
	"github.com/teranga-tours/service-booking/internal/middleware"
	"github.com/teranga-tours/service-booking/internal/repository"
	"github.com/teranga-tours/service-booking/internal/saga"
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
		err := db.AutoMigrate(
			&repository.CircuitModel{},
			&repository.StageModel{},
			&repository.PromotionModel{},
			&repository.BookingModel{},
			&repository.MessageModel{},
		)
		if err != nil {
			zapLogger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		zapLogger.Info("database migration completed (dev auto-migrate)")
	} else {
		dbURL := cfg.DBConfig.DatabaseURL()
		if err := database.RunMigrations(dbURL, "migrations", zapLogger); err != nil {
			zapLogger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize Redis-backed circuit detail cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisConfig.Addr,
		Password: cfg.RedisConfig.Password,
		DB:       cfg.RedisConfig.DB,
	})
	defer redisClient.Close()
	circuitCache := cache.NewCircuitDetailCache(redisClient, zapLogger)

	// Initialize Prometheus registry and service metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, zapLogger)
	defer kafkaProducer.Close()

	// Initialize repositories
	circuitRepo := repository.NewGormCircuitRepository(db)
	promotionRepo := repository.NewGormPromotionRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	messageRepo := repository.NewGormMessageRepository(db)

	// Initialize saga service
	sagaService := saga.NewBookingSagaService(bookingRepo, promotionRepo, kafkaProducer, zapLogger)

	// Initialize application services
	circuitService := application.NewCircuitService(circuitRepo, circuitCache, m, zapLogger)
	promotionService := application.NewPromotionService(promotionRepo, m, zapLogger)
	bookingService := application.NewBookingService(bookingRepo, circuitRepo, promotionService, sagaService, m, zapLogger)
	messageService := application.NewMessageService(messageRepo, zapLogger)

	// Initialize Kafka consumer for booking events
	consumerGroupID := cfg.KafkaConfig.GroupPrefix + "booking-service"
	bookingConsumer := bookingEvents.NewBookingEventConsumer(
		cfg.KafkaConfig.Brokers,
		consumerGroupID,
		bookingService,
		zapLogger,
	)
	defer bookingConsumer.Close()

	// Start Kafka consumer in a goroutine
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()

	go func() {
		zapLogger.Info("starting booking event consumer")
		if err := bookingConsumer.Start(consumerCtx); err != nil {
			if consumerCtx.Err() == nil {
				zapLogger.Error("booking event consumer failed", zap.Error(err))
			}
		}
	}()

	// Initialize HTTP handlers
	circuitHandler := handler.NewCircuitHandler(circuitService)
	promotionHandler := handler.NewPromotionHandler(promotionService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	messageHandler := handler.NewMessageHandler(messageService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.LoggerMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-booking")
	healthHandler.RegisterRoutes(router)

	// Expose Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Register API routes
	adminAuth := middleware.AdminAuth(cfg.AdminToken)
	apiV1 := router.Group("/api/v1")
	circuitHandler.RegisterRoutes(apiV1, adminAuth)
	promotionHandler.RegisterRoutes(apiV1, adminAuth)
	bookingHandler.RegisterRoutes(apiV1, adminAuth)
	messageHandler.RegisterRoutes(apiV1, adminAuth)

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

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
	"go.uber.org/zap"

	"github.com/HexHunters/Tickr-sub000/internal/di"
	"github.com/HexHunters/Tickr-sub000/pkg/config"
	"github.com/HexHunters/Tickr-sub000/pkg/database"
	"github.com/HexHunters/Tickr-sub000/pkg/kafka"
	"github.com/HexHunters/Tickr-sub000/pkg/logger"
	"github.com/HexHunters/Tickr-sub000/pkg/middleware"
	"github.com/HexHunters/Tickr-sub000/pkg/redis"
	"github.com/HexHunters/Tickr-sub000/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.App.Debug {
		logLevel = "debug"
	}
	if err := logger.Init(&logger.Config{
		Level:       logLevel,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("starting event service", zap.String("version", cfg.App.Version))

	ctx := context.Background()

	// Initialize OpenTelemetry
	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}
	if _, err := telemetry.Init(ctx, telemetryCfg); err != nil {
		appLog.Warn("failed to initialize telemetry", zap.Error(err))
	} else if telemetryCfg.Enabled {
		appLog.Info("telemetry initialized", zap.String("collector", telemetryCfg.CollectorAddr))
	}
	defer telemetry.Shutdown(ctx)

	// Initialize database connection
	dbCfg := &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxOpenConns),
		MinConns:        int32(cfg.Database.MaxIdleConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   1 * time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()
	appLog.Info("database connected",
		zap.Int32("pool_min", dbCfg.MinConns),
		zap.Int32("pool_max", dbCfg.MaxConns),
	)

	// Initialize Redis connection (optional, caching is disabled without it)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisCfg := &redis.Config{
			Host:          cfg.Redis.Host,
			Port:          cfg.Redis.Port,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.DB,
			PoolSize:      cfg.Redis.PoolSize,
			MinIdleConns:  cfg.Redis.MinIdleConns,
			DialTimeout:   cfg.Redis.DialTimeout,
			ReadTimeout:   cfg.Redis.ReadTimeout,
			WriteTimeout:  cfg.Redis.WriteTimeout,
			MaxRetries:    3,
			RetryInterval: time.Second,
		}
		redisClient, err = redis.NewClient(ctx, redisCfg)
		if err != nil {
			appLog.Warn("redis connection failed, caching disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			appLog.Info("redis connected", zap.String("addr", redisCfg.Addr()))
		}
	}

	// Initialize Kafka producer for the outbox worker
	producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:       cfg.Kafka.Brokers,
		ClientID:      cfg.Kafka.ClientID,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
	})
	if err != nil {
		appLog.Fatal("kafka connection failed", zap.Error(err))
	}
	defer producer.Close()
	appLog.Info("kafka connected", zap.Strings("brokers", cfg.Kafka.Brokers))

	// Build dependency injection container
	container := di.NewContainer(&di.ContainerConfig{
		Config:   cfg,
		DB:       db,
		Redis:    redisClient,
		Producer: producer,
	})

	// Start background workers
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	if err := container.OutboxWorker.Start(workerCtx); err != nil {
		appLog.Fatal("failed to start outbox worker", zap.Error(err))
	}
	defer container.OutboxWorker.Stop()

	if err := container.CompletionWorker.Start(workerCtx); err != nil {
		appLog.Fatal("failed to start completion worker", zap.Error(err))
	}
	defer container.CompletionWorker.Stop()

	// Setup Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(cfg.OTel.ServiceName))
	}


	// Health check endpoints
	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	// JWT middleware configuration
	jwtConfig := &middleware.JWTConfig{
		Secret: cfg.JWT.Secret,
		SkipPaths: []string{
			"/health",
			"/ready",
		},
	}

	// API routes
	v1 := router.Group("/api/v1")
	{
		events := v1.Group("/events")
		{
			// Public endpoints (no auth required)
			events.GET("", container.EventHandler.List)
			events.GET("/:id", container.EventHandler.GetByID)

			// Protected endpoints (Organizer/Admin only)
			protected := events.Group("")
			protected.Use(middleware.JWTMiddleware(jwtConfig))
			protected.Use(middleware.RequireRole("admin", "organizer"))
			{
				protected.GET("/my", container.EventHandler.ListMyEvents)
				protected.POST("", container.EventHandler.Create)
				protected.PUT("/:id", container.EventHandler.Update)
				protected.POST("/:id/publish", container.EventHandler.Publish)
				protected.POST("/:id/cancel", container.EventHandler.Cancel)
				protected.POST("/:id/ticket-types", container.EventHandler.AddTicketType)
				protected.PUT("/:id/ticket-types/:ticketTypeId", container.EventHandler.UpdateTicketType)
				protected.DELETE("/:id/ticket-types/:ticketTypeId", container.EventHandler.RemoveTicketType)
			}

			// Sale endpoints, called by the booking flow with a service token.
			// Idempotency keys protect against duplicate sale deliveries.
			sales := events.Group("")
			sales.Use(middleware.JWTMiddleware(jwtConfig))
			if redisClient != nil {
				sales.Use(middleware.IdempotencyMiddleware(
					middleware.DefaultIdempotencyConfig(redisClient.Client()),
				))
			}
			{
				sales.POST("/:id/ticket-types/:ticketTypeId/sales", container.EventHandler.RecordSale)
				sales.POST("/:id/ticket-types/:ticketTypeId/releases", container.EventHandler.ReleaseSale)
			}
		}
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	// Start server in goroutine
	go func() {
		appLog.Info("event service listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("server forced to shutdown", zap.Error(err))
	}

	// Stop workers before closing connections
	cancelWorkers()
	container.OutboxWorker.Stop()
	container.CompletionWorker.Stop()

	appLog.Info("server exited gracefully")
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-conference/internal/availability"
	"ms-conference/internal/config"
	"ms-conference/internal/database/migrations"
	"ms-conference/internal/kafka"
	"ms-conference/internal/logger"
	"ms-conference/internal/projector"
	"ms-conference/internal/projector/db"
	"ms-conference/internal/projector/projector_api"
)

func connectDatabase(cfg config.DatabaseConfig, logger *logger.Logger) *bun.DB {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		logger.LogDatabase("CONNECT", "postgresql", fmt.Sprintf("Attempting to connect (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.DSN)
		if err != nil {
			logger.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		logger.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		sqldb.Close()
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)

	logger.LogDatabase("SUCCESS", "postgresql", "✅ PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New())
}

func connectRedis(ctx context.Context, cfg config.RedisConfig, logger *logger.Logger) *redis.Client {
	if cfg.Addr == "" {
		logger.Warn("REDIS", "REDIS_ADDR not set, availability cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatal("REDIS", fmt.Sprintf("Redis connection error: %v", err))
	}
	logger.Info("REDIS", fmt.Sprintf("✅ Redis connection successful to %s", cfg.Addr))
	return client
}

func main() {
	logger := logger.NewLogger("conference-projector")
	defer logger.Close()

	logger.Info("APP", "Starting conference read-model projector")

	if err := godotenv.Load(); err != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		logger.Info("CONFIG", "Loaded environment variables from .env file")
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		runner := migrations.NewRunner(migrations.MigrateOptions{
			MigrationsDir: cfg.Database.MigrationsDir,
			DatabaseURL:   cfg.Database.DSN,
		}, logger)
		if err := runner.MigrateUp(); err != nil {
			logger.Fatal("DATABASE", fmt.Sprintf("Migrations failed: %v", err))
		}
		if err := runner.Close(); err != nil {
			logger.Warn("DATABASE", fmt.Sprintf("Closing migrator: %v", err))
		}
	}

	bunDB := connectDatabase(cfg.Database, logger)
	defer bunDB.Close()
	store := &db.DB{Bun: bunDB}

	var cache projector.AvailabilityCache
	var cacheReader projector_api.AvailabilityReader
	if redisClient := connectRedis(ctx, cfg.Redis, logger); redisClient != nil {
		defer redisClient.Close()
		redisCache := availability.NewRedis(redisClient)
		cache, cacheReader = redisCache, redisCache
	}

	dispatcher := projector.NewDispatcher(store, cache, logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(projector_api.RequestLogger(logger))
	handler := &projector_api.Handler{ReadModel: store, Availability: cacheReader, DB: bunDB}
	handler.RegisterRoutes(r)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP", fmt.Sprintf("🚀 Projector ops API running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	if cfg.Kafka.Enabled {
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, []string{cfg.Kafka.Topic}, 3, logger); err != nil {
			logger.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		}

		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, kafka.RetryPolicy{
			InitialInterval: cfg.Projector.RetryInitialInterval,
			MaxInterval:     cfg.Projector.RetryMaxInterval,
		}, logger)
		defer consumer.Close()

		go func() {
			logger.LogKafka("SUBSCRIBE", cfg.Kafka.Topic, fmt.Sprintf("consumer group %s", cfg.Kafka.GroupID))
			if err := consumer.Start(ctx, dispatcher.Dispatch); err != nil {
				logger.Error("KAFKA", fmt.Sprintf("Consumer stopped: %v", err))
				stop()
			}
		}()
	} else {
		logger.Warn("KAFKA", "KAFKA_ENABLED=false, no events will be projected")
	}

	logger.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-ctx.Done()

	logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		logger.Info("HTTP", "✅ Projector shutdown complete")
	}
}

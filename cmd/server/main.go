// Package main is the entry point for the stocklens API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stocklens/internal/core/dialect"
	"stocklens/internal/domain/analytics"
	v1 "stocklens/internal/infrastructure/http/v1"
	"stocklens/internal/infrastructure/http/v1/handlers"
	"stocklens/internal/infrastructure/storage/postgres"
	"stocklens/internal/infrastructure/storage/postgres/analytics_repo"
	"stocklens/internal/infrastructure/storage/sqlite"
	"stocklens/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting stocklens server")

	// The storage dialect is resolved once at startup; an unknown value is a
	// deployment error and must fail fast, not fall back silently.
	d, err := dialect.Parse(os.Getenv("STORAGE_DIALECT"))
	if err != nil {
		log.Fatalw("invalid STORAGE_DIALECT", "error", err)
	}

	var (
		repo    analytics.Repository
		storage handlers.Pinger
		cleanup func()
	)

	switch d {
	case dialect.SQLite:
		store, err := sqlite.Open(getEnv("SQLITE_PATH", "stocklens.db"))
		if err != nil {
			log.Fatalw("failed to open sqlite database", "error", err)
		}
		repo = sqlite.NewAnalyticsRepo(store)
		storage = store
		cleanup = func() { store.Close() }
		log.Infow("storage initialized", "dialect", d)

	case dialect.Postgres:
		poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
		if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
			poolCfg.MaxConns = int32(maxConns)
		}

		pool, err := postgres.NewPool(ctx, poolCfg)
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		if err := pool.Ping(ctx); err != nil {
			log.Fatalw("failed to ping database", "error", err)
		}
		repo = analytics_repo.New(pool)
		storage = pool
		cleanup = func() { pool.Close() }
		log.Infow("storage initialized", "dialect", d, "max_conns", poolCfg.MaxConns)
	}
	defer cleanup()

	analyticsService := analytics.NewService(repo)

	router := v1.NewRouter(v1.RouterConfig{
		Analytics: analyticsService,
		Storage:   storage,
		Dialect:   d,
		Logger:    log,
	})

	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port, "dialect", d)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

// Package main is the entry point for the alcosklad API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"alcosklad/internal/cache"
	v1 "alcosklad/internal/infrastructure/http/v1"
	"alcosklad/internal/recordstore"
	"alcosklad/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting alcosklad server")

	// --- Record store connection ---
	client := recordstore.New(recordstore.Config{
		BaseURL:  mustEnv("POCKETBASE_URL"),
		Identity: getEnv("POCKETBASE_IDENTITY", ""),
		Password: getEnv("POCKETBASE_PASSWORD", ""),
		Timeout:  getEnvDuration("POCKETBASE_TIMEOUT", 15*time.Second),
	})
	if err := client.Health(ctx); err != nil {
		log.Warnw("record store not reachable at startup", "error", err)
	} else {
		log.Info("record store connection established")
	}

	// --- Cache (optional Redis durable layer) ---
	var (
		rdb     *redis.Client
		durable cache.Durable
	)
	if addr := getEnv("REDIS_ADDR", ""); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warnw("redis not reachable, cache runs memory-only", "error", err)
		} else {
			durable = cache.NewRedisStore(rdb)
			log.Infow("durable cache layer enabled", "addr", addr)
		}
	}
	sharedCache := cache.New(durable)

	// --- Report timezone ---
	loc, err := time.LoadLocation(getEnv("APP_TIMEZONE", "Europe/Moscow"))
	if err != nil {
		log.Warnw("invalid APP_TIMEZONE, falling back to local", "error", err)
		loc = time.Local
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Client:   client,
		Cache:    sharedCache,
		Logger:   log,
		Redis:    rdb,
		Location: loc,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}
	if rdb != nil {
		_ = rdb.Close()
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

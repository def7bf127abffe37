package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/stockware/stockroom/gateway/config"
	"github.com/stockware/stockroom/gateway/middleware"
	"github.com/stockware/stockroom/gateway/routes"
	"github.com/stockware/stockroom/pkg/logger"
)

func main() {
	logger.Init("stockroom-gateway", os.Getenv("ENVIRONMENT") != "production")

	cfg := config.Load()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("addr", cfg.RedisAddr).
			Msg("Redis unavailable, caching and rate limiting degraded")
	}
	cancel()

	app := fiber.New(fiber.Config{
		AppName:      "stockroom-gateway",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.LoggingMiddleware())

	routes.Setup(app, cfg, redisClient)

	go func() {
		logger.Logger.Info().
			Str("port", cfg.Port).
			Str("backend", cfg.StockroomURL).
			Msg("Gateway started")
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start gateway")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down gateway...")
	if err := app.Shutdown(); err != nil {
		logger.Logger.Error().Err(err).Msg("Gateway shutdown error")
	}
	_ = redisClient.Close()
}

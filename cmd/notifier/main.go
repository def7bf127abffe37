package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stockware/stockroom/gateway/middleware"
	"github.com/stockware/stockroom/kafka"
	"github.com/stockware/stockroom/pkg/logger"
	"github.com/stockware/stockroom/pkg/tracing"
)

// The notifier keeps the gateway cache honest. It consumes change
// events from Kafka and drops the cached responses of every aggregate
// the event names.
func main() {
	logger.Init("stockroom-notifier", os.Getenv("ENVIRONMENT") != "production")

	tp, err := tracing.InitTracer("stockroom-notifier")
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Tracing disabled")
	} else {
		defer tracing.Shutdown(context.Background(), tp)
	}

	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Logger.Fatal().
			Err(err).
			Str("addr", redisAddr).
			Msg("Redis unavailable")
	}
	cancel()

	brokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	consumer, err := kafka.NewConsumer(
		brokers,
		getEnv("KAFKA_GROUP_ID", "stockroom-notifier"),
		[]string{kafka.TopicAggregatesChanged},
	)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}
	defer consumer.Close()

	consumer.RegisterHandler(kafka.EventTypeAggregatesChanged, func(ctx context.Context, event kafka.AggregatesChangedEvent) error {
		for _, aggregate := range event.Aggregates {
			if err := middleware.InvalidateResource(ctx, redisClient, aggregate); err != nil {
				return err
			}
		}
		return nil
	})

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start Kafka consumer")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down notifier...")
	stop()
	_ = redisClient.Close()
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

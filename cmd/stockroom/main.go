package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/stockware/stockroom/docs"
	"github.com/stockware/stockroom/internal/app"
	"github.com/stockware/stockroom/internal/httpserver"
	ledgerhttp "github.com/stockware/stockroom/internal/ledger/delivery/http"
	"github.com/stockware/stockroom/internal/settings"
	"github.com/stockware/stockroom/kafka"
	"github.com/stockware/stockroom/pkg/database"
	"github.com/stockware/stockroom/pkg/logger"
	"github.com/stockware/stockroom/pkg/tracing"
)

func main() {
	serviceName := getEnv("OTEL_SERVICE_NAME", "stockroom-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Msg("Starting stockroom service")

	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Tracing disabled")
	} else {
		defer tracing.Shutdown(context.Background(), tp)
	}

	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "stockroom"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	if err := app.Migrate(db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	settingsDB, err := database.NewPostgresConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to open settings connection")
	}
	defer settingsDB.Close()

	settingsStore := settings.NewStore(settingsDB)
	if err := settingsStore.Migrate(context.Background()); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to migrate settings table")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	var publisher *kafka.Publisher
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		publisher, err = kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka unavailable, change events disabled")
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	application, err := app.InitializeApp(db, settingsDB, publisher)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize application")
	}

	router := mux.NewRouter()
	httpserver.RegisterMiddlewares(router, httpserver.DefaultMiddlewareConfig(serviceName))

	router.Handle("/metrics", promhttp.Handler())
	application.Stock.RegisterHealthCheck(router, sqlDB)
	ledgerhttp.RegisterSwaggerDocs(router, httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	apiRouter := router.NewRoute().Subrouter()
	if getEnv("AUTH_ENABLED", "false") == "true" {
		apiRouter.Use(httpserver.AuthMiddleware)
	}
	application.RegisterRoutes(apiRouter)

	corsHandler := httpserver.SetupCORS(httpserver.DefaultMiddlewareConfig(serviceName))

	httpPort := getEnv("HTTP_PORT", "8080")
	logger.Logger.Info().
		Str("port", httpPort).
		Str("metrics_endpoint", "/metrics").
		Str("swagger_endpoint", "/swagger/").
		Msg("HTTP server started")

	go func() {
		if err := http.ListenAndServe(":"+httpPort, corsHandler(router)); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

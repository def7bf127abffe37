package config

import (
	"os"
	"strconv"
	"time"
)

// GatewayConfig holds gateway configuration
type GatewayConfig struct {
	Port          string
	StockroomURL  string
	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration
	RateLimit     int
	RateWindow    time.Duration
}

// Load reads gateway configuration from the environment
func Load() *GatewayConfig {
	return &GatewayConfig{
		Port:          getEnv("GATEWAY_PORT", "8000"),
		StockroomURL:  getEnv("STOCKROOM_SERVICE_URL", "http://localhost:8080"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		CacheTTL:      getDuration("CACHE_TTL", 5*time.Minute),
		RateLimit:     getInt("RATE_LIMIT", 100),
		RateWindow:    getDuration("RATE_WINDOW", time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/stockware/stockroom/pkg/logger"
)

// LoggingMiddleware logs every gateway request
func LoggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		logger.Logger.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Msg("Gateway request")

		return err
	}
}

package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/stockware/stockroom/gateway/config"
	"github.com/stockware/stockroom/gateway/middleware"
	"github.com/stockware/stockroom/gateway/proxy"
)

// Setup registers all gateway routes. Reads pass through the response
// cache; writes require a valid token.
func Setup(app *fiber.App, cfg *config.GatewayConfig, redisClient *redis.Client) {
	backend := proxy.NewReverseProxy(cfg.StockroomURL)

	limiter := middleware.NewRateLimiter(redisClient, cfg.RateLimit, cfg.RateWindow)
	cache := middleware.CacheMiddleware(redisClient, middleware.DefaultCacheConfig(cfg.CacheTTL))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api",
		middleware.OptionalAuthMiddleware(),
		limiter.Middleware(),
	)

	api.Get("/*", cache, backend.ProxyRequest)

	writes := app.Group("/api", middleware.AuthMiddleware())
	writes.Post("/*", backend.ProxyRequest)
	writes.Put("/*", backend.ProxyRequest)
	writes.Patch("/*", backend.ProxyRequest)
	writes.Delete("/*", backend.ProxyRequest)
}

package proxy

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/stockware/stockroom/pkg/logger"
)

// ReverseProxy forwards requests to the backend service
type ReverseProxy struct {
	backendURL string
	client     *http.Client
}

// NewReverseProxy creates a new reverse proxy
func NewReverseProxy(backendURL string) *ReverseProxy {
	return &ReverseProxy{
		backendURL: strings.TrimRight(backendURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ProxyRequest forwards the request to the backend
func (p *ReverseProxy) ProxyRequest(c *fiber.Ctx) error {
	targetURL := p.backendURL + c.OriginalURL()

	req, err := http.NewRequestWithContext(
		c.UserContext(),
		c.Method(),
		targetURL,
		bytes.NewReader(c.Body()),
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create request",
		})
	}

	c.Request().Header.VisitAll(func(key, value []byte) {
		name := string(key)
		if name == "Host" || name == "Connection" {
			return
		}
		req.Header.Add(name, string(value))
	})
	req.Header.Set("X-Forwarded-For", c.IP())

	resp, err := p.client.Do(req)
	if err != nil {
		logger.Logger.Error().
			Err(err).
			Str("target", targetURL).
			Msg("Backend unreachable")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to reach backend service",
		})
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		for _, value := range values {
			c.Set(key, value)
		}
	}
	c.Status(resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to read backend response",
		})
	}
	return c.Send(body)
}

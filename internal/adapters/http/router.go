package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/survivetrack/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 60 requests per minute per IP. Every chat may hit the LLM.
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return errTooManyRequests(c, "too many requests, please try again later")
		},
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/metrics" || c.Path() == "/v1/health"
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "SAMEORIGIN")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Chat console
	app.Get("/", ConsoleHandler(deps))

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1. Handlers that call ARIA get the model timeout plus slack.
	aria := deps.requestTimeout()
	v1 := app.Group("/v1")
	v1.Get("/zones", ListZonesHandler(deps))
	v1.Get("/zones/:key", GetZoneHandler(deps))
	v1.Get("/zones/:key/map", ZoneMapHandler(deps))
	v1.Post("/zones/:key/brief", timeout.NewWithContext(ZoneBriefHandler(deps), aria))
	v1.Get("/map/overview", OverviewMapHandler(deps))
	v1.Get("/resources/markers", ResourceMarkersHandler(deps))
	v1.Post("/resources/scan", timeout.NewWithContext(ResourceScanHandler(deps), aria))
	v1.Post("/chat", timeout.NewWithContext(ChatHandler(deps), aria))
	v1.Post("/sos", timeout.NewWithContext(SOSHandler(deps), aria))
	v1.Get("/aid", timeout.NewWithContext(AidHandler(deps), aria))
	v1.Get("/aria/status", ARIAStatusHandler(deps))
	v1.Get("/aria/history", ARIAHistoryHandler(deps))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps)))
}

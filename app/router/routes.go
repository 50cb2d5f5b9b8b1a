// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/affiliatesimran0007/push-notification-app-sub001/app/dto"
	"github.com/affiliatesimran0007/push-notification-app-sub001/app/handlers"
	"github.com/affiliatesimran0007/push-notification-app-sub001/app/middleware"
	"github.com/affiliatesimran0007/push-notification-app-sub001/config"
	"github.com/affiliatesimran0007/push-notification-app-sub001/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app *fiber.App
	cfg *config.ProductionConfig

	campaignHandler   handlers.CampaignHandlerInterface
	subscriberHandler handlers.SubscriberHandlerInterface
	trackingHandler   handlers.TrackingHandlerInterface
	streamHandler     handlers.StreamHandlerInterface
	landingHandler    handlers.LandingPageHandlerInterface
	templateHandler   handlers.TemplateHandlerInterface
	authAdminHandler  handlers.AuthAdminHandlerInterface
	schedulerHandler  handlers.SchedulerHandlerInterface
	authMiddleware    *middleware.AuthMiddleware
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	cfg *config.ProductionConfig,
	campaignHandler handlers.CampaignHandlerInterface,
	subscriberHandler handlers.SubscriberHandlerInterface,
	trackingHandler handlers.TrackingHandlerInterface,
	streamHandler handlers.StreamHandlerInterface,
	landingHandler handlers.LandingPageHandlerInterface,
	templateHandler handlers.TemplateHandlerInterface,
	authAdminHandler handlers.AuthAdminHandlerInterface,
	schedulerHandler handlers.SchedulerHandlerInterface,
	authMiddleware *middleware.AuthMiddleware,
) Router {
	app := fiber.New(fiber.Config{
		AppName:      "Push Notification Admin API",
		ServerHeader: "push-notification-app",
		ErrorHandler: errorHandler,
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:               app,
		cfg:               cfg,
		campaignHandler:   campaignHandler,
		subscriberHandler: subscriberHandler,
		trackingHandler:   trackingHandler,
		streamHandler:     streamHandler,
		landingHandler:    landingHandler,
		templateHandler:   templateHandler,
		authAdminHandler:  authAdminHandler,
		schedulerHandler:  schedulerHandler,
		authMiddleware:    authMiddleware,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	r.setupMiddleware()

	// Prometheus exposition, outside the API group and its rate limits
	if r.cfg.Metrics.Enabled {
		r.app.Get(r.cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	// General rate limiting for all API routes
	api.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.GlobalRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	// Browser-facing endpoints: subscription handshake and tracking
	// callbacks arrive in bursts when a campaign lands, so they carry
	// their own generous limit
	browser := api.Group("")
	browser.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.TrackingRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
	}))
	browser.Post("/subscribers", r.subscriberHandler.RegisterSubscriber)
	browser.Post("/track", r.trackingHandler.TrackEvent)

	// Admin auth with stricter rate limiting
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.AuthRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
	}))
	auth.Post("/login", r.authAdminHandler.Login)

	// External cron trigger, guarded by its own shared secret
	api.Post("/scheduler/run", r.schedulerHandler.Trigger)

	// Admin endpoints behind JWT auth
	admin := api.Group("", r.authMiddleware.AdminAuthenticate())

	admin.Post("/campaigns", r.campaignHandler.CreateCampaign)
	admin.Get("/campaigns", r.campaignHandler.ListCampaigns)
	admin.Post("/campaigns/estimate-audience", r.campaignHandler.EstimateAudience)
	admin.Get("/campaigns/:uuid", r.campaignHandler.GetCampaign)
	admin.Put("/campaigns/:uuid", r.campaignHandler.UpdateCampaign)
	admin.Delete("/campaigns/:uuid", r.campaignHandler.DeleteCampaign)
	admin.Post("/campaigns/:uuid/send", r.campaignHandler.SendCampaign)
	admin.Get("/campaigns/:uuid/stats", r.campaignHandler.GetCampaignStats)

	admin.Get("/subscribers", r.subscriberHandler.ListSubscribers)
	admin.Get("/subscribers/browsers", r.subscriberHandler.ListBrowsers)
	admin.Get("/subscribers/:id", r.subscriberHandler.GetSubscriber)
	admin.Patch("/subscribers/:id/status", r.subscriberHandler.UpdateSubscriberStatus)
	admin.Delete("/subscribers/:id", r.subscriberHandler.DeleteSubscriber)

	admin.Post("/landing-pages", r.landingHandler.CreateLandingPage)
	admin.Get("/landing-pages", r.landingHandler.ListLandingPages)
	admin.Get("/landing-pages/:id", r.landingHandler.GetLandingPage)
	admin.Put("/landing-pages/:id", r.landingHandler.UpdateLandingPage)
	admin.Delete("/landing-pages/:id", r.landingHandler.DeleteLandingPage)

	admin.Post("/templates", r.templateHandler.CreateTemplate)
	admin.Get("/templates", r.templateHandler.ListTemplates)
	admin.Get("/templates/:id", r.templateHandler.GetTemplate)
	admin.Put("/templates/:id", r.templateHandler.UpdateTemplate)
	admin.Delete("/templates/:id", r.templateHandler.DeleteTemplate)

	admin.Get("/events/stream", r.streamHandler.StreamEvents)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000, // 1 year
		HSTSExcludeSubdomains: false,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		XDNSPrefetchControl:   "off",
		XDownloadOptions:      "noopen",
		XPermittedCrossDomain: "none",
	}))

	// CORS middleware. The handshake and tracking endpoints are called from
	// arbitrary subscriber origins, so the allowlist comes from config.
	r.app.Use(cors.New(cors.Config{
		AllowOrigins:     r.cfg.Security.AllowedOrigins,
		AllowMethods:     r.cfg.Security.AllowedMethods,
		AllowHeaders:     r.cfg.Security.AllowedHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: r.cfg.Security.AllowCredentials,
		MaxAge:           r.cfg.Security.CORSMaxAge,
	}))

	// Compression middleware for performance
	if r.cfg.Server.EnableCompression {
		r.app.Use(compress.New(compress.Config{
			Level: compress.LevelBestSpeed,
			Next: func(c fiber.Ctx) bool {
				// SSE responses must not be buffered by compression
				return c.Path() == "/api/v1/events/stream"
			},
		}))
	}

	// Structured access logging
	if r.cfg.Logging.EnableAccessLog {
		r.app.Use(logger.New(logger.Config{
			Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
			TimeFormat: time.RFC3339,
			TimeZone:   "UTC",
			Next: func(c fiber.Ctx) bool {
				return c.Path() == "/api/v1/health"
			},
		}))
	}

	// Prometheus HTTP metrics
	if r.cfg.Server.EnableMetrics {
		r.app.Use(middleware.Metrics())
	}

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   "1.0.0",
			"service":   "push-notification-app",
		},
	})
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// rateLimitReached is the shared limiter rejection response
func rateLimitReached(c fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
		Success: false,
		Message: "Too many requests. Please try again later.",
		Error: dto.ErrorDetail{
			Code: "RATE_LIMIT_EXCEEDED",
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error %d: %v", code, err)

	requestID := c.Locals("requestid")

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

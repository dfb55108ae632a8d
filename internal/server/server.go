// Package server assembles the Fiber application: middleware, health and
// metrics endpoints and the /api routes.
package server

import (
	"context"
	"errors"
	"io"
	"time"

	"personashop/internal/handlers"
	"personashop/internal/middleware"
	"personashop/internal/services"
	"personashop/internal/telemetry"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	DB      *gorm.DB
	Storage fiber.Storage
	Metrics *telemetry.Metrics
	Logger  *zap.Logger

	// AccessLog receives one line per request; nil disables it.
	AccessLog io.Writer

	AuthService    *services.AuthService
	ProductService *services.ProductService
	StyleService   *services.StyleService
	CartService    *services.CartService
	OrderService   *services.OrderService

	LoginRateLimit  int
	LoginRateWindow time.Duration
}

type pinger interface {
	Ping(ctx context.Context) error
}

// New builds the application.
func New(deps Deps) *fiber.App {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:      "personashop",
		ErrorHandler: errorHandler(log),
	})

	app.Use(recover.New())
	if deps.AccessLog != nil {
		app.Use(logger.New(logger.Config{Output: deps.AccessLog}))
	}
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		app.Get("/metrics", deps.Metrics.Handler())
	}

	app.Get("/health", healthHandler(deps))

	validate := validator.New()
	auth := middleware.AuthRequired(deps.AuthService, log)
	admin := middleware.AdminRequired(log)
	throttle := limiter.New(limiter.Config{
		Max:        deps.LoginRateLimit,
		Expiration: deps.LoginRateWindow,
		Storage:    deps.Storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "ratelimit:" + c.Path() + ":" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many attempts, try again later",
				"error":   "rate limit exceeded",
			})
		},
	})

	api := app.Group("/api")
	handlers.NewAuthHandler(deps.AuthService, validate, log).RegisterRoutes(api, throttle, auth)
	handlers.NewProductHandler(deps.ProductService, validate, log).RegisterRoutes(api, auth, admin)
	handlers.NewStyleHandler(deps.StyleService, log).RegisterRoutes(api, auth)
	handlers.NewCartHandler(deps.CartService, validate, log).RegisterRoutes(api, auth)
	handlers.NewOrderHandler(deps.OrderService, log).RegisterRoutes(api, auth)

	return app
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{
			"message": message,
			"error":   message,
		})
	}
}

func healthHandler(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		status := fiber.StatusOK
		body := fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		}

		if deps.DB != nil {
			body["database"] = "connected"
			sqlDB, err := deps.DB.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				body["database"] = "unavailable"
				body["status"] = "degraded"
				status = fiber.StatusServiceUnavailable
			}
		}

		if p, ok := deps.Storage.(pinger); ok {
			body["storage"] = "connected"
			if err := p.Ping(ctx); err != nil {
				body["storage"] = "unavailable"
				body["status"] = "degraded"
				status = fiber.StatusServiceUnavailable
			}
		} else if deps.Storage != nil {
			body["storage"] = "memory"
		}

		return c.Status(status).JSON(body)
	}
}

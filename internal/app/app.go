// Package app assembles the Fiber application from configuration and
// already-opened dependencies.
package app

import (
	"context"
	"errors"
	"io"
	"os"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/services"
	"storefront/pkg/logger"
	"storefront/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// Dependencies are the collaborators New wires into the handlers. Store may be
// nil when the database could not be opened; data routes then answer 503.
// Gateway and Publisher may be nil to disable payments and events.
type Dependencies struct {
	Store     *database.Store
	Gateway   services.PaymentGateway
	Publisher services.EventPublisher
	Metrics   *metrics.Metrics
	Logger    *logger.Logger
	// AccessLog receives one line per request. Nil disables the access log.
	AccessLog io.Writer
}

// New builds the application with every route registered.
func New(cfg *config.Config, deps Dependencies) *fiber.App {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	app := fiber.New(fiber.Config{
		AppName:      "storefront",
		BodyLimit:    cfg.BodyLimit(),
		ErrorHandler: errorHandler(log),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(middleware.RequestLogger(log))
	if deps.AccessLog != nil {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
			Output: deps.AccessLog,
		}))
	}
	app.Use(cors.New())
	app.Use(middleware.Metrics(deps.Metrics))

	if cfg.StaticDir != "" {
		if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
			app.Static("/", cfg.StaticDir)
		}
	}

	var pinger handlers.Pinger
	if deps.Store != nil {
		pinger = deps.Store
	}
	handlers.NewHealthHandler(pinger).RegisterRoutes(app)
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	paymentService := services.NewPaymentService(deps.Gateway, cfg.StripePublicKey, cfg.PaymentCurrency, log)
	handlers.NewPaymentHandler(paymentService, deps.Metrics, log).RegisterRoutes(app)

	store := deps.Store
	if store == nil {
		log.Warn(context.Background(), "database unavailable, data routes will answer 503", nil)
		store = &database.Store{}
	}
	data := app.Group("", middleware.DatabaseRequired(func() bool { return deps.Store != nil }))

	authService := services.NewAuthService(store.Users, log)
	orderService := services.NewOrderService(store.Orders, store.Products, deps.Publisher, services.PricingMode(cfg.OrderPricing), log)
	productService := services.NewProductService(store.Products)
	contactService := services.NewContactService(store.Contacts, deps.Publisher, log)

	handlers.NewAuthHandler(authService, deps.Metrics, log).RegisterRoutes(data)
	handlers.NewUserHandler(authService, log).RegisterRoutes(data)
	handlers.NewOrderHandler(orderService, deps.Metrics, log).RegisterRoutes(data)
	handlers.NewProductHandler(productService, log).RegisterRoutes(data)
	handlers.NewContactHandler(contactService, log).RegisterRoutes(data)

	return app
}

func errorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
			message = fe.Message
		} else {
			log.Error(c.UserContext(), "unhandled error", err)
		}
		return c.Status(status).JSON(fiber.Map{
			"message": message,
			"alert":   false,
		})
	}
}

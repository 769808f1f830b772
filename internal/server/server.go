// Package server wires repositories, services and handlers into a fiber app.
package server

import (
	"strings"
	"time"

	"salesnexus/internal/handler"
	"salesnexus/internal/middleware"
	"salesnexus/internal/repository"
	"salesnexus/internal/service"
	"salesnexus/internal/ws"
	"salesnexus/pkg/config"
	"salesnexus/pkg/metrics"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Options struct {
	Config  *config.Config
	DB      *gorm.DB
	Logger  *zap.Logger
	Hub     *ws.Hub
	Metrics *metrics.Metrics
	Clock   func() time.Time // dashboard clock, nil for wall time
}

func New(opts Options) *fiber.App {
	cfg, db, log := opts.Config, opts.DB, opts.Logger

	// Dependency Injection (Wiring Layers)
	customerRepo := repository.NewCustomerRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	productRepo := repository.NewProductRepo(db)
	invoiceRepo := repository.NewInvoiceRepo(db)
	dashRepo := repository.NewDashboardRepo(db)

	var events service.EventPublisher
	if opts.Hub != nil {
		events = opts.Hub
	}

	ledger := service.NewStockLedger(productRepo, opts.Metrics, log)
	invoiceService := service.NewInvoiceService(db, invoiceRepo, customerRepo, productRepo, ledger, events, cfg.Sales, opts.Metrics, log)
	customerService := service.NewCustomerService(customerRepo, log)
	supplierService := service.NewSupplierService(supplierRepo, log)
	productService := service.NewProductService(productRepo, supplierRepo, cfg.Sales, events, log)
	dashService := service.NewDashboardService(dashRepo, cfg.Sales, opts.Clock)

	app := fiber.New(fiber.Config{
		AppName:      cfg.Server.AppName,
		ErrorHandler: handler.ErrorHandler(log),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	if opts.Metrics != nil {
		app.Use(opts.Metrics.Middleware())
	}
	app.Use(middleware.RequestLogger(log.Named("http")))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.ReplaceAll(cfg.Server.CORSOrigins, " ", ""),
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "message": "API is running"})
	})
	if opts.Metrics != nil {
		app.Get("/metrics", opts.Metrics.Handler())
	}

	// Routes
	api := app.Group("/api")
	handler.NewCustomerHandler(customerService, invoiceService).Register(api.Group("/customers"))
	handler.NewSupplierHandler(supplierService).Register(api.Group("/suppliers"))
	handler.NewProductHandler(productService).Register(api.Group("/products"))
	handler.NewInvoiceHandler(invoiceService).Register(api.Group("/invoices"))
	handler.NewDashboardHandler(dashService).Register(api.Group("/dashboard"))

	// WebSocket Route
	if opts.Hub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return c.SendStatus(fiber.StatusUpgradeRequired)
		})
		app.Get("/ws", websocket.New(opts.Hub.Serve))
	}

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Resource not found")
	})
	return app
}

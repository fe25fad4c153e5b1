package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"freee-deals/internal/config"
	"freee-deals/internal/delivery/http/handler"
)

type Router struct {
	app             *fiber.App
	config          *config.Config
	healthHandler   *handler.HealthHandler
	oauthHandler    *handler.OAuthHandler
	catalogHandler  *handler.CatalogHandler
	dealHandler     *handler.DealHandler
	templateHandler *handler.TemplateHandler
	logHandler      *handler.LogHandler
}

func NewRouter(
	cfg *config.Config,
	healthHandler *handler.HealthHandler,
	oauthHandler *handler.OAuthHandler,
	catalogHandler *handler.CatalogHandler,
	dealHandler *handler.DealHandler,
	templateHandler *handler.TemplateHandler,
	logHandler *handler.LogHandler,
) *Router {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: customErrorHandler,
	})

	return &Router{
		app:             app,
		config:          cfg,
		healthHandler:   healthHandler,
		oauthHandler:    oauthHandler,
		catalogHandler:  catalogHandler,
		dealHandler:     dealHandler,
		templateHandler: templateHandler,
		logHandler:      logHandler,
	}
}

func (r *Router) Setup() *fiber.App {
	// Middleware
	r.app.Use(recover.New())
	r.app.Use(requestid.New())
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	if r.config.IsDevelopment() {
		r.app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}

	// Health check route
	r.app.Get("/health", r.healthHandler.Health)

	// API v1 routes
	api := r.app.Group("/api/v1")
	{
		// OAuth routes, reachable without a token
		oauth := api.Group("/oauth")
		{
			oauth.Get("/authorize", r.oauthHandler.Authorize)
			oauth.Post("/exchange", r.oauthHandler.Exchange)
			oauth.Get("/status", r.oauthHandler.Status)
			oauth.Post("/refresh", r.oauthHandler.Refresh)
		}

		requireToken := r.oauthHandler.RequireToken

		// Master data routes
		companies := api.Group("/companies", requireToken)
		{
			companies.Get("", r.catalogHandler.ListCompanies)
			companies.Get("/:id/account_items", r.catalogHandler.ListAccountItems)
			companies.Get("/:id/tax_codes", r.catalogHandler.ListTaxCodes)
			companies.Get("/:id/walletables", r.catalogHandler.ListWalletables)
			companies.Get("/:id/items", r.catalogHandler.ListItems)
		}

		// Deal routes
		api.Post("/deals", requireToken, r.dealHandler.CreateDeal)

		// Template routes
		templates := api.Group("/templates", requireToken)
		{
			templates.Get("", r.templateHandler.ListTemplates)
			templates.Post("", r.templateHandler.SaveTemplate)
			templates.Delete("", r.templateHandler.DeleteTemplate)
			templates.Get("/item", r.templateHandler.GetTemplate)
			templates.Get("/status", r.templateHandler.TemplateStatus)
		}

		// Log routes
		api.Get("/logs", requireToken, r.logHandler.GetLogs)
	}

	return r.app
}

func (r *Router) GetApp() *fiber.App {
	return r.app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
		"error": fiber.Map{
			"code":    code,
			"message": err.Error(),
		},
	})
}

package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"penneo-esign/internal/config"
	"penneo-esign/internal/delivery/http/handler"
	"penneo-esign/internal/usecase"
)

type Router struct {
	app             *fiber.App
	config          *config.Config
	caseFileHandler *handler.CaseFileHandler
	callbackHandler *handler.CallbackHandler
	healthHandler   *handler.HealthHandler
	logHandler      *handler.LogHandler
}

func NewRouter(
	cfg *config.Config,
	caseFileHandler *handler.CaseFileHandler,
	callbackHandler *handler.CallbackHandler,
	healthHandler *handler.HealthHandler,
	logHandler *handler.LogHandler,
) *Router {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: customErrorHandler,
	})

	return &Router{
		app:             app,
		config:          cfg,
		caseFileHandler: caseFileHandler,
		callbackHandler: callbackHandler,
		healthHandler:   healthHandler,
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

	// Signer redirects from the signing portal (must be at root level)
	r.app.Get(usecase.CallbackPath+"/:token/:outcome", r.callbackHandler.SignatureCallback)

	// API v1 routes
	api := r.app.Group("/api/v1")
	{
		caseFiles := api.Group("/casefiles")
		{
			caseFiles.Post("", r.caseFileHandler.Create)
			caseFiles.Get("", r.caseFileHandler.List)
			caseFiles.Get("/:id", r.caseFileHandler.Get)
		}

		// Log routes
		logs := api.Group("/logs")
		{
			logs.Get("", r.logHandler.GetLogs)
			logs.Get("/search", r.logHandler.SearchLogs)
		}
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

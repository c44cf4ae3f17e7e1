package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/examcell/results-api/internal/config"
	"github.com/examcell/results-api/internal/handler"
	"github.com/examcell/results-api/internal/middleware"
	"github.com/examcell/results-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler    *handler.AuthHandler
	StudentHandler *handler.StudentHandler
	SubjectHandler *handler.SubjectHandler
	ResultHandler  *handler.ResultHandler
	UploadHandler  *handler.UploadHandler
	ReportHandler  *handler.ReportHandler
	JWTMiddleware  fiber.Handler
}

// Register wires the HTTP routes into the fiber application. Everything under
// /api requires a bearer token except the login and health endpoints.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		deps.AuthHandler.Register(auth)
	}

	if deps.StudentHandler != nil {
		students := api.Group("/students", jwtMiddleware)
		deps.StudentHandler.Register(students)
	}

	if deps.SubjectHandler != nil {
		subjects := api.Group("/subjects", jwtMiddleware)
		deps.SubjectHandler.Register(subjects)
	}

	if deps.ResultHandler != nil {
		results := api.Group("/results", jwtMiddleware)
		deps.ResultHandler.Register(results)
	}

	if deps.UploadHandler != nil {
		uploads := api.Group("/uploads", jwtMiddleware, middleware.RequireRole(middleware.RoleAdmin))
		deps.UploadHandler.Register(uploads)
	}

	if deps.ReportHandler != nil {
		reports := api.Group("/reports", jwtMiddleware, middleware.RequireRole(middleware.RoleAdmin))
		deps.ReportHandler.Register(reports)
	}
}

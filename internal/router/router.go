package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/omnivion/omnivion-api/internal/config"
	"github.com/omnivion/omnivion-api/internal/handler"
	"github.com/omnivion/omnivion-api/internal/middleware"
	"github.com/omnivion/omnivion-api/internal/models"
	"github.com/omnivion/omnivion-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	StudentHandler    *handler.StudentHandler
	AnalyticsHandler  *handler.AnalyticsHandler
	PredictionHandler *handler.PredictionHandler
	ImportHandler     *handler.ImportHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	adminOnly := middleware.RequireRole(models.RoleAdmin)
	hodOnly := middleware.RequireRole(models.RoleHOD)
	teaching := middleware.RequireRole(models.RoleAdmin, models.RoleHOD, models.RoleTeacher)

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		deps.AuthHandler.Register(
			auth,
			auth.Group("", jwtMiddleware),
			auth.Group("", jwtMiddleware, adminOnly),
		)
	}

	if deps.StudentHandler != nil {
		students := api.Group("/students", jwtMiddleware)
		deps.StudentHandler.Register(
			students.Group("", adminOnly),
			students.Group("", hodOnly),
			students.Group("", teaching),
		)
	}

	if deps.AnalyticsHandler != nil {
		analytics := api.Group("/analytics", jwtMiddleware, teaching)
		deps.AnalyticsHandler.Register(analytics, analytics.Group("", hodOnly))
	}

	if deps.PredictionHandler != nil {
		predictions := api.Group("/predictions", jwtMiddleware, teaching)
		deps.PredictionHandler.Register(predictions)
	}

	if deps.ImportHandler != nil {
		upload := api.Group("/upload", jwtMiddleware, teaching)
		deps.ImportHandler.Register(upload)
	}
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bp-tracker/internal/api/http/handlers"
	"github.com/spec-kit/bp-tracker/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Patients       *handlers.PatientsHandler
	Measurements   *handlers.MeasurementsHandler
	Reminders      *handlers.RemindersHandler
	Share          *handlers.ShareHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Patients.Register)
	authGroup.Post("/login", cfg.Patients.Login)

	// shared view is public by design; the token is the credential
	app.Get("/shared/:token", cfg.Share.View)

	api := app.Group("/api", cfg.AuthMiddleware.Handle, auth.RequirePatient())
	api.Get("/me", cfg.Patients.Me)

	api.Post("/measurements", cfg.Measurements.Create)
	api.Get("/measurements", cfg.Measurements.List)
	api.Delete("/measurements/:id", cfg.Measurements.Delete)

	api.Post("/reminders", cfg.Reminders.Create)
	api.Get("/reminders", cfg.Reminders.List)
	api.Put("/reminders/:id", cfg.Reminders.Update)
	api.Delete("/reminders/:id", cfg.Reminders.Delete)

	api.Post("/share", cfg.Share.Issue)
}

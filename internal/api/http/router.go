package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/analify/dashboard-gateway/internal/api/http/handlers"
	"github.com/analify/dashboard-gateway/internal/auth"
	"github.com/analify/dashboard-gateway/internal/session"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Profile   *handlers.ProfileHandler
	Dashboard *handlers.DashboardHandler
	Proxy     *handlers.ProxyHandler
	Sessions  *session.Manager
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/session", cfg.Auth.Session)

	app.Get("/", cfg.Dashboard.Root)
	app.Get(auth.LoginPath, cfg.Dashboard.Login)
	app.Get(handlers.DashboardPath, cfg.Dashboard.Index)
	app.Get(handlers.DashboardPath+"/:page", auth.Guard(cfg.Sessions), cfg.Dashboard.Page)

	api := app.Group("/api", auth.RequireAuthenticated(cfg.Sessions))
	api.Put("/profile", cfg.Profile.Update)
	api.All("/*", cfg.Proxy.Forward)
}

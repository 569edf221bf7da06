package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portfolio-api/internal/api/http/handlers"
	"github.com/spec-kit/portfolio-api/internal/auth"
	"github.com/spec-kit/portfolio-api/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Projects       *handlers.ProjectsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Get("/oauth/:provider", cfg.Auth.OAuthLogin)
	authGroup.Get("/oauth/:provider/callback", cfg.Auth.OAuthCallback)

	// Logout is deliberately outside the validating middleware: revocation is
	// best-effort and must accept tokens that are already at or past expiry.
	authGroup.Post("/logout", cfg.Auth.Logout)

	authGroup.Post("/change-password", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Auth.ChangePassword)

	users := app.Group("/users")
	users.Get("/me", cfg.AuthMiddleware.Handle, cfg.Users.Me)
	users.Patch("/me", cfg.AuthMiddleware.Handle, cfg.Users.UpdateMe)
	users.Get("/", cfg.AuthMiddleware.Handle, auth.RequireRoles(domain.RoleAdmin), cfg.Users.List)
	users.Delete("/:id", cfg.AuthMiddleware.Handle, auth.RequireRoles(domain.RoleAdmin), cfg.Users.Deactivate)

	projects := app.Group("/projects")
	// Public reads accept an optional bearer token: admins see every
	// status, anonymous callers only published entries.
	projects.Get("/", cfg.AuthMiddleware.HandleOptional, cfg.Projects.List)
	projects.Get("/:id", cfg.AuthMiddleware.HandleOptional, cfg.Projects.Get)
	projects.Post("/", cfg.AuthMiddleware.Handle, auth.RequireRoles(domain.RoleAdmin), cfg.Projects.Create)
	projects.Put("/:id", cfg.AuthMiddleware.Handle, auth.RequireRoles(domain.RoleAdmin), cfg.Projects.Update)
	projects.Delete("/:id", cfg.AuthMiddleware.Handle, auth.RequireRoles(domain.RoleAdmin), cfg.Projects.Delete)
}

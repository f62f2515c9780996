package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/admin-service/internal/api/http/handlers"
	"github.com/spec-kit/admin-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
	Permissions    auth.PermissionResolver
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/refresh-token", cfg.Auth.RefreshToken)
	authGroup.Get("/department", cfg.Auth.Departments)

	protected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	protected.Get("/logout", cfg.Auth.Logout)
	protected.Post("/logout", cfg.Auth.Logout)
	protected.Get("/me", cfg.Auth.Me)
	protected.Get("/userinfo", cfg.Auth.UserInfo)
	protected.Get("/menus", cfg.Auth.Menus)
	protected.Get("/routes", cfg.Auth.Routes)
	protected.Get("/permissions", cfg.Auth.Permissions)
	protected.Put("/profile", cfg.Users.UpdateProfile)
	protected.Put("/password", cfg.Users.ChangePassword)
	protected.Put("/users/:id/roles",
		auth.RequirePermission(cfg.Permissions, "user:update"),
		cfg.Users.ReplaceRoles)
}

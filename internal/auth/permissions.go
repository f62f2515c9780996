package auth

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// PermissionResolver yields the set of action strings granted to a user.
type PermissionResolver interface {
	GetUserPermissions(ctx context.Context, userID int64) (map[string]struct{}, error)
}

// RequireAuthenticated ensures a principal is present.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		return c.Next()
	}
}

// RequirePermission ensures the principal holds the given action grant.
func RequirePermission(resolver PermissionResolver, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}

		granted, err := resolver.GetUserPermissions(c.UserContext(), principal.User.ID)
		if err != nil {
			return err
		}
		if _, exists := granted[action]; !exists {
			return fiber.NewError(http.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/admin-service/internal/domain"
	"github.com/spec-kit/admin-service/internal/repository"
	apperrors "github.com/spec-kit/admin-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User   *domain.User
	Claims *Claims
}

// AuthMiddleware validates bearer access tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewTokenInvalid("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewTokenInvalid("invalid authorization header")
	}

	claims, err := m.tokens.Parse(parts[1], domain.TokenTypeAccess)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return apperrors.NewTokenInvalid("token expired")
		}
		return apperrors.NewTokenInvalid("invalid token")
	}

	userID, err := claims.UserID()
	if err != nil {
		return apperrors.NewTokenInvalid("invalid token subject")
	}

	user, err := m.users.GetByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewTokenInvalid("user not found")
		}
		return apperrors.MapError(err)
	}
	if !user.Active() {
		return apperrors.NewAuthenticationFailed("account disabled")
	}

	c.Locals(principalKey, &Principal{User: user, Claims: claims})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

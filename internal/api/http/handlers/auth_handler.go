package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/admin-service/internal/api/dto"
	"github.com/spec-kit/admin-service/internal/auth"
	"github.com/spec-kit/admin-service/internal/repository"
	"github.com/spec-kit/admin-service/internal/service"
	apperrors "github.com/spec-kit/admin-service/pkg/util"
)

// AuthHandler exposes the /auth surface.
type AuthHandler struct {
	auth        *service.AuthService
	menus       *service.MenuService
	departments repository.DepartmentRepository
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, menuService *service.MenuService, departments repository.DepartmentRepository) *AuthHandler {
	return &AuthHandler{auth: authService, menus: menuService, departments: departments}
}

// Login handles POST /auth/login. The caller's IP keys the rate limiter.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationFailed("invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationFailed("email and password required")
	}

	user, pair, err := h.auth.Authenticate(c.UserContext(), c.IP(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.OK(dto.LoginResponse{
		User:          dto.NewUserSummary(user),
		TokenResponse: dto.NewTokenResponse(pair),
	}))
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationFailed("invalid payload")
	}

	user, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.Created(dto.NewUserSummary(user)))
}

// RefreshToken handles POST /auth/refresh-token.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationFailed("invalid payload")
	}
	if req.RefreshToken == "" {
		return apperrors.NewValidationFailed("refresh_token required")
	}

	pair, err := h.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewTokenResponse(pair)))
}

// Logout handles GET/POST /auth/logout. Cached snapshots are dropped;
// the token stays valid until its natural expiry.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewTokenInvalid("not authenticated")
	}
	if err := h.auth.Logout(c.UserContext(), principal.User.ID); err != nil {
		return err
	}
	return c.JSON(dto.OK(fiber.Map{"success": true}))
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewTokenInvalid("not authenticated")
	}
	return c.JSON(dto.OK(dto.NewUserSummary(principal.User)))
}

// UserInfo handles GET /auth/userinfo.
func (h *AuthHandler) UserInfo(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewTokenInvalid("not authenticated")
	}
	info, err := h.auth.EntireUserInfo(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(info))
}

// Menus handles GET /auth/menus.
func (h *AuthHandler) Menus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewTokenInvalid("not authenticated")
	}
	tree, err := h.menus.GetUserMenus(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(tree))
}

// Routes handles GET /auth/routes.
func (h *AuthHandler) Routes(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewTokenInvalid("not authenticated")
	}
	routes, err := h.menus.GetUserRoutes(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(routes))
}

// Permissions handles GET /auth/permissions.
func (h *AuthHandler) Permissions(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewTokenInvalid("not authenticated")
	}
	list, err := h.auth.PermissionList(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(list))
}

// Departments handles GET /auth/department.
func (h *AuthHandler) Departments(c *fiber.Ctx) error {
	departments, err := h.departments.List(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(dto.OK(dto.NewDepartmentResponses(departments)))
}

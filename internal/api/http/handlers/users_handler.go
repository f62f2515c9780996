package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/admin-service/internal/api/dto"
	"github.com/spec-kit/admin-service/internal/auth"
	"github.com/spec-kit/admin-service/internal/service"
	apperrors "github.com/spec-kit/admin-service/pkg/util"
)

// UsersHandler exposes profile and role management endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// UpdateProfile handles PUT /auth/profile.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewTokenInvalid("not authenticated")
	}

	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationFailed("invalid payload")
	}

	user, err := h.users.UpdateProfile(c.UserContext(), principal.User.ID, service.ProfileUpdate{
		Username:     req.Username,
		Email:        req.Email,
		DepartmentID: req.DepartmentID,
		AvatarURL:    req.AvatarURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewUserSummary(user)))
}

// ChangePassword handles PUT /auth/password.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewTokenInvalid("not authenticated")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationFailed("invalid payload")
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationFailed("old_password and new_password required")
	}

	if err := h.users.ChangePassword(c.UserContext(), principal.User.ID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(dto.OK(fiber.Map{"success": true}))
}

// ReplaceRoles handles PUT /auth/users/:id/roles.
func (h *UsersHandler) ReplaceRoles(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return apperrors.NewValidationFailed("invalid user id")
	}

	var req dto.ReplaceRolesRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationFailed("invalid payload")
	}

	if err := h.users.ReplaceRoles(c.UserContext(), userID, req.RoleIDs); err != nil {
		return err
	}
	return c.JSON(dto.OK(fiber.Map{"success": true}))
}

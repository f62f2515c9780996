package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/admin-service/internal/auth"
	"github.com/spec-kit/admin-service/internal/domain"
	"github.com/spec-kit/admin-service/internal/events"
	"github.com/spec-kit/admin-service/internal/repository"
	apperrors "github.com/spec-kit/admin-service/pkg/util"
)

// ProfileUpdate carries optional profile mutations; nil fields are left
// untouched.
type ProfileUpdate struct {
	Username     *string
	Email        *string
	DepartmentID *int64
	AvatarURL    *string
}

// UserService handles profile and role mutations. Every mutation
// publishes an event so cached derived data for the user is dropped.
type UserService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, roles repository.RoleRepository, dispatcher events.Dispatcher, logger *zap.Logger, bcryptCost int) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, roles: roles, dispatcher: dispatcher, logger: logger, bcryptCost: bcryptCost}
}

// UpdateProfile applies profile changes after uniqueness checks.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, apperrors.NewSystemError(err)
	}

	var changed []string

	if update.Username != nil && *update.Username != user.Username {
		if existing, err := s.users.GetByUsername(ctx, *update.Username); err == nil && existing.ID != userID {
			return nil, apperrors.NewValidationFailed("username already taken")
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewSystemError(err)
		}
		user.Username = *update.Username
		changed = append(changed, "username")
	}

	if update.Email != nil && *update.Email != user.Email {
		if existing, err := s.users.GetByEmail(ctx, *update.Email); err == nil && existing.ID != userID {
			return nil, apperrors.NewValidationFailed("email already registered")
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewSystemError(err)
		}
		user.Email = *update.Email
		changed = append(changed, "email")
	}

	if update.DepartmentID != nil {
		user.DepartmentID = update.DepartmentID
		changed = append(changed, "department_id")
	}
	if update.AvatarURL != nil {
		user.AvatarURL = *update.AvatarURL
		changed = append(changed, "avatar_url")
	}

	if len(changed) == 0 {
		return user, nil
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.NewSystemError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventUserUpdated,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   events.UserUpdatedPayload{Fields: changed},
	})

	s.logger.Info("profile updated", zap.Int64("user_id", userID), zap.Strings("fields", changed))
	return user, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return apperrors.NewValidationFailed("password must be at least 6 characters")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user")
		}
		return apperrors.NewSystemError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewAuthenticationFailed("current password is incorrect")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewSystemError(err)
	}
	user.PasswordHash = hash

	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.NewSystemError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventUserPasswordChanged,
		UserID:    userID,
		Timestamp: time.Now(),
	})
	return nil
}

// ReplaceRoles swaps the user's role assignments and drops cached
// permission/menu snapshots via the roles-changed event.
func (s *UserService) ReplaceRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user")
		}
		return apperrors.NewSystemError(err)
	}

	if err := s.roles.ReplaceUserRoles(ctx, userID, roleIDs); err != nil {
		return apperrors.NewSystemError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventUserRolesChanged,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   events.UserRolesChangedPayload{RoleIDs: roleIDs},
	})

	s.logger.Info("roles replaced", zap.Int64("user_id", userID), zap.Int64s("role_ids", roleIDs))
	return nil
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/admin-service/internal/auth"
	"github.com/spec-kit/admin-service/internal/cache"
	"github.com/spec-kit/admin-service/internal/config"
	"github.com/spec-kit/admin-service/internal/domain"
	"github.com/spec-kit/admin-service/internal/events"
	"github.com/spec-kit/admin-service/internal/observability"
	"github.com/spec-kit/admin-service/internal/ratelimit"
	"github.com/spec-kit/admin-service/internal/repository"
	apperrors "github.com/spec-kit/admin-service/pkg/util"
)

// RegisterInput carries validated registration fields.
type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	DepartmentID *int64
}

// UserInfo is the full per-user view returned by /auth/userinfo.
type UserInfo struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	DepartmentName string     `json:"department_name"`
	Roles          []string   `json:"roles"`
	AvatarURL      string     `json:"avatar_url"`
	Status         int        `json:"status"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
}

// AuthService coordinates credential verification, token issuance and
// cached permission resolution.
type AuthService struct {
	users       repository.UserRepository
	roles       repository.RoleRepository
	departments repository.DepartmentRepository
	tokenMgr    *auth.TokenManager
	cache       cache.Cache
	limiter     ratelimit.Limiter
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
	bcryptCost  int
	cacheTTL    time.Duration
	failOpen    bool
}

// AuthDependencies encapsulates collaborator requirements for the auth service.
type AuthDependencies struct {
	UserRepo       repository.UserRepository
	RoleRepo       repository.RoleRepository
	DepartmentRepo repository.DepartmentRepository
	Cache          cache.Cache
	Limiter        ratelimit.Limiter
	Dispatcher     events.Dispatcher
	Metrics        *observability.Metrics
	Logger         *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:       deps.UserRepo,
		roles:       deps.RoleRepo,
		departments: deps.DepartmentRepo,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), cfg.Auth.RefreshTokenTTL()),
		cache:       deps.Cache,
		limiter:     deps.Limiter,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      logger,
		bcryptCost:  cfg.Auth.BcryptCost,
		cacheTTL:    cfg.Cache.TTL(),
		failOpen:    cfg.RateLimit.FailOpen,
	}
}

func loginRateKey(clientKey string) string {
	return fmt.Sprintf("login:%s", clientKey)
}

// Authenticate verifies credentials for the given client key. The rate
// limiter is consulted before any credential work; only failed attempts
// count toward the window, and a successful login resets it.
func (s *AuthService) Authenticate(ctx context.Context, clientKey, email, password string) (*domain.User, domain.TokenPair, error) {
	rateKey := loginRateKey(clientKey)

	limited, err := s.limiter.IsLimited(ctx, rateKey)
	if err != nil {
		s.logger.Error("rate limiter unavailable", zap.Error(err))
		if !s.failOpen {
			s.metrics.RecordRateLimited()
			return nil, domain.TokenPair{}, apperrors.NewRateLimited("too many attempts, try again later")
		}
	} else if limited {
		s.metrics.RecordRateLimited()
		s.logger.Warn("login rate limited", zap.String("key", clientKey))
		return nil, domain.TokenPair{}, apperrors.NewRateLimited("too many attempts, try again later")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.recordLoginFailure(ctx, rateKey, "user_not_found")
			return nil, domain.TokenPair{}, apperrors.NewAuthenticationFailed("invalid email or password")
		}
		s.metrics.RecordAuthAttempt("error")
		return nil, domain.TokenPair{}, apperrors.NewSystemError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.recordLoginFailure(ctx, rateKey, "invalid_password")
		return nil, domain.TokenPair{}, apperrors.NewAuthenticationFailed("invalid email or password")
	}

	if !user.Active() {
		s.recordLoginFailure(ctx, rateKey, "user_disabled")
		return nil, domain.TokenPair{}, apperrors.NewAuthenticationFailed("account disabled")
	}

	pair, err := s.tokenMgr.IssuePair(user.ID)
	if err != nil {
		s.metrics.RecordAuthAttempt("error")
		return nil, domain.TokenPair{}, apperrors.NewSystemError(err)
	}

	if err := s.limiter.Reset(ctx, rateKey); err != nil {
		s.logger.Warn("failed to reset rate limit window", zap.Error(err))
	}
	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to update last login", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	s.metrics.RecordAuthAttempt("success")
	s.logger.Info("login succeeded", zap.Int64("user_id", user.ID), zap.String("email", email))
	return user, pair, nil
}

func (s *AuthService) recordLoginFailure(ctx context.Context, rateKey, reason string) {
	s.metrics.RecordAuthAttempt(reason)
	if err := s.limiter.Increment(ctx, rateKey); err != nil {
		s.logger.Error("failed to increment rate limit counter", zap.Error(err))
	}
}

// Refresh mints a new token pair from a valid refresh token. An access
// token presented in its place is rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	claims, err := s.tokenMgr.Parse(refreshToken, domain.TokenTypeRefresh)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			return domain.TokenPair{}, apperrors.NewTokenInvalid("refresh token expired")
		case errors.Is(err, auth.ErrWrongTokenType):
			return domain.TokenPair{}, apperrors.NewTokenInvalid("not a refresh token")
		default:
			return domain.TokenPair{}, apperrors.NewTokenInvalid("invalid refresh token")
		}
	}

	userID, err := claims.UserID()
	if err != nil {
		return domain.TokenPair{}, apperrors.NewTokenInvalid("invalid token subject")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TokenPair{}, apperrors.NewTokenInvalid("user not found")
		}
		return domain.TokenPair{}, apperrors.NewSystemError(err)
	}
	if !user.Active() {
		return domain.TokenPair{}, apperrors.NewAuthenticationFailed("account disabled")
	}

	pair, err := s.tokenMgr.IssuePair(user.ID)
	if err != nil {
		return domain.TokenPair{}, apperrors.NewSystemError(err)
	}
	return pair, nil
}

// Register creates a new account with a hashed password, default avatar
// and default role. Username and email must be unique.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Username == "" || input.Email == "" || len(input.Password) < 6 {
		return nil, apperrors.NewRegistrationFailed("username, email and a password of at least 6 characters are required")
	}

	if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
		return nil, apperrors.NewRegistrationFailed("username already taken")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewSystemError(err)
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewRegistrationFailed("email already registered")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewSystemError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewSystemError(err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		DepartmentID: input.DepartmentID,
		AvatarURL:    domain.DefaultAvatarPath,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewSystemError(err)
	}

	if err := s.roles.AssignDefaultRole(ctx, user.ID); err != nil {
		s.logger.Error("failed to assign default role", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

// Logout removes the user's cached route and menu snapshots. The token
// itself stays valid until expiry; only derived data is dropped, and
// the delete completes before this returns.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	if err := s.cache.Delete(ctx, cache.UserRoutesKey(userID), cache.UserMenusKey(userID)); err != nil {
		return apperrors.NewSystemError(err)
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventUserLoggedOut,
			UserID:    userID,
			Timestamp: time.Now(),
		})
	}
	s.logger.Info("user logged out", zap.Int64("user_id", userID))
	return nil
}

// GetUserPermissions resolves the set of action grants for a user,
// read-through cached. A user with no roles gets an empty set. Cache
// failures degrade to direct computation.
func (s *AuthService) GetUserPermissions(ctx context.Context, userID int64) (map[string]struct{}, error) {
	key := cache.UserPermissionsKey(userID)

	var cached []string
	hit, err := cache.GetJSON(ctx, s.cache, key, &cached)
	if err != nil {
		s.logger.Warn("permissions cache read failed", zap.Error(err))
	}
	s.metrics.RecordCacheLookup(hit)
	if hit {
		return toSet(cached), nil
	}

	actions, err := s.computePermissions(ctx, userID)
	if err != nil {
		return nil, apperrors.NewPermissionLookupFailed(err)
	}

	if err := cache.SetJSON(ctx, s.cache, key, actions, s.cacheTTL); err != nil {
		s.logger.Warn("permissions cache write failed", zap.Error(err))
	}
	return toSet(actions), nil
}

func (s *AuthService) computePermissions(ctx context.Context, userID int64) ([]string, error) {
	roles, err := s.roles.GetUserRoles(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	actions := make([]string, 0)
	for _, role := range roles {
		perms, err := s.roles.GetRolePermissions(ctx, role.ID)
		if err != nil {
			return nil, err
		}
		for _, perm := range perms {
			if perm.Action == "" {
				continue
			}
			if _, dup := seen[perm.Action]; dup {
				continue
			}
			seen[perm.Action] = struct{}{}
			actions = append(actions, perm.Action)
		}
	}
	return actions, nil
}

// PermissionList returns the user's grants as a slice for API responses.
func (s *AuthService) PermissionList(ctx context.Context, userID int64) ([]string, error) {
	set, err := s.GetUserPermissions(ctx, userID)
	if err != nil {
		return nil, err
	}
	list := make([]string, 0, len(set))
	for action := range set {
		list = append(list, action)
	}
	return list, nil
}

// EntireUserInfo assembles the full user view: identity, department
// name and role names.
func (s *AuthService) EntireUserInfo(ctx context.Context, userID int64) (*UserInfo, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUserInfoFailed(err)
		}
		return nil, apperrors.NewSystemError(err)
	}

	info := &UserInfo{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		AvatarURL:   user.AvatarURL,
		Status:      user.Status,
		LastLoginAt: user.LastLoginAt,
		Roles:       []string{},
	}

	if user.DepartmentID != nil {
		dept, err := s.departments.GetByID(ctx, *user.DepartmentID)
		if err == nil {
			info.DepartmentName = dept.Name
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUserInfoFailed(err)
		}
	}

	roles, err := s.roles.GetUserRoles(ctx, userID)
	if err != nil {
		return nil, apperrors.NewUserInfoFailed(err)
	}
	for _, role := range roles {
		info.Roles = append(info.Roles, role.Name)
	}

	return info, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func toSet(actions []string) map[string]struct{} {
	set := make(map[string]struct{}, len(actions))
	for _, action := range actions {
		set[action] = struct{}{}
	}
	return set
}

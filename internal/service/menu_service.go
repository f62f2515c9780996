package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/admin-service/internal/cache"
	"github.com/spec-kit/admin-service/internal/domain"
	"github.com/spec-kit/admin-service/internal/observability"
	"github.com/spec-kit/admin-service/internal/repository"
	apperrors "github.com/spec-kit/admin-service/pkg/util"
)

// MenuService derives per-user menu and route trees, read-through
// cached. Snapshots are idempotently recomputable, so a get/set race
// costs a redundant computation, never a wrong answer.
type MenuService struct {
	menus    repository.MenuRepository
	cache    cache.Cache
	metrics  *observability.Metrics
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewMenuService builds the service.
func NewMenuService(menus repository.MenuRepository, c cache.Cache, metrics *observability.Metrics, logger *zap.Logger, cacheTTL time.Duration) *MenuService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	return &MenuService{menus: menus, cache: c, metrics: metrics, logger: logger, cacheTTL: cacheTTL}
}

// GetUserMenus returns the user's accessible menu tree. A user with no
// granted menus gets an empty tree.
func (s *MenuService) GetUserMenus(ctx context.Context, userID int64) ([]domain.MenuNode, error) {
	key := cache.UserMenusKey(userID)

	var cached []domain.MenuNode
	hit, err := cache.GetJSON(ctx, s.cache, key, &cached)
	if err != nil {
		s.logger.Warn("menu cache read failed", zap.Error(err))
	}
	s.metrics.RecordCacheLookup(hit)
	if hit {
		return cached, nil
	}

	menus, err := s.menus.GetUserMenus(ctx, userID)
	if err != nil {
		return nil, apperrors.NewMenuLookupFailed(err)
	}
	tree := domain.BuildMenuTree(menus)

	if err := cache.SetJSON(ctx, s.cache, key, tree, s.cacheTTL); err != nil {
		s.logger.Warn("menu cache write failed", zap.Error(err))
	}
	return tree, nil
}

// GetUserRoutes returns the user's menu tree shaped as frontend route
// records.
func (s *MenuService) GetUserRoutes(ctx context.Context, userID int64) ([]domain.RouteRecord, error) {
	key := cache.UserRoutesKey(userID)

	var cached []domain.RouteRecord
	hit, err := cache.GetJSON(ctx, s.cache, key, &cached)
	if err != nil {
		s.logger.Warn("route cache read failed", zap.Error(err))
	}
	s.metrics.RecordCacheLookup(hit)
	if hit {
		return cached, nil
	}

	menus, err := s.menus.GetUserMenus(ctx, userID)
	if err != nil {
		return nil, apperrors.NewRouteLookupFailed(err)
	}
	routes := domain.BuildRouteTree(domain.BuildMenuTree(menus))

	if err := cache.SetJSON(ctx, s.cache, key, routes, s.cacheTTL); err != nil {
		s.logger.Warn("route cache write failed", zap.Error(err))
	}
	return routes, nil
}

// GetMenuTree returns the unfiltered menu tree (super-admin view).
func (s *MenuService) GetMenuTree(ctx context.Context) ([]domain.MenuNode, error) {
	var cached []domain.MenuNode
	hit, err := cache.GetJSON(ctx, s.cache, cache.MenuTreeKey, &cached)
	if err != nil {
		s.logger.Warn("menu tree cache read failed", zap.Error(err))
	}
	s.metrics.RecordCacheLookup(hit)
	if hit {
		return cached, nil
	}

	menus, err := s.menus.GetAll(ctx)
	if err != nil {
		return nil, apperrors.NewMenuLookupFailed(err)
	}
	tree := domain.BuildMenuTree(menus)

	if err := cache.SetJSON(ctx, s.cache, cache.MenuTreeKey, tree, s.cacheTTL); err != nil {
		s.logger.Warn("menu tree cache write failed", zap.Error(err))
	}
	return tree, nil
}

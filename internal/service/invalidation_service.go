package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/admin-service/internal/cache"
	"github.com/spec-kit/admin-service/internal/events"
)

// InvalidationService drops a user's cached derived snapshots whenever
// their identity or grants change, bounding staleness below the TTL.
type InvalidationService struct {
	dispatcher events.Dispatcher
	cache      cache.Cache
	logger     *zap.Logger
}

// NewInvalidationService creates the service.
func NewInvalidationService(dispatcher events.Dispatcher, c cache.Cache, logger *zap.Logger) *InvalidationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvalidationService{dispatcher: dispatcher, cache: c, logger: logger}
}

// RegisterHandlers subscribes to user mutation events.
func (s *InvalidationService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventUserUpdated, s.handleUserChanged)
	s.dispatcher.Subscribe(events.EventUserRolesChanged, s.handleUserChanged)
	s.dispatcher.Subscribe(events.EventUserPasswordChanged, s.handleUserChanged)
	s.dispatcher.Subscribe(events.EventUserLoggedOut, s.handleUserChanged)
}

func (s *InvalidationService) handleUserChanged(ctx context.Context, event events.Event) error {
	keys := cache.UserKeys(event.UserID)
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Error("cache invalidation failed",
			zap.Int64("user_id", event.UserID),
			zap.String("event", string(event.Type)),
			zap.Error(err))
		return err
	}
	s.logger.Debug("cache invalidated",
		zap.Int64("user_id", event.UserID),
		zap.String("event", string(event.Type)))
	return nil
}

package worker

import (
	"github.com/spec-kit/admin-service/internal/service"
)

// StartInvalidationWorker registers cache invalidation handlers.
func StartInvalidationWorker(invalidationService *service.InvalidationService) {
	if invalidationService == nil {
		return
	}
	invalidationService.RegisterHandlers()
}

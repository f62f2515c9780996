package http

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/admin-service/internal/api/dto"
	"github.com/spec-kit/admin-service/internal/observability"
	apperrors "github.com/spec-kit/admin-service/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	// The logger wraps error handling so it observes the mapped status,
	// not the pre-error 200.
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware maps any error onto the uniform envelope.
// Known kinds keep their status and name; anything else is logged with
// full detail and returned as a generic system error.
func errorHandlingMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewSystemError(nil)
			}
			if err != nil {
				var fiberErr *fiber.Error
				if ok := asFiberError(err, &fiberErr); ok {
					c.Status(fiberErr.Code)
					_ = c.JSON(dto.Fail(fiberErr.Code, http.StatusText(fiberErr.Code), fiberErr.Message))
					err = nil
					return
				}

				domainErr := apperrors.ToDomainError(err)
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed",
						zap.String("path", c.Path()),
						zap.String("kind", domainErr.Code),
						zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(dto.Fail(domainErr.HTTPStatus, domainErr.Code, domainErr.Message))
				err = nil
			}
		}()
		return c.Next()
	}
}

func asFiberError(err error, target **fiber.Error) bool {
	fe, ok := err.(*fiber.Error)
	if !ok {
		return false
	}
	*target = fe
	return true
}

package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"restaurantops_backend/internals/helpers/logger"
)

// RecoveryMiddleware turns a panic into a 500 and logs it.
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			logger.L().Error().
				Interface("panic", e).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("recovered from panic")
		},
	})
}

package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/rs/zerolog"

	reqlog "restaurantops_backend/internals/middlewares/logger"
)

type Options struct {
	CORSOrigins    string
	RequestTimeout time.Duration
	RateMax        int
	RateWindow     time.Duration
}

// SetupMiddlewares installs the app-wide chain: recover first, then request log,
// CORS, global rate limit, gzip and etag.
func SetupMiddlewares(app *fiber.App, opts Options, log zerolog.Logger) {
	app.Use(RecoveryMiddleware())
	app.Use(reqlog.RequestLogger(log, opts.RequestTimeout))
	app.Use(CorsMiddleware(opts.CORSOrigins))
	app.Use(GlobalRateLimiter(opts.RateMax, opts.RateWindow))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching
}

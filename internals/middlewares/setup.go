package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"campusevents_backend/internals/configs"
	reqLogger "campusevents_backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the app-wide chain. store backs the global
// limiter; nil keeps counters in memory.
func SetupMiddlewares(app *fiber.App, cfg *configs.AppConfig, store fiber.Storage) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestID())
	app.Use(RequestContext(DefaultRequestTimeout))
	app.Use(reqLogger.LoggerMiddleware())
	app.Use(CorsMiddleware(cfg.CORSOrigins))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use("/api", GlobalRateLimiter(store))
}

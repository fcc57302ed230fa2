package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"campusevents_backend/internals/configs"
	database "campusevents_backend/internals/databases"
	helperOSS "campusevents_backend/internals/helpers/oss"
	"campusevents_backend/internals/metrics"
)

// BaseRoutes: root banner, health, metrics and locally stored uploads.
func BaseRoutes(app *fiber.App, db *gorm.DB, cfg *configs.AppConfig) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("campus events API 🚀")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		dbStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK
		if err := database.Ping(ctx, db); err != nil {
			dbStatus = "Database connection error"
			serverStatus = "DOWN"
			httpStatus = fiber.StatusServiceUnavailable
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"server_time":    time.Now().UTC().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"environment":    cfg.AppEnv,
		})
	})

	app.Get("/metrics", metrics.Handler())

	if !cfg.OSS.Enabled() && cfg.UploadDir != "" {
		app.Static(helperOSS.LocalPublicPath, cfg.UploadDir, fiber.Static{MaxAge: 86400})
	}
}

package middlewares

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "campusevents_backend/internals/helpers"
)

// WebhookPathPrefix is skipped by the global limiter: gateways deliver from a
// few IPs and authenticate every request with a signature.
const WebhookPathPrefix = "/api/webhooks/"

// limiterFor builds an IP keyed limiter. store may be nil (in-memory).
// skip may be nil.
func limiterFor(store fiber.Storage, max int, window time.Duration, message string, skip func(*fiber.Ctx) bool) fiber.Handler {
	return limiter.New(limiter.Config{
		Next:       skip,
		Max:        max,
		Expiration: window,
		Storage:    store,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// Global limiter: every regular endpoint, webhooks excluded
func GlobalRateLimiter(store fiber.Storage) fiber.Handler {
	return limiterFor(store, 100, 1*time.Minute, "❌ Too many requests. Please try again later.", isWebhook)
}

func isWebhook(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), WebhookPathPrefix)
}

// Login route (stricter)
func LoginRateLimiter(store fiber.Storage) fiber.Handler {
	return limiterFor(store, 5, 1*time.Minute, "❌ Too many login attempts. Try again in a moment.", nil)
}

// Register route
func RegisterRateLimiter(store fiber.Storage) fiber.Handler {
	return limiterFor(store, 3, 5*time.Minute, "❌ Too many sign-up attempts. Wait a few minutes.", nil)
}

// Bootstrap is a one-shot endpoint; a handful of tries is plenty.
func BootstrapRateLimiter(store fiber.Storage) fiber.Handler {
	return limiterFor(store, 5, 10*time.Minute, "❌ Too many setup attempts. Try again in 10 minutes.", nil)
}

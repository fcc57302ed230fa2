package middlewares

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"campusevents_backend/internals/logger"
)

const DefaultRequestTimeout = 5 * time.Second

// RequestID sets X-Request-ID (keeping a client supplied one).
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		ContextKey: "requestid",
	})
}

// RequestContext gives every handler a UserContext bounded by timeout and
// carrying the request id for logger.Ctx. Must run after RequestID.
func RequestContext(timeout time.Duration) fiber.Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			ctx = context.WithValue(ctx, logger.RequestIDKey, rid)
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}

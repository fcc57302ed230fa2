// internals/middlewares/auth/jwt_auth.go
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	helper "campusevents_backend/internals/helpers"
	"campusevents_backend/internals/helpers/apperr"
	helperAuth "campusevents_backend/internals/helpers/auth"
	"campusevents_backend/internals/logger"
)

type AuthJWTOpts struct {
	Secret              string
	BlacklistChecker    func(ctx context.Context, rawToken string) (bool, error) // true if revoked
	ActiveChecker       func(ctx context.Context, userID uuid.UUID) error         // nil when the account may act
	AllowCookieFallback bool                                                      // use the access_token cookie when no Bearer
	DevMode             bool
}

// AuthJWT guards /api routes: Bearer (or cookie) token, not revoked, user still active.
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret is required")
	}

	return func(c *fiber.Ctx) error {
		raw := helperAuth.ExtractRawToken(c, o.AllowCookieFallback)
		if raw == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - no token provided")
		}

		claims, err := helperAuth.ParseToken(secret, raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - invalid or expired token")
		}

		if o.BlacklistChecker != nil {
			revoked, err := o.BlacklistChecker(c.UserContext(), raw)
			if err != nil {
				return helper.FromError(c, err, o.DevMode)
			}
			if revoked {
				return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - token revoked")
			}
		}

		if o.ActiveChecker != nil {
			if err := o.ActiveChecker(c.UserContext(), claims.UserID); err != nil {
				var ae *apperr.Error
				if !errors.As(err, &ae) {
					logger.Ctx(c.UserContext()).Error("active check failed", zap.Error(err))
				}
				return helper.FromError(c, err, o.DevMode)
			}
		}

		helperAuth.StoreClaims(c, claims, raw)
		return c.Next()
	}
}

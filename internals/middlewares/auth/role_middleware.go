package auth

import (
	"github.com/gofiber/fiber/v2"

	"campusevents_backend/internals/constants"
	helper "campusevents_backend/internals/helpers"
	helperAuth "campusevents_backend/internals/helpers/auth"
)

// OnlyRoles lets the request through when the authenticated role is one of roles.
// Must run after AuthJWT.
func OnlyRoles(message string, roles ...constants.Role) fiber.Handler {
	if message == "" {
		message = "Forbidden: you are not authorized to access this resource"
	}
	return func(c *fiber.Ctx) error {
		role, ok := helperAuth.GetRole(c)
		if !ok {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized: missing role information")
		}
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return helper.JsonError(c, fiber.StatusForbidden, message)
	}
}

// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"campusevents_backend/internals/features/users/auth/controller"
)

type Limiters struct {
	Login    fiber.Handler
	Register fiber.Handler
}

// AuthRoutes mounts /api/auth. protect is the AuthJWT middleware.
func AuthRoutes(api fiber.Router, ctl *controller.AuthController, protect fiber.Handler, lim Limiters) {
	baseAuth := api.Group("/auth")

	// 🔓 public
	baseAuth.Post("/login", withLimiter(lim.Login, ctl.Login)...)
	baseAuth.Post("/register", withLimiter(lim.Register, ctl.Register)...)
	baseAuth.Post("/google", withLimiter(lim.Login, ctl.LoginGoogle)...)
	baseAuth.Post("/logout", ctl.Logout)

	// 🔐 protected
	baseAuth.Get("/me", protect, ctl.Me)
}

func withLimiter(l fiber.Handler, h fiber.Handler) []fiber.Handler {
	if l == nil {
		return []fiber.Handler{h}
	}
	return []fiber.Handler{l, h}
}

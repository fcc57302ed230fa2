package route

import (
	"github.com/gofiber/fiber/v2"

	"campusevents_backend/internals/features/platform/bootstrap/controller"
)

// BootstrapRoutes mounts the first-run endpoints. Both are public: bootstrap
// guards itself by refusing once any college exists.
func BootstrapRoutes(api fiber.Router, ctl *controller.BootstrapController, limiter fiber.Handler) {
	g := api.Group("/bootstrap")
	g.Get("/status", ctl.Status)
	if limiter != nil {
		g.Post("/", limiter, ctl.Bootstrap)
		return
	}
	g.Post("/", ctl.Bootstrap)
}

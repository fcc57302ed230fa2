package route

import (
	"github.com/gofiber/fiber/v2"

	"campusevents_backend/internals/features/campus/clubs/controller"
)

// ClubRoutes: every member lists and reads; writes are admin only.
func ClubRoutes(api fiber.Router, ctl *controller.ClubController, protect, adminOnly fiber.Handler) {
	g := api.Group("/clubs", protect)
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.GetByID)
	g.Post("/", adminOnly, ctl.Create)
	g.Patch("/:id", adminOnly, ctl.Patch)
	g.Delete("/:id", adminOnly, ctl.Delete)
}

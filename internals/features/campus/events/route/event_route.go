package route

import (
	"github.com/gofiber/fiber/v2"

	"campusevents_backend/internals/features/campus/events/controller"
)

// EventRoutes: members read; staff (admin or organizer) write, ownership is checked in the service.
// extra mounts additional /events/:id/... handlers owned by other features.
func EventRoutes(api fiber.Router, ctl *controller.EventController, protect, staffOnly fiber.Handler, extra ...func(fiber.Router)) {
	g := api.Group("/events", protect)
	g.Get("/", ctl.List)
	g.Get("/search", ctl.Search)
	for _, mount := range extra {
		mount(g)
	}
	g.Get("/:id", ctl.GetByID)
	g.Post("/", staffOnly, ctl.Create)
	g.Patch("/:id", staffOnly, ctl.Patch)
	g.Delete("/:id", staffOnly, ctl.Delete)
}

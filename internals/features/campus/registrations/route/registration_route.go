package route

import (
	"github.com/gofiber/fiber/v2"

	"campusevents_backend/internals/features/campus/registrations/controller"
)

// RegistrationRoutes: students register and read their own; there is no route that writes payment_status.
func RegistrationRoutes(api fiber.Router, ctl *controller.RegistrationController, protect, studentOnly fiber.Handler) {
	g := api.Group("/registrations", protect, studentOnly)
	g.Post("/", ctl.Create)
	g.Get("/me", ctl.Mine)
}

// EventRegistrationsMount plugs GET /events/:id/registrations into the events group.
func EventRegistrationsMount(ctl *controller.RegistrationController, staffOnly fiber.Handler) func(fiber.Router) {
	return func(events fiber.Router) {
		events.Get("/:id/registrations", staffOnly, ctl.ListForEvent)
	}
}

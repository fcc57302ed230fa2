package route

import (
	"github.com/gofiber/fiber/v2"

	"campusevents_backend/internals/features/campus/dashboards/controller"
)

// DashboardRoutes mounts the page area. filter is the access filter; it
// owns login redirects and role checks, including bare /dashboard.
// protect runs after it and rejects revoked tokens and inactive accounts.
func DashboardRoutes(app fiber.Router, ctl *controller.DashboardController, filter, protect fiber.Handler) {
	g := app.Group("/dashboard", filter, protect)
	g.Get("/admin", ctl.Admin)
	g.Get("/organiser", ctl.Organiser)
	g.Get("/student", ctl.Student)
}

package route

import (
	"github.com/gofiber/fiber/v2"

	"campusevents_backend/internals/features/campus/colleges/controller"
)

// CollegeRoutes: any authenticated member reads, adminOnly guards writes.
func CollegeRoutes(api fiber.Router, ctl *controller.CollegeController, protect, adminOnly fiber.Handler) {
	g := api.Group("/colleges/current", protect)
	g.Get("/", ctl.Current)
	g.Patch("/", adminOnly, ctl.Patch)
	g.Post("/logo", adminOnly, ctl.UploadLogo)
}

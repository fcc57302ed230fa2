package route

import (
	"github.com/gofiber/fiber/v2"

	"campusevents_backend/internals/features/users/users/controller"
)

// AdminUserRoutes mounts /users under api; guards are AuthJWT + ADMIN.
func AdminUserRoutes(api fiber.Router, ctl *controller.AdminUserController, guards ...fiber.Handler) {
	g := api.Group("/users", guards...)
	g.Get("/", ctl.ListUsers)
	g.Post("/", ctl.CreateUser)
	g.Patch("/:id/active", ctl.SetActive)
}

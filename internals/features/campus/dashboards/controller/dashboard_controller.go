package controller

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"campusevents_backend/internals/features/campus/dashboards/service"
	helper "campusevents_backend/internals/helpers"
	helperAuth "campusevents_backend/internals/helpers/auth"
)

type DashboardController struct {
	Service *service.Service
	DevMode bool
}

func NewDashboardController(svc *service.Service, devMode bool) *DashboardController {
	return &DashboardController{Service: svc, DevMode: devMode}
}

// GET /dashboard/admin
func (h *DashboardController) Admin(c *fiber.Ctx) error {
	return serve(c, h, "Admin dashboard", func(ctx context.Context, a helperAuth.Actor) (any, error) {
		return h.Service.Admin(ctx, a)
	})
}

// GET /dashboard/organiser
func (h *DashboardController) Organiser(c *fiber.Ctx) error {
	return serve(c, h, "Organiser dashboard", func(ctx context.Context, a helperAuth.Actor) (any, error) {
		return h.Service.Organiser(ctx, a)
	})
}

// GET /dashboard/student
func (h *DashboardController) Student(c *fiber.Ctx) error {
	return serve(c, h, "Student dashboard", func(ctx context.Context, a helperAuth.Actor) (any, error) {
		return h.Service.Student(ctx, a)
	})
}

func serve(c *fiber.Ctx, h *DashboardController, msg string, fn func(context.Context, helperAuth.Actor) (any, error)) error {
	actor, err := helperAuth.CurrentActor(c)
	if err != nil {
		return err
	}
	out, err := fn(c.UserContext(), actor)
	if err != nil {
		return helper.FromError(c, err, h.DevMode)
	}
	return helper.JsonOK(c, msg, out)
}

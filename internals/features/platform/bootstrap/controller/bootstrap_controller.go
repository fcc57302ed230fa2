// file: internals/features/platform/bootstrap/controller/bootstrap_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	collegeDTO "campusevents_backend/internals/features/campus/colleges/dto"
	"campusevents_backend/internals/features/platform/bootstrap/dto"
	"campusevents_backend/internals/features/platform/bootstrap/service"
	userDTO "campusevents_backend/internals/features/users/users/dto"
	helper "campusevents_backend/internals/helpers"
)

type BootstrapController struct {
	Service *service.Service
	DevMode bool
}

func NewBootstrapController(svc *service.Service, devMode bool) *BootstrapController {
	return &BootstrapController{Service: svc, DevMode: devMode}
}

// POST /api/bootstrap
func (ctl *BootstrapController) Bootstrap(c *fiber.Ctx) error {
	var req dto.BootstrapRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := ctl.Service.Bootstrap(c.UserContext(), req)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}

	return helper.JsonCreated(c, "Platform initialized", dto.BootstrapResponse{
		College: collegeDTO.FromModel(&res.College),
		Admin:   userDTO.FromModel(&res.Admin),
	})
}

// GET /api/bootstrap/status
func (ctl *BootstrapController) Status(c *fiber.Ctx) error {
	ok, err := ctl.Service.IsInitialized(c.UserContext())
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	return helper.JsonOK(c, "ok", dto.StatusResponse{Initialized: ok})
}

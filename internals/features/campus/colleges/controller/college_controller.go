package controller

import (
	"github.com/gofiber/fiber/v2"

	"campusevents_backend/internals/features/campus/colleges/dto"
	"campusevents_backend/internals/features/campus/colleges/service"
	helper "campusevents_backend/internals/helpers"
	helperAuth "campusevents_backend/internals/helpers/auth"
	helperOSS "campusevents_backend/internals/helpers/oss"
)

type CollegeController struct {
	Service *service.Service
	DevMode bool
}

func NewCollegeController(svc *service.Service, devMode bool) *CollegeController {
	return &CollegeController{Service: svc, DevMode: devMode}
}

// GET /api/colleges/current
func (ctl *CollegeController) Current(c *fiber.Ctx) error {
	collegeID, err := helperAuth.GetCollegeID(c)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	m, err := ctl.Service.Get(c.UserContext(), collegeID)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	return helper.JsonOK(c, "College fetched successfully", dto.FromModel(m))
}

// PATCH /api/colleges/current
func (ctl *CollegeController) Patch(c *fiber.Ctx) error {
	collegeID, err := helperAuth.GetCollegeID(c)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	var req dto.PatchCollegeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	m, err := ctl.Service.Patch(c.UserContext(), collegeID, req)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	return helper.JsonUpdated(c, "College updated successfully", dto.FromModel(m))
}

// POST /api/colleges/current/logo (multipart, field "logo")
func (ctl *CollegeController) UploadLogo(c *fiber.Ctx) error {
	collegeID, err := helperAuth.GetCollegeID(c)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	fh, err := helperOSS.GetImageFile(c)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	m, err := ctl.Service.UploadLogo(c.UserContext(), collegeID, fh)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	return helper.JsonUpdated(c, "Logo uploaded successfully", dto.FromModel(m))
}

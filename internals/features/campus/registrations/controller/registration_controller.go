package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	eventService "campusevents_backend/internals/features/campus/events/service"
	"campusevents_backend/internals/features/campus/registrations/dto"
	"campusevents_backend/internals/features/campus/registrations/model"
	"campusevents_backend/internals/features/campus/registrations/service"
	helper "campusevents_backend/internals/helpers"
	helperAuth "campusevents_backend/internals/helpers/auth"
)

type RegistrationController struct {
	Service *service.Service
	Events  *eventService.Service
	DevMode bool
}

func NewRegistrationController(svc *service.Service, events *eventService.Service, devMode bool) *RegistrationController {
	return &RegistrationController{Service: svc, Events: events, DevMode: devMode}
}

// POST /api/registrations
func (ctl *RegistrationController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.CurrentActor(c)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	var req dto.CreateRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	out, err := ctl.Service.Register(c.UserContext(), actor, req)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	msg := "Registered successfully"
	if out.Order != nil {
		msg = "Registration pending payment"
	}
	return helper.JsonCreated(c, msg, dto.CheckoutResponse{
		Registration: dto.FromModel(out.Registration),
		Order:        out.Order,
	})
}

// GET /api/registrations/me
func (ctl *RegistrationController) Mine(c *fiber.Ctx) error {
	actor, err := helperAuth.CurrentActor(c)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	paging := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Service.Mine(c.UserContext(), actor, paging.Offset, paging.Limit)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	return helper.JsonList(c, "Registrations fetched successfully", dto.FromMyRows(rows), helper.BuildPagination(total, paging, len(rows)))
}

// GET /api/events/:id/registrations
// Query:
//   status=PENDING|PAID|FAILED (optional)
//   page, per_page
func (ctl *RegistrationController) ListForEvent(c *fiber.Ctx) error {
	actor, err := helperAuth.CurrentActor(c)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid UUID format")
	}
	if _, err := ctl.Events.LoadManaged(c.UserContext(), actor, eventID); err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}

	var status *model.PaymentStatus
	if s := strings.ToUpper(strings.TrimSpace(c.Query("status"))); s != "" {
		st := model.PaymentStatus(s)
		if !st.Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid status")
		}
		status = &st
	}

	paging := helper.ResolvePaging(c, 50, 200)
	rows, total, err := ctl.Service.Attendees(c.UserContext(), actor.CollegeID, eventID, status, paging.Offset, paging.Limit)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	return helper.JsonList(c, "Registrations fetched successfully", dto.FromAttendeeRows(rows), helper.BuildPagination(total, paging, len(rows)))
}

package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"campusevents_backend/internals/features/campus/events/dto"
	"campusevents_backend/internals/features/campus/events/service"
	helper "campusevents_backend/internals/helpers"
	helperAuth "campusevents_backend/internals/helpers/auth"
)

type EventController struct {
	Service *service.Service
	DevMode bool
}

func NewEventController(svc *service.Service, devMode bool) *EventController {
	return &EventController{Service: svc, DevMode: devMode}
}

// GET /api/events
// Query:
//   club_id=uuid (optional)
//   upcoming=true (optional)
//   q=title or venue (optional)
//   page, per_page
func (ctl *EventController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.CurrentActor(c)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	paging := helper.ResolvePaging(c, 20, 100)
	p := service.ListParams{
		Upcoming: c.QueryBool("upcoming"),
		Query:    c.Query("q"),
		Offset:   paging.Offset,
		Limit:    paging.Limit,
	}
	if s := strings.TrimSpace(c.Query("club_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "club_id must be a UUID")
		}
		p.ClubID = &id
	}

	rows, total, err := ctl.Service.List(c.UserContext(), actor, p)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	return helper.JsonList(c, "Events fetched successfully", dto.FromModels(rows), helper.BuildPagination(total, paging, len(rows)))
}

// GET /api/events/search?q=
func (ctl *EventController) Search(c *fiber.Ctx) error {
	actor, err := helperAuth.CurrentActor(c)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return helper.JsonValidationError(c, "invalid query", map[string][]string{"q": {"is required"}})
	}
	paging := helper.ResolvePaging(c, 20, 50)
	rows, total, err := ctl.Service.Search(c.UserContext(), actor, q, paging.Offset, paging.Limit)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	return helper.JsonList(c, "Events fetched successfully", dto.FromModels(rows), helper.BuildPagination(total, paging, len(rows)))
}

// GET /api/events/:id
func (ctl *EventController) GetByID(c *fiber.Ctx) error {
	actor, id, err := ctl.scope(c)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	m, err := ctl.Service.Get(c.UserContext(), actor, id)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	return helper.JsonOK(c, "Event fetched successfully", dto.FromModel(m))
}

// POST /api/events
func (ctl *EventController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.CurrentActor(c)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	var req dto.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	m, err := ctl.Service.Create(c.UserContext(), actor, req)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	return helper.JsonCreated(c, "Event created successfully", dto.FromModel(m))
}

// PATCH /api/events/:id
func (ctl *EventController) Patch(c *fiber.Ctx) error {
	actor, id, err := ctl.scope(c)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	var req dto.PatchEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	m, err := ctl.Service.Patch(c.UserContext(), actor, id, req)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	return helper.JsonUpdated(c, "Event updated successfully", dto.FromModel(m))
}

// DELETE /api/events/:id
func (ctl *EventController) Delete(c *fiber.Ctx) error {
	actor, id, err := ctl.scope(c)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	m, err := ctl.Service.Delete(c.UserContext(), actor, id)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	return helper.JsonDeleted(c, "Event deleted successfully", fiber.Map{"id": m.EventID})
}

func (ctl *EventController) scope(c *fiber.Ctx) (helperAuth.Actor, uuid.UUID, error) {
	actor, err := helperAuth.CurrentActor(c)
	if err != nil {
		return actor, uuid.Nil, err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return actor, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid UUID format")
	}
	return actor, id, nil
}

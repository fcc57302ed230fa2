package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"campusevents_backend/internals/features/campus/clubs/dto"
	"campusevents_backend/internals/features/campus/clubs/service"
	helper "campusevents_backend/internals/helpers"
	helperAuth "campusevents_backend/internals/helpers/auth"
)

type ClubController struct {
	Service *service.Service
	DevMode bool
}

func NewClubController(svc *service.Service, devMode bool) *ClubController {
	return &ClubController{Service: svc, DevMode: devMode}
}

// GET /api/clubs
// Query:
//   q=name (optional)
//   organizer_id=uuid | mine=true (optional)
//   page, per_page
func (ctl *ClubController) List(c *fiber.Ctx) error {
	collegeID, err := helperAuth.GetCollegeID(c)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	paging := helper.ResolvePaging(c, 20, 100)
	p := service.ListParams{Query: c.Query("q"), Offset: paging.Offset, Limit: paging.Limit}

	if s := strings.TrimSpace(c.Query("organizer_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "organizer_id must be a UUID")
		}
		p.OrganizerID = &id
	} else if c.QueryBool("mine") {
		me, err := helperAuth.GetUserID(c)
		if err != nil {
			return helper.FromError(c, err, ctl.DevMode)
		}
		p.OrganizerID = &me
	}

	rows, total, err := ctl.Service.List(c.UserContext(), collegeID, p)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	return helper.JsonList(c, "Clubs fetched successfully", dto.FromModels(rows), helper.BuildPagination(total, paging, len(rows)))
}

// GET /api/clubs/:id
func (ctl *ClubController) GetByID(c *fiber.Ctx) error {
	collegeID, id, err := ctl.scope(c)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	m, err := ctl.Service.Get(c.UserContext(), collegeID, id)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	return helper.JsonOK(c, "Club fetched successfully", dto.FromModel(m))
}

// POST /api/clubs
func (ctl *ClubController) Create(c *fiber.Ctx) error {
	collegeID, err := helperAuth.GetCollegeID(c)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	var req dto.CreateClubRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	m, err := ctl.Service.Create(c.UserContext(), collegeID, req)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	return helper.JsonCreated(c, "Club created successfully", dto.FromModel(m))
}

// PATCH /api/clubs/:id
func (ctl *ClubController) Patch(c *fiber.Ctx) error {
	collegeID, id, err := ctl.scope(c)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	var req dto.PatchClubRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	m, err := ctl.Service.Patch(c.UserContext(), collegeID, id, req)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	return helper.JsonUpdated(c, "Club updated successfully", dto.FromModel(m))
}

// DELETE /api/clubs/:id
func (ctl *ClubController) Delete(c *fiber.Ctx) error {
	collegeID, id, err := ctl.scope(c)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	m, err := ctl.Service.Delete(c.UserContext(), collegeID, id)
	if err != nil {
		return helper.FromError(c, err, ctl.DevMode)
	}
	return helper.JsonDeleted(c, "Club deleted successfully", fiber.Map{"id": m.ClubID})
}

func (ctl *ClubController) scope(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	collegeID, err := helperAuth.GetCollegeID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid UUID format")
	}
	return collegeID, id, nil
}

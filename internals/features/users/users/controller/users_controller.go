package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"campusevents_backend/internals/constants"
	userdto "campusevents_backend/internals/features/users/users/dto"
	"campusevents_backend/internals/features/users/users/model"
	"campusevents_backend/internals/features/users/users/service"
	helper "campusevents_backend/internals/helpers"
	helperAuth "campusevents_backend/internals/helpers/auth"
)

type AdminUserController struct {
	DB      *gorm.DB
	Service *service.Service
	DevMode bool
}

func NewAdminUserController(db *gorm.DB, svc *service.Service, devMode bool) *AdminUserController {
	return &AdminUserController{DB: db, Service: svc, DevMode: devMode}
}

// GET /api/users
// Query:
//   role=ADMIN|ORGANIZER|STUDENT (optional)
//   q=name or email (optional)
//   page, per_page
func (ac *AdminUserController) ListUsers(c *fiber.Ctx) error {
	collegeID, err := helperAuth.GetCollegeID(c)
	if err != nil {
		return helper.FromError(c, err, ac.DevMode)
	}

	tx := ac.DB.WithContext(c.UserContext()).Model(&model.UserModel{}).
		Where("user_college_id = ?", collegeID)

	if r := strings.TrimSpace(c.Query("role")); r != "" {
		role, ok := constants.ParseRole(r)
		if !ok {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid role")
		}
		tx = tx.Where("user_role = ?", role)
	}
	if q := strings.ToLower(strings.TrimSpace(c.Query("q"))); q != "" {
		like := "%" + q + "%"
		tx = tx.Where("LOWER(user_name) LIKE ? OR user_email LIKE ?", like, like)
	}

	paging := helper.ResolvePaging(c, 20, 100)
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.FromError(c, err, ac.DevMode)
	}

	var users []model.UserModel
	if err := tx.Order("user_created_at DESC").Limit(paging.Limit).Offset(paging.Offset).Find(&users).Error; err != nil {
		return helper.FromError(c, err, ac.DevMode)
	}
	return helper.JsonList(c, "Users fetched successfully", userdto.FromModels(users), helper.BuildPagination(total, paging, len(users)))
}

// POST /api/users
func (ac *AdminUserController) CreateUser(c *fiber.Ctx) error {
	collegeID, err := helperAuth.GetCollegeID(c)
	if err != nil {
		return helper.FromError(c, err, ac.DevMode)
	}
	var req userdto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	u, err := ac.Service.Create(c.UserContext(), collegeID, req)
	if err != nil {
		return helper.FromError(c, err, ac.DevMode)
	}
	return helper.JsonCreated(c, "User created successfully", userdto.FromModel(u))
}

// PATCH /api/users/:id/active
func (ac *AdminUserController) SetActive(c *fiber.Ctx) error {
	collegeID, err := helperAuth.GetCollegeID(c)
	if err != nil {
		return helper.FromError(c, err, ac.DevMode)
	}
	actorID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.FromError(c, err, ac.DevMode)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid UUID format")
	}
	var req userdto.SetActiveRequest
	if err := c.BodyParser(&req); err != nil || req.IsActive == nil {
		return helper.JsonValidationError(c, "invalid payload", map[string][]string{"is_active": {"is required"}})
	}
	u, err := ac.Service.SetActive(c.UserContext(), collegeID, actorID, id, *req.IsActive)
	if err != nil {
		return helper.FromError(c, err, ac.DevMode)
	}
	return helper.JsonUpdated(c, "User updated successfully", userdto.FromModel(u))
}

// file: internals/features/users/users/dto/user_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"campusevents_backend/internals/constants"
	"campusevents_backend/internals/features/users/users/model"
)

// UserResponse never carries the password hash.
type UserResponse struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Role      constants.Role `json:"role"`
	CollegeID uuid.UUID      `json:"college_id"`
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
}

func FromModel(m *model.UserModel) UserResponse {
	return UserResponse{
		ID:        m.UserID,
		Name:      m.UserName,
		Email:     m.UserEmail,
		Role:      m.UserRole,
		CollegeID: m.UserCollegeID,
		IsActive:  m.UserIsActive,
		CreatedAt: m.UserCreatedAt,
	}
}

func FromModels(rows []model.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

/* ===================== Create (admin) ===================== */

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=ORGANIZER STUDENT"`
}

func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
}

func (r *CreateUserRequest) Validate(v *validator.Validate) error {
	return v.Struct(r)
}

func (r *CreateUserRequest) ToModel(collegeID uuid.UUID, passwordHash string) *model.UserModel {
	role, _ := constants.ParseRole(r.Role)
	return &model.UserModel{
		UserName:         r.Name,
		UserEmail:        r.Email,
		UserPasswordHash: passwordHash,
		UserRole:         role,
		UserCollegeID:    collegeID,
		UserIsActive:     true,
	}
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// NormalizeEmail trims and lower-cases; every email write goes through it.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

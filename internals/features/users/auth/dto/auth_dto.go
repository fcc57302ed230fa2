package dto

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	collegeDTO "campusevents_backend/internals/features/campus/colleges/dto"
	userDTO "campusevents_backend/internals/features/users/users/dto"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = userDTO.NormalizeEmail(r.Email)
}

func (r *LoginRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

// RegisterRequest is student self sign-up; the college code picks the tenant.
type RegisterRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	CollegeCode string `json:"college_code" validate:"required,min=2,max=20,alphanum"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = userDTO.NormalizeEmail(r.Email)
	r.CollegeCode = strings.ToUpper(strings.TrimSpace(r.CollegeCode))
}

func (r *RegisterRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type SessionResponse struct {
	AccessToken string               `json:"access_token"`
	ExpiresAt   time.Time            `json:"expires_at"`
	User        userDTO.UserResponse `json:"user"`
	Landing     string               `json:"landing"`
}

type MeResponse struct {
	User    userDTO.UserResponse       `json:"user"`
	College collegeDTO.CollegeResponse `json:"college"`
	Landing string                     `json:"landing"`
}

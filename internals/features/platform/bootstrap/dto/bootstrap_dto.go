// file: internals/features/platform/bootstrap/dto/bootstrap_dto.go
package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"

	collegeDTO "campusevents_backend/internals/features/campus/colleges/dto"
	userDTO "campusevents_backend/internals/features/users/users/dto"
)

type CollegeInput struct {
	Name string  `json:"name" validate:"required,min=2,max=120"`
	Code string  `json:"code" validate:"required,min=2,max=20,alphanum"`
	Logo *string `json:"logo,omitempty" validate:"omitempty,url"`
}

type AdminInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// BootstrapRequest is the first-run payload: one college and its admin.
type BootstrapRequest struct {
	College CollegeInput `json:"college"`
	Admin   AdminInput   `json:"admin"`
}

// NormalizeCode trims and upper-cases a college code.
func NormalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Normalize must run before Validate. Password is left untouched.
func (r *BootstrapRequest) Normalize() {
	r.College.Name = strings.TrimSpace(r.College.Name)
	r.College.Code = NormalizeCode(r.College.Code)
	if r.College.Logo != nil {
		logo := strings.TrimSpace(*r.College.Logo)
		if logo == "" {
			r.College.Logo = nil
		} else {
			r.College.Logo = &logo
		}
	}
	r.Admin.Name = strings.TrimSpace(r.Admin.Name)
	r.Admin.Email = userDTO.NormalizeEmail(r.Admin.Email)
}

func (r *BootstrapRequest) Validate(v *validator.Validate) error {
	return v.Struct(r)
}

type BootstrapResponse struct {
	College collegeDTO.CollegeResponse `json:"college"`
	Admin   userDTO.UserResponse       `json:"admin"`
}

type StatusResponse struct {
	Initialized bool `json:"initialized"`
}

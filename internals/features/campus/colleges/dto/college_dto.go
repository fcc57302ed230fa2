// file: internals/features/campus/colleges/dto/college_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"campusevents_backend/internals/features/campus/colleges/model"
)

/* ===================== Response ===================== */

type CollegeResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Logo      *string   `json:"logo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromModel(m *model.CollegeModel) CollegeResponse {
	return CollegeResponse{
		ID:        m.CollegeID,
		Name:      m.CollegeName,
		Code:      m.CollegeCode,
		Logo:      m.CollegeLogoURL,
		CreatedAt: m.CollegeCreatedAt,
		UpdatedAt: m.CollegeUpdatedAt,
	}
}

/* ===================== Patch ===================== */

// PatchCollegeRequest: code is immutable once bootstrapped.
type PatchCollegeRequest struct {
	Name *string `json:"name" validate:"omitempty,min=2,max=120"`
	Logo *string `json:"logo" validate:"omitempty,url"`
}

func (r *PatchCollegeRequest) Normalize() {
	if r.Name != nil {
		s := strings.TrimSpace(*r.Name)
		r.Name = &s
	}
	if r.Logo != nil {
		s := strings.TrimSpace(*r.Logo)
		r.Logo = &s
	}
}

func (r *PatchCollegeRequest) Validate(v *validator.Validate) error {
	cp := *r
	// "" clears the logo
	if cp.Logo != nil && *cp.Logo == "" {
		cp.Logo = nil
	}
	return v.Struct(&cp)
}

// Apply returns the column updates; an empty logo clears it.
func (r *PatchCollegeRequest) Apply() map[string]any {
	up := map[string]any{}
	if r.Name != nil {
		up["college_name"] = *r.Name
	}
	if r.Logo != nil {
		if *r.Logo == "" {
			up["college_logo_url"] = nil
			up["college_logo_object_key"] = nil
		} else {
			up["college_logo_url"] = *r.Logo
			up["college_logo_object_key"] = nil
		}
	}
	return up
}

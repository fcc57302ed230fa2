package dto

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"campusevents_backend/internals/features/campus/clubs/model"
)

/* ===================== Response ===================== */

type ClubResponse struct {
	ID          uuid.UUID  `json:"id"`
	CollegeID   uuid.UUID  `json:"college_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	OrganizerID *uuid.UUID `json:"organizer_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func FromModel(m *model.ClubModel) ClubResponse {
	return ClubResponse{
		ID:          m.ClubID,
		CollegeID:   m.ClubCollegeID,
		Name:        m.ClubName,
		Description: m.ClubDescription,
		OrganizerID: m.ClubOrganizerID,
		CreatedAt:   m.ClubCreatedAt,
		UpdatedAt:   m.ClubUpdatedAt,
	}
}

func FromModels(rows []model.ClubModel) []ClubResponse {
	out := make([]ClubResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

/* ===================== Create ===================== */

type CreateClubRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	OrganizerID *string `json:"organizer_id" validate:"omitempty,uuid"`
}

func (r *CreateClubRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = trimOrNil(r.Description)
	r.OrganizerID = trimOrNil(r.OrganizerID)
}

func (r *CreateClubRequest) Validate(v *validator.Validate) error {
	return v.Struct(r)
}

// Organizer returns the parsed organizer id, or nil.
func (r *CreateClubRequest) Organizer() *uuid.UUID {
	return parseID(r.OrganizerID)
}

func (r *CreateClubRequest) ToModel(collegeID uuid.UUID) *model.ClubModel {
	return &model.ClubModel{
		ClubCollegeID:   collegeID,
		ClubName:        r.Name,
		ClubDescription: r.Description,
		ClubOrganizerID: r.Organizer(),
	}
}

/* ===================== Patch ===================== */

// PatchClubRequest: absent fields are untouched; "" clears description / organizer.
type PatchClubRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=120"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	OrganizerID *string `json:"organizer_id" validate:"omitempty,uuid"`
}

func (r *PatchClubRequest) Normalize() {
	for _, p := range []*string{r.Name, r.Description, r.OrganizerID} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
}

func (r *PatchClubRequest) Validate(v *validator.Validate) error {
	cp := *r
	if cp.OrganizerID != nil && *cp.OrganizerID == "" {
		cp.OrganizerID = nil
	}
	return v.Struct(&cp)
}

// Organizer: (nil, false) untouched, (nil, true) cleared, (id, true) assigned.
func (r *PatchClubRequest) Organizer() (*uuid.UUID, bool) {
	if r.OrganizerID == nil {
		return nil, false
	}
	return parseID(r.OrganizerID), true
}

func (r *PatchClubRequest) Apply() map[string]any {
	up := map[string]any{}
	if r.Name != nil {
		up["club_name"] = *r.Name
	}
	if r.Description != nil {
		if *r.Description == "" {
			up["club_description"] = nil
		} else {
			up["club_description"] = *r.Description
		}
	}
	if id, set := r.Organizer(); set {
		if id == nil {
			up["club_organizer_id"] = nil
		} else {
			up["club_organizer_id"] = *id
		}
	}
	return up
}

func trimOrNil(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}

func parseID(p *string) *uuid.UUID {
	if p == nil || *p == "" {
		return nil
	}
	id, err := uuid.Parse(*p)
	if err != nil {
		return nil
	}
	return &id
}

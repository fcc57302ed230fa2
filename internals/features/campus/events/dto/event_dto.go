package dto

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"campusevents_backend/internals/features/campus/events/model"
)

/* ===================== Response ===================== */

type EventResponse struct {
	ID          uuid.UUID  `json:"id"`
	CollegeID   uuid.UUID  `json:"college_id"`
	ClubID      uuid.UUID  `json:"club_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Venue       *string    `json:"venue,omitempty"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Fee         int64      `json:"fee"`
	Currency    string     `json:"currency"`
	IsFree      bool       `json:"is_free"`
	Capacity    *int       `json:"capacity,omitempty"`
	IsPublished bool       `json:"is_published"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func FromModel(m *model.EventModel) EventResponse {
	return EventResponse{
		ID:          m.EventID,
		CollegeID:   m.EventCollegeID,
		ClubID:      m.EventClubID,
		Title:       m.EventTitle,
		Description: m.EventDescription,
		Venue:       m.EventVenue,
		StartsAt:    m.EventStartsAt,
		EndsAt:      m.EventEndsAt,
		Fee:         m.EventFee,
		Currency:    m.EventCurrency,
		IsFree:      m.IsFree(),
		Capacity:    m.EventCapacity,
		IsPublished: m.EventIsPublished,
		CreatedAt:   m.EventCreatedAt,
		UpdatedAt:   m.EventUpdatedAt,
	}
}

func FromModels(rows []model.EventModel) []EventResponse {
	out := make([]EventResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

/* ===================== Create ===================== */

// CreateEventRequest: fee is in minor units (paise); 0 makes the event free.
type CreateEventRequest struct {
	ClubID      string     `json:"club_id" validate:"required,uuid"`
	Title       string     `json:"title" validate:"required,min=3,max=160"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Venue       *string    `json:"venue" validate:"omitempty,max=160"`
	StartsAt    time.Time  `json:"starts_at" validate:"required"`
	EndsAt      *time.Time `json:"ends_at"`
	Fee         int64      `json:"fee" validate:"gte=0"`
	Currency    string     `json:"currency" validate:"omitempty,len=3,alpha"`
	Capacity    *int       `json:"capacity" validate:"omitempty,min=1"`
	IsPublished bool       `json:"is_published"`
}

func (r *CreateEventRequest) Normalize(defaultCurrency string) {
	r.ClubID = strings.TrimSpace(r.ClubID)
	r.Title = strings.TrimSpace(r.Title)
	r.Description = trimOrNil(r.Description)
	r.Venue = trimOrNil(r.Venue)
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	if r.Currency == "" {
		r.Currency = defaultCurrency
	}
	r.StartsAt = r.StartsAt.UTC()
	if r.EndsAt != nil {
		t := r.EndsAt.UTC()
		r.EndsAt = &t
	}
}

func (r *CreateEventRequest) Validate(v *validator.Validate) error {
	return v.Struct(r)
}

func (r *CreateEventRequest) ToModel(collegeID, clubID uuid.UUID) *model.EventModel {
	return &model.EventModel{
		EventCollegeID:   collegeID,
		EventClubID:      clubID,
		EventTitle:       r.Title,
		EventDescription: r.Description,
		EventVenue:       r.Venue,
		EventStartsAt:    r.StartsAt,
		EventEndsAt:      r.EndsAt,
		EventFee:         r.Fee,
		EventCurrency:    r.Currency,
		EventCapacity:    r.Capacity,
		EventIsPublished: r.IsPublished,
	}
}

/* ===================== Patch ===================== */

// PatchEventRequest: absent fields are untouched. The owning club cannot change.
type PatchEventRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=3,max=160"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Venue       *string    `json:"venue" validate:"omitempty,max=160"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Fee         *int64     `json:"fee" validate:"omitempty,gte=0"`
	Currency    *string    `json:"currency" validate:"omitempty,len=3,alpha"`
	Capacity    *int       `json:"capacity" validate:"omitempty,min=1"`
	IsPublished *bool      `json:"is_published"`
}

func (r *PatchEventRequest) Normalize() {
	for _, p := range []*string{r.Title, r.Description, r.Venue} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	if r.Currency != nil {
		*r.Currency = strings.ToUpper(strings.TrimSpace(*r.Currency))
	}
	if r.StartsAt != nil {
		t := r.StartsAt.UTC()
		r.StartsAt = &t
	}
	if r.EndsAt != nil {
		t := r.EndsAt.UTC()
		r.EndsAt = &t
	}
}

func (r *PatchEventRequest) Validate(v *validator.Validate) error {
	return v.Struct(r)
}

// ApplyTo mutates m in place and returns the column updates.
func (r *PatchEventRequest) ApplyTo(m *model.EventModel) map[string]any {
	up := map[string]any{}
	if r.Title != nil {
		m.EventTitle = *r.Title
		up["event_title"] = m.EventTitle
	}
	if r.Description != nil {
		m.EventDescription = nilIfEmpty(*r.Description)
		up["event_description"] = m.EventDescription
	}
	if r.Venue != nil {
		m.EventVenue = nilIfEmpty(*r.Venue)
		up["event_venue"] = m.EventVenue
	}
	if r.StartsAt != nil {
		m.EventStartsAt = *r.StartsAt
		up["event_starts_at"] = m.EventStartsAt
	}
	if r.EndsAt != nil {
		m.EventEndsAt = r.EndsAt
		up["event_ends_at"] = m.EventEndsAt
	}
	if r.Fee != nil {
		m.EventFee = *r.Fee
		up["event_fee"] = m.EventFee
	}
	if r.Currency != nil && *r.Currency != "" {
		m.EventCurrency = *r.Currency
		up["event_currency"] = m.EventCurrency
	}
	if r.Capacity != nil {
		m.EventCapacity = r.Capacity
		up["event_capacity"] = m.EventCapacity
	}
	if r.IsPublished != nil {
		m.EventIsPublished = *r.IsPublished
		up["event_is_published"] = m.EventIsPublished
	}
	return up
}

func trimOrNil(p *string) *string {
	if p == nil {
		return nil
	}
	return nilIfEmpty(strings.TrimSpace(*p))
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

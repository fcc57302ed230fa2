package dto

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"campusevents_backend/internals/features/campus/registrations/model"
	"campusevents_backend/internals/features/finance/payments/gateway"
)

type CreateRegistrationRequest struct {
	EventID string `json:"event_id" validate:"required,uuid"`
}

func (r *CreateRegistrationRequest) Normalize() {
	r.EventID = strings.TrimSpace(r.EventID)
}

func (r *CreateRegistrationRequest) Validate(v *validator.Validate) error {
	return v.Struct(r)
}

/* ===================== Response ===================== */

type RegistrationResponse struct {
	ID               uuid.UUID           `json:"id"`
	EventID          uuid.UUID           `json:"event_id"`
	UserID           uuid.UUID           `json:"user_id"`
	PaymentID        *string             `json:"payment_id,omitempty"`
	PaymentProvider  *string             `json:"payment_provider,omitempty"`
	Amount           int64               `json:"amount"`
	Currency         string              `json:"currency"`
	PaymentStatus    model.PaymentStatus `json:"payment_status"`
	PaymentUpdatedAt *time.Time          `json:"payment_updated_at,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

func FromModel(m *model.RegistrationModel) RegistrationResponse {
	return RegistrationResponse{
		ID:               m.RegistrationID,
		EventID:          m.RegistrationEventID,
		UserID:           m.RegistrationUserID,
		PaymentID:        m.RegistrationPaymentID,
		PaymentProvider:  m.RegistrationPaymentProvider,
		Amount:           m.RegistrationAmount,
		Currency:         m.RegistrationCurrency,
		PaymentStatus:    m.RegistrationPaymentStatus,
		PaymentUpdatedAt: m.RegistrationPaymentUpdatedAt,
		CreatedAt:        m.RegistrationCreatedAt,
	}
}

// CheckoutResponse: Order is nil for free events.
type CheckoutResponse struct {
	Registration RegistrationResponse `json:"registration"`
	Order        *gateway.Order       `json:"order,omitempty"`
}

/* ===================== Listing rows ===================== */

// MyRegistrationRow is a registration joined with its event.
type MyRegistrationRow struct {
	model.RegistrationModel
	EventTitle    string    `gorm:"column:event_title" json:"event_title"`
	EventStartsAt time.Time `gorm:"column:event_starts_at" json:"event_starts_at"`
	EventVenue    *string   `gorm:"column:event_venue" json:"event_venue,omitempty"`
}

type MyRegistrationResponse struct {
	RegistrationResponse
	EventTitle    string    `json:"event_title"`
	EventStartsAt time.Time `json:"event_starts_at"`
	EventVenue    *string   `json:"event_venue,omitempty"`
}

func FromMyRows(rows []MyRegistrationRow) []MyRegistrationResponse {
	out := make([]MyRegistrationResponse, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		out = append(out, MyRegistrationResponse{
			RegistrationResponse: FromModel(&r.RegistrationModel),
			EventTitle:           r.EventTitle,
			EventStartsAt:        r.EventStartsAt,
			EventVenue:           r.EventVenue,
		})
	}
	return out
}

// AttendeeRow is a registration joined with its user.
type AttendeeRow struct {
	model.RegistrationModel
	UserName  string `gorm:"column:user_name" json:"user_name"`
	UserEmail string `gorm:"column:user_email" json:"user_email"`
}

type AttendeeResponse struct {
	RegistrationResponse
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

func FromAttendeeRows(rows []AttendeeRow) []AttendeeResponse {
	out := make([]AttendeeResponse, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		out = append(out, AttendeeResponse{
			RegistrationResponse: FromModel(&r.RegistrationModel),
			UserName:             r.UserName,
			UserEmail:            r.UserEmail,
		})
	}
	return out
}

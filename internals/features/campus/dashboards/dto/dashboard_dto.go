// file: internals/features/campus/dashboards/dto/dashboard_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	regModel "campusevents_backend/internals/features/campus/registrations/model"
)

// StatusCounts buckets registrations by payment status.
type StatusCounts struct {
	Pending int64 `json:"pending"`
	Paid    int64 `json:"paid"`
	Failed  int64 `json:"failed"`
	Total   int64 `json:"total"`
}

// StatusRow is one GROUP BY line.
type StatusRow struct {
	Status regModel.PaymentStatus `gorm:"column:status"`
	N      int64                  `gorm:"column:n"`
}

func FromStatusRows(rows []StatusRow) StatusCounts {
	var out StatusCounts
	for _, r := range rows {
		switch r.Status {
		case regModel.PaymentPending:
			out.Pending += r.N
		case regModel.PaymentPaid:
			out.Paid += r.N
		case regModel.PaymentFailed:
			out.Failed += r.N
		}
		out.Total += r.N
	}
	return out
}

// Revenue is the PAID amount per currency, in minor units.
type Revenue struct {
	Currency string `gorm:"column:currency" json:"currency"`
	Amount   int64  `gorm:"column:amount" json:"amount"`
}

/* ===================== Admin ===================== */

type AdminSummary struct {
	Organizers      int64        `json:"organizers"`
	Students        int64        `json:"students"`
	Clubs           int64        `json:"clubs"`
	Events          int64        `json:"events"`
	PublishedEvents int64        `json:"published_events"`
	UpcomingEvents  int64        `json:"upcoming_events"`
	Registrations   StatusCounts `json:"registrations"`
	Revenue         []Revenue    `json:"revenue"`
	FailedWebhooks  int64        `json:"failed_webhooks"`
}

/* ===================== Organiser ===================== */

type ClubSummary struct {
	ID             uuid.UUID `gorm:"column:club_id" json:"id"`
	Name           string    `gorm:"column:club_name" json:"name"`
	Events         int64     `gorm:"column:events" json:"events"`
	UpcomingEvents int64     `gorm:"column:upcoming_events" json:"upcoming_events"`
}

type OrganiserSummary struct {
	Clubs         []ClubSummary `json:"clubs"`
	Registrations StatusCounts  `json:"registrations"`
	Revenue       []Revenue     `json:"revenue"`
	NextEvents    []EventEntry  `json:"next_events"`
}

type EventEntry struct {
	ID            uuid.UUID `gorm:"column:event_id" json:"id"`
	Title         string    `gorm:"column:event_title" json:"title"`
	StartsAt      time.Time `gorm:"column:event_starts_at" json:"starts_at"`
	Venue         *string   `gorm:"column:event_venue" json:"venue,omitempty"`
	Registrations int64     `gorm:"column:registrations" json:"registrations"`
}

/* ===================== Student ===================== */

type UpcomingRegistration struct {
	RegistrationID uuid.UUID              `gorm:"column:registration_id" json:"registration_id"`
	EventID        uuid.UUID              `gorm:"column:event_id" json:"event_id"`
	Title          string                 `gorm:"column:event_title" json:"title"`
	StartsAt       time.Time              `gorm:"column:event_starts_at" json:"starts_at"`
	Venue          *string                `gorm:"column:event_venue" json:"venue,omitempty"`
	PaymentStatus  regModel.PaymentStatus `gorm:"column:registration_payment_status" json:"payment_status"`
}

type StudentSummary struct {
	Registrations StatusCounts           `json:"registrations"`
	Upcoming      []UpcomingRegistration `json:"upcoming"`
	OpenEvents    int64                  `json:"open_events"`
}

// file: internals/features/campus/events/model/event_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventModel struct {
	EventID        uuid.UUID `gorm:"type:uuid;primaryKey;column:event_id" json:"event_id"`
	EventCollegeID uuid.UUID `gorm:"type:uuid;not null;index:idx_events_college_starts,priority:1;column:event_college_id" json:"event_college_id"`
	EventClubID    uuid.UUID `gorm:"type:uuid;not null;index;column:event_club_id" json:"event_club_id"`

	EventTitle       string  `gorm:"type:varchar(160);not null;column:event_title" json:"event_title"`
	EventDescription *string `gorm:"type:text;column:event_description" json:"event_description,omitempty"`
	EventVenue       *string `gorm:"type:varchar(160);column:event_venue" json:"event_venue,omitempty"`

	EventStartsAt time.Time  `gorm:"not null;index:idx_events_college_starts,priority:2;column:event_starts_at" json:"event_starts_at"`
	EventEndsAt   *time.Time `gorm:"column:event_ends_at" json:"event_ends_at,omitempty"`

	// minor units (paise); 0 = free
	EventFee      int64  `gorm:"not null;column:event_fee" json:"event_fee"`
	EventCurrency string `gorm:"type:varchar(3);not null;column:event_currency" json:"event_currency"`
	EventCapacity *int   `gorm:"column:event_capacity" json:"event_capacity,omitempty"`

	EventIsPublished bool `gorm:"not null;column:event_is_published" json:"event_is_published"`

	EventCreatedAt time.Time      `gorm:"column:event_created_at;autoCreateTime" json:"event_created_at"`
	EventUpdatedAt time.Time      `gorm:"column:event_updated_at;autoUpdateTime" json:"event_updated_at"`
	EventDeletedAt gorm.DeletedAt `gorm:"column:event_deleted_at;index" json:"event_deleted_at,omitempty"`
}

func (EventModel) TableName() string { return "events" }

func (m *EventModel) BeforeCreate(tx *gorm.DB) error {
	if m.EventID == uuid.Nil {
		m.EventID = uuid.New()
	}
	return nil
}

func (m *EventModel) IsFree() bool { return m.EventFee <= 0 }

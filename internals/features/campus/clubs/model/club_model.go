// file: internals/features/campus/clubs/model/club_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClubModel struct {
	ClubID          uuid.UUID  `gorm:"type:uuid;primaryKey;column:club_id" json:"club_id"`
	ClubCollegeID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_clubs_college_name,priority:1;column:club_college_id" json:"club_college_id"`
	ClubName        string     `gorm:"type:varchar(120);not null;uniqueIndex:uq_clubs_college_name,priority:2;column:club_name" json:"club_name"`
	ClubDescription *string    `gorm:"type:text;column:club_description" json:"club_description,omitempty"`
	ClubOrganizerID *uuid.UUID `gorm:"type:uuid;index;column:club_organizer_id" json:"club_organizer_id,omitempty"`

	ClubCreatedAt time.Time      `gorm:"column:club_created_at;autoCreateTime" json:"club_created_at"`
	ClubUpdatedAt time.Time      `gorm:"column:club_updated_at;autoUpdateTime" json:"club_updated_at"`
	ClubDeletedAt gorm.DeletedAt `gorm:"column:club_deleted_at;index" json:"club_deleted_at,omitempty"`
}

func (ClubModel) TableName() string { return "clubs" }

func (m *ClubModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClubID == uuid.Nil {
		m.ClubID = uuid.New()
	}
	return nil
}

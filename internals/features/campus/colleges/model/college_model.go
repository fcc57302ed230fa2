// file: internals/features/campus/colleges/model/college_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CollegeModel is the tenant root. Code is stored upper-cased and is unique platform-wide.
type CollegeModel struct {
	CollegeID      uuid.UUID `gorm:"type:uuid;primaryKey;column:college_id" json:"college_id"`
	CollegeName    string    `gorm:"type:varchar(120);not null;column:college_name" json:"college_name"`
	CollegeCode    string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_colleges_code;column:college_code" json:"college_code"`
	CollegeLogoURL *string   `gorm:"type:text;column:college_logo_url" json:"college_logo_url,omitempty"`

	// object key of an uploaded logo, used to clean up the previous object on replace
	CollegeLogoObjectKey *string `gorm:"type:text;column:college_logo_object_key" json:"-"`

	CollegeCreatedAt time.Time `gorm:"column:college_created_at;autoCreateTime" json:"college_created_at"`
	CollegeUpdatedAt time.Time `gorm:"column:college_updated_at;autoUpdateTime" json:"college_updated_at"`
}

func (CollegeModel) TableName() string { return "colleges" }

func (m *CollegeModel) BeforeCreate(tx *gorm.DB) error {
	if m.CollegeID == uuid.Nil {
		m.CollegeID = uuid.New()
	}
	return nil
}

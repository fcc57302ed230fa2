// file: internals/features/platform/bootstrap/model/platform_bootstrap_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// PlatformKey is the only primary key value the table ever holds.
const PlatformKey = "platform"

// PlatformBootstrapModel is a singleton row. Its primary key makes a second
// bootstrap fail at the storage level, whatever the count check saw.
type PlatformBootstrapModel struct {
	PlatformBootstrapKey       string    `gorm:"type:varchar(32);primaryKey;column:platform_bootstrap_key" json:"platform_bootstrap_key"`
	PlatformBootstrapCollegeID uuid.UUID `gorm:"type:uuid;not null;column:platform_bootstrap_college_id" json:"platform_bootstrap_college_id"`
	PlatformBootstrapAdminID   uuid.UUID `gorm:"type:uuid;not null;column:platform_bootstrap_admin_id" json:"platform_bootstrap_admin_id"`
	PlatformBootstrapCreatedAt time.Time `gorm:"column:platform_bootstrap_created_at;autoCreateTime" json:"platform_bootstrap_created_at"`
}

func (PlatformBootstrapModel) TableName() string { return "platform_bootstrap" }

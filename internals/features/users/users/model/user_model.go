// file: internals/features/users/users/model/user_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"campusevents_backend/internals/constants"
)

type UserModel struct {
	UserID           uuid.UUID      `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	UserName         string         `gorm:"type:varchar(100);not null;column:user_name" json:"user_name"`
	UserEmail        string         `gorm:"type:varchar(255);not null;uniqueIndex:uq_users_email;column:user_email" json:"user_email"`
	UserPasswordHash string         `gorm:"type:text;not null;column:user_password_hash" json:"-"`
	UserRole         constants.Role `gorm:"type:varchar(16);not null;index:idx_users_college_role,priority:2;column:user_role" json:"user_role"`
	UserCollegeID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_users_college_role,priority:1;column:user_college_id" json:"user_college_id"`
	UserGoogleID     *string        `gorm:"type:varchar(64);uniqueIndex:uq_users_google_id;column:user_google_id" json:"-"`
	UserIsActive     bool           `gorm:"not null;column:user_is_active" json:"user_is_active"`

	UserCreatedAt time.Time `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UserUpdatedAt time.Time `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) BeforeCreate(tx *gorm.DB) error {
	if m.UserID == uuid.Nil {
		m.UserID = uuid.New()
	}
	return nil
}

// file: internals/features/campus/registrations/model/registration_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegistrationModel struct {
	RegistrationID        uuid.UUID `gorm:"type:uuid;primaryKey;column:registration_id" json:"registration_id"`
	RegistrationEventID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_registrations_event_user,priority:1;column:registration_event_id" json:"registration_event_id"`
	RegistrationUserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_registrations_event_user,priority:2;index;column:registration_user_id" json:"registration_user_id"`
	RegistrationCollegeID uuid.UUID `gorm:"type:uuid;not null;index;column:registration_college_id" json:"registration_college_id"`

	// gateway order id; the webhook matches on this column
	RegistrationPaymentID       *string `gorm:"type:varchar(64);index:idx_registrations_payment_id;column:registration_payment_id" json:"registration_payment_id,omitempty"`
	RegistrationPaymentProvider *string `gorm:"type:varchar(16);column:registration_payment_provider" json:"registration_payment_provider,omitempty"`
	RegistrationAmount          int64   `gorm:"not null;column:registration_amount" json:"registration_amount"`
	RegistrationCurrency        string  `gorm:"type:varchar(3);not null;column:registration_currency" json:"registration_currency"`

	RegistrationPaymentStatus    PaymentStatus `gorm:"type:varchar(16);not null;index;column:registration_payment_status" json:"registration_payment_status"`
	RegistrationPaymentUpdatedAt *time.Time    `gorm:"column:registration_payment_updated_at" json:"registration_payment_updated_at,omitempty"`

	RegistrationCreatedAt time.Time `gorm:"column:registration_created_at;autoCreateTime" json:"registration_created_at"`
	RegistrationUpdatedAt time.Time `gorm:"column:registration_updated_at;autoUpdateTime" json:"registration_updated_at"`
}

func (RegistrationModel) TableName() string { return "registrations" }

func (m *RegistrationModel) BeforeCreate(tx *gorm.DB) error {
	if m.RegistrationID == uuid.Nil {
		m.RegistrationID = uuid.New()
	}
	if m.RegistrationPaymentStatus == "" {
		m.RegistrationPaymentStatus = PaymentPending
	}
	return nil
}

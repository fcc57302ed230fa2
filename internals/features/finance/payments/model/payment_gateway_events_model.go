// file: internals/features/finance/payments/model/payment_gateway_events_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*
  payment_gateway_events = audit log of verified gateway webhooks
  - one row per delivery; (provider, external_id) is unique when the gateway sends an event id
  - raw headers/payload kept for replay and debugging
*/

type PaymentGatewayEventModel struct {
	GatewayEventID uuid.UUID `gorm:"column:gateway_event_id;type:uuid;primaryKey" json:"gateway_event_id"`

	GatewayEventProvider   PaymentGatewayProvider `gorm:"column:gateway_event_provider;type:varchar(16);not null;uniqueIndex:uq_gateway_events_provider_external,priority:1" json:"gateway_event_provider"`
	GatewayEventExternalID *string                `gorm:"column:gateway_event_external_id;type:varchar(128);uniqueIndex:uq_gateway_events_provider_external,priority:2" json:"gateway_event_external_id,omitempty"`
	GatewayEventType       *string                `gorm:"column:gateway_event_type;type:varchar(64)" json:"gateway_event_type,omitempty"`
	GatewayEventOrderID    *string                `gorm:"column:gateway_event_order_id;type:varchar(64);index" json:"gateway_event_order_id,omitempty"`

	GatewayEventHeaders   datatypes.JSON `gorm:"column:gateway_event_headers" json:"gateway_event_headers,omitempty"`
	GatewayEventPayload   datatypes.JSON `gorm:"column:gateway_event_payload" json:"gateway_event_payload,omitempty"`
	GatewayEventSignature *string        `gorm:"column:gateway_event_signature;type:text" json:"gateway_event_signature,omitempty"`

	GatewayEventStatus               GatewayEventStatus `gorm:"column:gateway_event_status;type:varchar(16);not null;index" json:"gateway_event_status"`
	GatewayEventError                *string            `gorm:"column:gateway_event_error;type:text" json:"gateway_event_error,omitempty"`
	GatewayEventTryCount             int                `gorm:"column:gateway_event_try_count;not null" json:"gateway_event_try_count"`
	GatewayEventRegistrationsUpdated int64              `gorm:"column:gateway_event_registrations_updated;not null" json:"gateway_event_registrations_updated"`

	GatewayEventReceivedAt  time.Time  `gorm:"column:gateway_event_received_at;not null;index" json:"gateway_event_received_at"`
	GatewayEventProcessedAt *time.Time `gorm:"column:gateway_event_processed_at" json:"gateway_event_processed_at,omitempty"`

	GatewayEventCreatedAt time.Time `gorm:"column:gateway_event_created_at;autoCreateTime" json:"gateway_event_created_at"`
	GatewayEventUpdatedAt time.Time `gorm:"column:gateway_event_updated_at;autoUpdateTime" json:"gateway_event_updated_at"`
}

func (PaymentGatewayEventModel) TableName() string {
	return "payment_gateway_events"
}

func (m *PaymentGatewayEventModel) BeforeCreate(tx *gorm.DB) error {
	if m.GatewayEventID == uuid.Nil {
		m.GatewayEventID = uuid.New()
	}
	if m.GatewayEventReceivedAt.IsZero() {
		m.GatewayEventReceivedAt = time.Now().UTC()
	}
	if m.GatewayEventStatus == "" {
		m.GatewayEventStatus = GatewayEventStatusReceived
	}
	return nil
}

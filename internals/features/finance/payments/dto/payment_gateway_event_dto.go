package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"campusevents_backend/internals/features/finance/payments/model"
)

// PaymentGatewayEventResponse is the admin view of one webhook delivery.
// Headers are left out of the list view; the detail view includes them.
type PaymentGatewayEventResponse struct {
	ID                   uuid.UUID                    `json:"id"`
	Provider             model.PaymentGatewayProvider `json:"provider"`
	ExternalID           *string                      `json:"external_id,omitempty"`
	Type                 *string                      `json:"type,omitempty"`
	OrderID              *string                      `json:"order_id,omitempty"`
	Status               model.GatewayEventStatus     `json:"status"`
	Error                *string                      `json:"error,omitempty"`
	TryCount             int                          `json:"try_count"`
	RegistrationsUpdated int64                        `json:"registrations_updated"`
	ReceivedAt           time.Time                    `json:"received_at"`
	ProcessedAt          *time.Time                   `json:"processed_at,omitempty"`

	Headers datatypes.JSON `json:"headers,omitempty"`
	Payload datatypes.JSON `json:"payload,omitempty"`
}

func FromGatewayEvent(m *model.PaymentGatewayEventModel, withRaw bool) PaymentGatewayEventResponse {
	out := PaymentGatewayEventResponse{
		ID:                   m.GatewayEventID,
		Provider:             m.GatewayEventProvider,
		ExternalID:           m.GatewayEventExternalID,
		Type:                 m.GatewayEventType,
		OrderID:              m.GatewayEventOrderID,
		Status:               m.GatewayEventStatus,
		Error:                m.GatewayEventError,
		TryCount:             m.GatewayEventTryCount,
		RegistrationsUpdated: m.GatewayEventRegistrationsUpdated,
		ReceivedAt:           m.GatewayEventReceivedAt,
		ProcessedAt:          m.GatewayEventProcessedAt,
	}
	if withRaw {
		out.Headers = m.GatewayEventHeaders
		out.Payload = m.GatewayEventPayload
	}
	return out
}

func FromGatewayEvents(rows []model.PaymentGatewayEventModel) []PaymentGatewayEventResponse {
	out := make([]PaymentGatewayEventResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromGatewayEvent(&rows[i], false))
	}
	return out
}

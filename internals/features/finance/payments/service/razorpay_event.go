package service

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	regModel "campusevents_backend/internals/features/campus/registrations/model"
	"campusevents_backend/internals/features/finance/payments/model"
)

const (
	RazorpayPaymentCaptured = "payment.captured"
	RazorpayPaymentFailed   = "payment.failed"
	RazorpayOrderPaid       = "order.paid"
)

type razorpayEntity struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type razorpayWebhook struct {
	Event   string `json:"event"`
	Payload struct {
		Payment *struct {
			Entity razorpayEntity `json:"entity"`
		} `json:"payment"`
		Order *struct {
			Entity razorpayEntity `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

// RazorpayTarget maps an event name to the registration status it implies.
// Unknown events map to "" and are ignored.
func RazorpayTarget(event string) regModel.PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(event)) {
	case RazorpayPaymentCaptured, RazorpayOrderPaid:
		return regModel.PaymentPaid
	case RazorpayPaymentFailed:
		return regModel.PaymentFailed
	}
	return ""
}

// ParseRazorpay decodes an already verified body.
func ParseRazorpay(raw []byte) (Notification, error) {
	var w razorpayWebhook
	if err := sonic.Unmarshal(raw, &w); err != nil {
		return Notification{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	if strings.TrimSpace(w.Event) == "" {
		return Notification{}, fmt.Errorf("%w: missing event", ErrUnparseable)
	}

	orderID := ""
	if w.Payload.Payment != nil {
		orderID = w.Payload.Payment.Entity.OrderID
	}
	if orderID == "" && w.Payload.Order != nil {
		orderID = w.Payload.Order.Entity.ID
	}

	return Notification{
		Provider:  model.GatewayProviderRazorpay,
		EventType: w.Event,
		OrderID:   strings.TrimSpace(orderID),
		Target:    RazorpayTarget(w.Event),
		Payload:   raw,
	}, nil
}

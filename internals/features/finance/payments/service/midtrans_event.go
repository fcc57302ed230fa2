package service

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	regModel "campusevents_backend/internals/features/campus/registrations/model"
	"campusevents_backend/internals/features/finance/payments/model"
)

// MidtransNotif is the HTTP notification body Midtrans posts.
type MidtransNotif struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"` // capture, settlement, pending, deny, cancel, expire, refund, failure
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"` // accept / challenge / deny
	TransactionID     string `json:"transaction_id"`
}

func DecodeMidtrans(raw []byte) (MidtransNotif, error) {
	var n MidtransNotif
	if err := sonic.Unmarshal(raw, &n); err != nil {
		return n, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	if strings.TrimSpace(n.OrderID) == "" || strings.TrimSpace(n.TransactionStatus) == "" {
		return n, fmt.Errorf("%w: missing order_id or transaction_status", ErrUnparseable)
	}
	return n, nil
}

// MidtransTarget maps a transaction status to a registration status.
// pending, refunds and challenged captures are acknowledged without change.
func MidtransTarget(n MidtransNotif) regModel.PaymentStatus {
	switch strings.ToLower(n.TransactionStatus) {
	case "settlement":
		return regModel.PaymentPaid
	case "capture":
		switch strings.ToLower(n.FraudStatus) {
		case "accept", "":
			return regModel.PaymentPaid
		case "challenge":
			return ""
		}
		return regModel.PaymentFailed
	case "deny", "cancel", "expire", "failure":
		return regModel.PaymentFailed
	}
	return ""
}

func (n MidtransNotif) ToNotification(raw []byte) Notification {
	eventID := ""
	if n.TransactionID != "" {
		eventID = n.TransactionID + ":" + strings.ToLower(n.TransactionStatus)
	}
	return Notification{
		Provider:  model.GatewayProviderMidtrans,
		EventID:   eventID,
		EventType: strings.ToLower(n.TransactionStatus),
		OrderID:   strings.TrimSpace(n.OrderID),
		Target:    MidtransTarget(n),
		Payload:   raw,
		Signature: n.SignatureKey,
	}
}

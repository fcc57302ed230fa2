// Package gateway opens orders at the payment provider. The order id it returns
// is what the provider echoes back in webhooks.
package gateway

import (
	"context"
	"errors"
	"strings"

	"campusevents_backend/internals/configs"
	"campusevents_backend/internals/features/finance/payments/model"
)

var ErrNotConfigured = errors.New("payment gateway is not configured")

type OrderRequest struct {
	Receipt       string // registration id
	Amount        int64  // minor units
	Currency      string
	Description   string
	CustomerName  string
	CustomerEmail string
}

type Order struct {
	Provider model.PaymentGatewayProvider `json:"provider"`
	OrderID  string                       `json:"order_id"`
	Amount   int64                        `json:"amount"`
	Currency string                       `json:"currency"`
	// Snap token / redirect for Midtrans; Razorpay checkout only needs the order id and key id.
	Token       string `json:"token,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
	KeyID       string `json:"key_id,omitempty"`
}

type OrderCreator interface {
	Provider() model.PaymentGatewayProvider
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
}

// FromConfig picks the provider named by PAYMENT_PROVIDER. A provider without
// credentials yields ErrNotConfigured.
func FromConfig(cfg *configs.AppConfig) (OrderCreator, error) {
	switch model.PaymentGatewayProvider(strings.ToLower(cfg.PaymentProvider)) {
	case model.GatewayProviderMidtrans:
		if cfg.MidtransServerKey == "" {
			return nil, ErrNotConfigured
		}
		return NewMidtrans(cfg.MidtransServerKey, cfg.MidtransUseProd), nil
	case model.GatewayProviderRazorpay, "":
		if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
			return nil, ErrNotConfigured
		}
		return NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret), nil
	}
	return nil, ErrNotConfigured
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

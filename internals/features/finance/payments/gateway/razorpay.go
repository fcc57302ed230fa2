package gateway

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"

	"campusevents_backend/internals/features/finance/payments/model"
)

type Razorpay struct {
	client *razorpay.Client
	keyID  string
}

func NewRazorpay(keyID, keySecret string) *Razorpay {
	return &Razorpay{client: razorpay.NewClient(keyID, keySecret), keyID: keyID}
}

func (r *Razorpay) Provider() model.PaymentGatewayProvider { return model.GatewayProviderRazorpay }

// CreateOrder opens a Razorpay order; amount is in the smallest currency unit (paise).
func (r *Razorpay) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("razorpay: invalid amount %d", req.Amount)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := r.client.Order.Create(map[string]interface{}{
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  truncate(req.Receipt, 40),
		"notes": map[string]interface{}{
			"description": truncate(req.Description, 250),
			"email":       req.CustomerEmail,
		},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay: create order: %w", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("razorpay: order response has no id")
	}
	return &Order{
		Provider: model.GatewayProviderRazorpay,
		OrderID:  id,
		Amount:   req.Amount,
		Currency: req.Currency,
		KeyID:    r.keyID,
	}, nil
}

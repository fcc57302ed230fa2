package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"campusevents_backend/internals/features/finance/payments/model"
)

type Midtrans struct {
	snap snap.Client
}

// NewMidtrans targets Production when useProduction is set, Sandbox otherwise.
func NewMidtrans(serverKey string, useProduction bool) *Midtrans {
	m := &Midtrans{}
	if useProduction {
		m.snap.New(serverKey, midtrans.Production)
	} else {
		m.snap.New(serverKey, midtrans.Sandbox)
	}
	return m
}

func (m *Midtrans) Provider() model.PaymentGatewayProvider { return model.GatewayProviderMidtrans }

// ErrUnsupportedCurrency: Snap charges in IDR only.
var ErrUnsupportedCurrency = errors.New("midtrans: only IDR is supported")

// idrMinorUnit: amounts are stored in sen, Snap takes whole rupiah.
const idrMinorUnit = 100

// CreateOrder opens a Snap transaction. Midtrans has no separate order object,
// so the order id is ours: "REG-" + receipt.
func (m *Midtrans) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	sreq, err := buildSnapRequest(req)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, merr := m.snap.CreateTransaction(sreq)
	if merr != nil {
		return nil, fmt.Errorf("midtrans: create transaction: %s", merr.GetMessage())
	}
	return &Order{
		Provider:    model.GatewayProviderMidtrans,
		OrderID:     sreq.TransactionDetails.OrderID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
	}, nil
}

// rupiah converts a minor-unit IDR amount to the whole rupiah Snap expects.
func rupiah(amount int64, currency string) (int64, error) {
	if !strings.EqualFold(strings.TrimSpace(currency), "IDR") {
		return 0, fmt.Errorf("%w (got %q)", ErrUnsupportedCurrency, currency)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("midtrans: invalid amount %d", amount)
	}
	if amount%idrMinorUnit != 0 {
		return 0, fmt.Errorf("midtrans: amount %d sen is not a whole rupiah", amount)
	}
	return amount / idrMinorUnit, nil
}

func buildSnapRequest(req OrderRequest) (*snap.Request, error) {
	gross, err := rupiah(req.Amount, req.Currency)
	if err != nil {
		return nil, err
	}
	return &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  truncate("REG-"+req.Receipt, 50),
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.CustomerName,
			Email: req.CustomerEmail,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    truncate(req.Receipt, 50),
			Price: gross,
			Qty:   1,
			Name:  truncate(req.Description, 50),
		}},
	}, nil
}

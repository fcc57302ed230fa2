package model

type PaymentGatewayProvider string
type GatewayEventStatus string

const (
	GatewayProviderRazorpay PaymentGatewayProvider = "razorpay"
	GatewayProviderMidtrans PaymentGatewayProvider = "midtrans"
)

func (p PaymentGatewayProvider) Valid() bool {
	return p == GatewayProviderRazorpay || p == GatewayProviderMidtrans
}

const (
	GatewayEventStatusReceived  GatewayEventStatus = "received"
	GatewayEventStatusProcessed GatewayEventStatus = "processed"
	GatewayEventStatusIgnored   GatewayEventStatus = "ignored"
	GatewayEventStatusFailed    GatewayEventStatus = "failed"
)

func (s GatewayEventStatus) Valid() bool {
	switch s {
	case GatewayEventStatusReceived, GatewayEventStatusProcessed, GatewayEventStatusIgnored, GatewayEventStatusFailed:
		return true
	}
	return false
}

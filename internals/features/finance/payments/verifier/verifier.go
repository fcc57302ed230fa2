// file: internals/features/finance/payments/verifier/verifier.go
package verifier

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"strings"
)

const (
	RazorpaySignatureHeader = "X-Razorpay-Signature"
	RazorpayEventIDHeader   = "X-Razorpay-Event-Id"
)

// VerifyRazorpay checks HMAC-SHA256(secret, rawBody) against the hex signature header.
// rawBody must be the exact bytes received. Empty secret or signature fails closed.
func VerifyRazorpay(rawBody []byte, signatureHex, secret string) bool {
	if strings.TrimSpace(secret) == "" {
		return false
	}
	provided, err := hex.DecodeString(strings.TrimSpace(signatureHex))
	if err != nil || len(provided) == 0 {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(rawBody)
	return hmac.Equal(mac.Sum(nil), provided)
}

// SignRazorpay produces the header value Razorpay would send for body.
func SignRazorpay(rawBody []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(rawBody)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyMidtrans checks SHA512(order_id + status_code + gross_amount + server_key).
func VerifyMidtrans(orderID, statusCode, grossAmount, serverKey, signatureHex string) bool {
	if strings.TrimSpace(serverKey) == "" {
		return false
	}
	provided, err := hex.DecodeString(strings.TrimSpace(signatureHex))
	if err != nil || len(provided) == 0 {
		return false
	}
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hmac.Equal(sum[:], provided)
}

func SignMidtrans(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

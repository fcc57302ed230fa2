package controller

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	regModel "campusevents_backend/internals/features/campus/registrations/model"
	"campusevents_backend/internals/features/finance/payments/model"
	"campusevents_backend/internals/features/finance/payments/service"
	"campusevents_backend/internals/features/finance/payments/verifier"
	"campusevents_backend/internals/helpers/testdb"
)

const (
	webhookSecret = "whsec_test"
	serverKey     = "SB-Mid-server-test"
)

func newWebhookApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testdb.Open(t)
	ctl := NewWebhookController(service.NewReconciler(db), webhookSecret, serverKey, false)

	app := fiber.New()
	app.Post("/api/webhooks/razorpay", ctl.RazorpayWebhook)
	app.Post("/api/webhooks/midtrans", ctl.MidtransWebhook)
	return app, db
}

func seed(t *testing.T, db *gorm.DB, orderID string) uuid.UUID {
	t.Helper()
	oid := orderID
	r := regModel.RegistrationModel{
		RegistrationEventID:   uuid.New(),
		RegistrationUserID:    uuid.New(),
		RegistrationCollegeID: uuid.New(),
		RegistrationPaymentID: &oid,
		RegistrationAmount:    10000,
		RegistrationCurrency:  "INR",
	}
	require.NoError(t, db.Create(&r).Error)
	return r.RegistrationID
}

func currentStatus(t *testing.T, db *gorm.DB, id uuid.UUID) regModel.PaymentStatus {
	t.Helper()
	var r regModel.RegistrationModel
	require.NoError(t, db.First(&r, "registration_id = ?", id).Error)
	return r.RegistrationPaymentStatus
}

func post(t *testing.T, app *fiber.App, path, body string, headers map[string]string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

const capturedBody = `{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_A"}}}}`

func TestRazorpayWebhook_ValidSignatureMarksPaid(t *testing.T) {
	app, db := newWebhookApp(t)
	id := seed(t, db, "order_A")

	status, body := post(t, app, "/api/webhooks/razorpay", capturedBody, map[string]string{
		verifier.RazorpaySignatureHeader: verifier.SignRazorpay([]byte(capturedBody), webhookSecret),
		verifier.RazorpayEventIDHeader:   "evt_1",
		"Authorization":                  "Bearer should-not-be-stored",
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.JSONEq(t, `{"status":"ok"}`, body)
	assert.Equal(t, regModel.PaymentPaid, currentStatus(t, db, id))

	var ev model.PaymentGatewayEventModel
	require.NoError(t, db.First(&ev).Error)
	assert.NotContains(t, string(ev.GatewayEventHeaders), "should-not-be-stored")
	require.NotNil(t, ev.GatewayEventExternalID)
	assert.Equal(t, "evt_1", *ev.GatewayEventExternalID)
}

func TestRazorpayWebhook_BadSignatureWritesNothing(t *testing.T) {
	app, db := newWebhookApp(t)
	id := seed(t, db, "order_A")

	for _, sig := range []string{"", "zz-not-hex", verifier.SignRazorpay([]byte(capturedBody), "wrong-secret")} {
		status, body := post(t, app, "/api/webhooks/razorpay", capturedBody, map[string]string{
			verifier.RazorpaySignatureHeader: sig,
		})
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Contains(t, body, `"error"`)
	}

	assert.Equal(t, regModel.PaymentPending, currentStatus(t, db, id))
	assert.Zero(t, testdb.Count(t, db, &model.PaymentGatewayEventModel{}))
}

func TestRazorpayWebhook_SignatureCoversExactBytes(t *testing.T) {
	app, db := newWebhookApp(t)
	id := seed(t, db, "order_A")

	// same JSON, different whitespace: the signature no longer matches
	reformatted := strings.Replace(capturedBody, `{"event"`, `{ "event"`, 1)
	status, _ := post(t, app, "/api/webhooks/razorpay", reformatted, map[string]string{
		verifier.RazorpaySignatureHeader: verifier.SignRazorpay([]byte(capturedBody), webhookSecret),
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, regModel.PaymentPending, currentStatus(t, db, id))
}

func TestRazorpayWebhook_SignedGarbageIsBadRequest(t *testing.T) {
	app, db := newWebhookApp(t)
	body := `this is not json`
	status, _ := post(t, app, "/api/webhooks/razorpay", body, map[string]string{
		verifier.RazorpaySignatureHeader: verifier.SignRazorpay([]byte(body), webhookSecret),
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Zero(t, testdb.Count(t, db, &model.PaymentGatewayEventModel{}))
}

func TestRazorpayWebhook_UnknownEventAcknowledged(t *testing.T) {
	app, db := newWebhookApp(t)
	id := seed(t, db, "order_A")
	body := `{"event":"refund.created","payload":{"payment":{"entity":{"order_id":"order_A"}}}}`

	status, resp := post(t, app, "/api/webhooks/razorpay", body, map[string]string{
		verifier.RazorpaySignatureHeader: verifier.SignRazorpay([]byte(body), webhookSecret),
	})
	require.Equal(t, http.StatusOK, status, resp)
	assert.Equal(t, regModel.PaymentPending, currentStatus(t, db, id))
}

func TestMidtransWebhook(t *testing.T) {
	app, db := newWebhookApp(t)
	id := seed(t, db, "REG-1")

	sig := verifier.SignMidtrans("REG-1", "200", "10000.00", serverKey)
	body := `{"order_id":"REG-1","status_code":"200","gross_amount":"10000.00","transaction_status":"settlement","transaction_id":"tx-1","signature_key":"` + sig + `"}`

	status, resp := post(t, app, "/api/webhooks/midtrans", body, nil)
	require.Equal(t, http.StatusOK, status, resp)
	assert.Equal(t, regModel.PaymentPaid, currentStatus(t, db, id))

	forged := strings.Replace(body, sig, verifier.SignMidtrans("REG-1", "200", "10000.00", "other"), 1)
	forged = strings.Replace(forged, "settlement", "expire", 1)
	status, _ = post(t, app, "/api/webhooks/midtrans", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, regModel.PaymentPaid, currentStatus(t, db, id))
}

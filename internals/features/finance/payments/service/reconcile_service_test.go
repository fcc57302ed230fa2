package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	regModel "campusevents_backend/internals/features/campus/registrations/model"
	"campusevents_backend/internals/features/finance/payments/model"
	"campusevents_backend/internals/helpers/testdb"
)

func seedRegistration(t *testing.T, db *gorm.DB, orderID string) regModel.RegistrationModel {
	t.Helper()
	oid := orderID
	provider := "razorpay"
	r := regModel.RegistrationModel{
		RegistrationEventID:         uuid.New(),
		RegistrationUserID:          uuid.New(),
		RegistrationCollegeID:       uuid.New(),
		RegistrationPaymentID:       &oid,
		RegistrationPaymentProvider: &provider,
		RegistrationAmount:          50000,
		RegistrationCurrency:        "INR",
	}
	require.NoError(t, db.Create(&r).Error)
	return r
}

func statusOf(t *testing.T, db *gorm.DB, id uuid.UUID) regModel.PaymentStatus {
	t.Helper()
	var r regModel.RegistrationModel
	require.NoError(t, db.First(&r, "registration_id = ?", id).Error)
	return r.RegistrationPaymentStatus
}

func razorpayNotif(event, orderID, eventID string) Notification {
	return Notification{
		Provider:  model.GatewayProviderRazorpay,
		EventID:   eventID,
		EventType: event,
		OrderID:   orderID,
		Target:    RazorpayTarget(event),
		Payload:   []byte(`{"event":"` + event + `"}`),
	}
}

func TestApply_CapturedMarksEveryMatchingRegistrationPaid(t *testing.T) {
	db := testdb.Open(t)
	rec := NewReconciler(db)

	a := seedRegistration(t, db, "order_A")
	b := seedRegistration(t, db, "order_A")
	other := seedRegistration(t, db, "order_B")

	res, err := rec.Apply(context.Background(), razorpayNotif(RazorpayPaymentCaptured, "order_A", "evt_1"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeProcessed, res.Outcome)
	assert.EqualValues(t, 2, res.Updated)

	assert.Equal(t, regModel.PaymentPaid, statusOf(t, db, a.RegistrationID))
	assert.Equal(t, regModel.PaymentPaid, statusOf(t, db, b.RegistrationID))
	assert.Equal(t, regModel.PaymentPending, statusOf(t, db, other.RegistrationID))

	var ev model.PaymentGatewayEventModel
	require.NoError(t, db.First(&ev, "gateway_event_id = ?", res.GatewayEventID).Error)
	assert.Equal(t, model.GatewayEventStatusProcessed, ev.GatewayEventStatus)
	assert.EqualValues(t, 2, ev.GatewayEventRegistrationsUpdated)
	require.NotNil(t, ev.GatewayEventProcessedAt)
}

func TestApply_SameEventTwiceIsIdempotent(t *testing.T) {
	db := testdb.Open(t)
	rec := NewReconciler(db)
	r := seedRegistration(t, db, "order_A")

	_, err := rec.Apply(context.Background(), razorpayNotif(RazorpayPaymentCaptured, "order_A", "evt_1"))
	require.NoError(t, err)

	res, err := rec.Apply(context.Background(), razorpayNotif(RazorpayPaymentCaptured, "order_A", "evt_1"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, res.Outcome)
	assert.Equal(t, regModel.PaymentPaid, statusOf(t, db, r.RegistrationID))

	assert.EqualValues(t, 1, testdb.Count(t, db, &model.PaymentGatewayEventModel{}))
	var ev model.PaymentGatewayEventModel
	require.NoError(t, db.First(&ev).Error)
	assert.Equal(t, 2, ev.GatewayEventTryCount)
}

func TestApply_WithoutEventIDReappliesHarmlessly(t *testing.T) {
	db := testdb.Open(t)
	rec := NewReconciler(db)
	r := seedRegistration(t, db, "order_A")

	for i := 0; i < 2; i++ {
		res, err := rec.Apply(context.Background(), razorpayNotif(RazorpayOrderPaid, "order_A", ""))
		require.NoError(t, err)
		assert.Equal(t, OutcomeProcessed, res.Outcome)
	}
	assert.Equal(t, regModel.PaymentPaid, statusOf(t, db, r.RegistrationID))
	assert.EqualValues(t, 2, testdb.Count(t, db, &model.PaymentGatewayEventModel{}))
}

func TestApply_LastEventWins(t *testing.T) {
	db := testdb.Open(t)
	rec := NewReconciler(db)
	r := seedRegistration(t, db, "order_A")

	_, err := rec.Apply(context.Background(), razorpayNotif(RazorpayPaymentFailed, "order_A", "evt_1"))
	require.NoError(t, err)
	assert.Equal(t, regModel.PaymentFailed, statusOf(t, db, r.RegistrationID))

	_, err = rec.Apply(context.Background(), razorpayNotif(RazorpayPaymentCaptured, "order_A", "evt_2"))
	require.NoError(t, err)
	assert.Equal(t, regModel.PaymentPaid, statusOf(t, db, r.RegistrationID))

	_, err = rec.Apply(context.Background(), razorpayNotif(RazorpayPaymentFailed, "order_A", "evt_3"))
	require.NoError(t, err)
	assert.Equal(t, regModel.PaymentFailed, statusOf(t, db, r.RegistrationID))
}

func TestApply_UnknownEventIsIgnored(t *testing.T) {
	db := testdb.Open(t)
	rec := NewReconciler(db)
	r := seedRegistration(t, db, "order_A")

	res, err := rec.Apply(context.Background(), razorpayNotif("refund.created", "order_A", "evt_9"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, res.Outcome)
	assert.Equal(t, regModel.PaymentPending, statusOf(t, db, r.RegistrationID))

	var ev model.PaymentGatewayEventModel
	require.NoError(t, db.First(&ev).Error)
	assert.Equal(t, model.GatewayEventStatusIgnored, ev.GatewayEventStatus)
}

func TestApply_NoMatchingOrderStillSucceeds(t *testing.T) {
	db := testdb.Open(t)
	rec := NewReconciler(db)

	res, err := rec.Apply(context.Background(), razorpayNotif(RazorpayPaymentCaptured, "order_missing", "evt_1"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeProcessed, res.Outcome)
	assert.Zero(t, res.Updated)
}

func TestApply_StampsPaymentUpdatedAt(t *testing.T) {
	db := testdb.Open(t)
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rec := &Reconciler{DB: db, Now: func() time.Time { return fixed }}
	r := seedRegistration(t, db, "order_A")

	_, err := rec.Apply(context.Background(), razorpayNotif(RazorpayPaymentCaptured, "order_A", "evt_1"))
	require.NoError(t, err)

	var got regModel.RegistrationModel
	require.NoError(t, db.First(&got, "registration_id = ?", r.RegistrationID).Error)
	require.NotNil(t, got.RegistrationPaymentUpdatedAt)
	assert.True(t, fixed.Equal(got.RegistrationPaymentUpdatedAt.UTC()))
}

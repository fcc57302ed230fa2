package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"campusevents_backend/internals/features/finance/payments/model"
	"campusevents_backend/internals/helpers/testdb"
)

type listBody struct {
	Data []struct {
		ID       uuid.UUID `json:"id"`
		Provider string    `json:"provider"`
		OrderID  *string   `json:"order_id"`
		Status   string    `json:"status"`
	} `json:"data"`
	Pagination struct {
		Total   int64 `json:"total"`
		PerPage int   `json:"per_page"`
		HasNext bool  `json:"has_next"`
	} `json:"pagination"`
}

func newEventsApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testdb.Open(t)
	ctl := NewPaymentGatewayEventController(db, false)
	app := fiber.New()
	app.Get("/events", ctl.List)
	app.Get("/events/:id", ctl.GetByID)
	return app, db
}

func addEvent(t *testing.T, db *gorm.DB, provider model.PaymentGatewayProvider, status model.GatewayEventStatus, orderID string, at time.Time) uuid.UUID {
	t.Helper()
	oid := orderID
	ev := model.PaymentGatewayEventModel{
		GatewayEventProvider:   provider,
		GatewayEventOrderID:    &oid,
		GatewayEventStatus:     status,
		GatewayEventReceivedAt: at,
	}
	require.NoError(t, db.Create(&ev).Error)
	return ev.GatewayEventID
}

func getList(t *testing.T, app *fiber.App, query string) (int, listBody) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/events"+query, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out listBody
	if resp.StatusCode == fiber.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func TestGatewayEventList_FiltersAndOrders(t *testing.T) {
	app, db := newEventsApp(t)
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	addEvent(t, db, model.GatewayProviderRazorpay, model.GatewayEventStatusProcessed, "order_A", base)
	latest := addEvent(t, db, model.GatewayProviderRazorpay, model.GatewayEventStatusFailed, "order_B", base.Add(time.Hour))
	addEvent(t, db, model.GatewayProviderMidtrans, model.GatewayEventStatusIgnored, "order_C", base.Add(2*time.Hour))

	code, all := getList(t, app, "")
	require.Equal(t, fiber.StatusOK, code)
	assert.EqualValues(t, 3, all.Pagination.Total)
	require.Len(t, all.Data, 3)
	assert.Equal(t, "order_C", *all.Data[0].OrderID, "newest first")

	_, rzp := getList(t, app, "?provider=razorpay")
	assert.EqualValues(t, 2, rzp.Pagination.Total)

	_, failed := getList(t, app, "?status=failed")
	require.Len(t, failed.Data, 1)
	assert.Equal(t, latest, failed.Data[0].ID)

	_, byOrder := getList(t, app, "?order_id=order_A")
	require.Len(t, byOrder.Data, 1)
	assert.Equal(t, "processed", byOrder.Data[0].Status)

	_, window := getList(t, app, "?start=2026-10-01T12:30:00Z&end=2026-10-01T13:30:00Z")
	require.Len(t, window.Data, 1)
	assert.Equal(t, latest, window.Data[0].ID)

	_, paged := getList(t, app, "?per_page=2")
	assert.Len(t, paged.Data, 2)
	assert.True(t, paged.Pagination.HasNext)
}

func TestGatewayEventList_RejectsBadFilters(t *testing.T) {
	app, _ := newEventsApp(t)
	for _, q := range []string{"?provider=stripe", "?status=lost", "?start=yesterday", "?end=2026-13-01"} {
		code, _ := getList(t, app, q)
		assert.Equal(t, fiber.StatusBadRequest, code, q)
	}
}

func TestGatewayEventGetByID(t *testing.T) {
	app, db := newEventsApp(t)
	id := addEvent(t, db, model.GatewayProviderRazorpay, model.GatewayEventStatusProcessed, "order_A", time.Now().UTC())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/events/"+id.String(), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/events/"+uuid.NewString(), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/events/not-a-uuid", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

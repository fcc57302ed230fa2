// file: internals/features/finance/payments/controller/payment_gateway_events_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"campusevents_backend/internals/features/finance/payments/dto"
	"campusevents_backend/internals/features/finance/payments/model"
	helper "campusevents_backend/internals/helpers"
)

type PaymentGatewayEventController struct {
	DB      *gorm.DB
	DevMode bool
}

func NewPaymentGatewayEventController(db *gorm.DB, devMode bool) *PaymentGatewayEventController {
	return &PaymentGatewayEventController{DB: db, DevMode: devMode}
}

/* =======================================================================
   List (filter + pagination)
   Query params:
     - provider: razorpay|midtrans
     - status: received|processed|ignored|failed
     - order_id: exact gateway order id
     - start, end: RFC3339 (filter received_at)
     - page (default 1), per_page (default 20, max 200)
======================================================================= */

func (h *PaymentGatewayEventController) List(c *fiber.Ctx) error {
	db := h.DB.WithContext(c.UserContext()).Model(&model.PaymentGatewayEventModel{})

	if p := strings.ToLower(strings.TrimSpace(c.Query("provider"))); p != "" {
		if !model.PaymentGatewayProvider(p).Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid provider")
		}
		db = db.Where("gateway_event_provider = ?", p)
	}
	if s := strings.ToLower(strings.TrimSpace(c.Query("status"))); s != "" {
		if !model.GatewayEventStatus(s).Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid status")
		}
		db = db.Where("gateway_event_status = ?", s)
	}
	if oid := strings.TrimSpace(c.Query("order_id")); oid != "" {
		db = db.Where("gateway_event_order_id = ?", oid)
	}
	if start := strings.TrimSpace(c.Query("start")); start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid start (use RFC3339)")
		}
		db = db.Where("gateway_event_received_at >= ?", t)
	}
	if end := strings.TrimSpace(c.Query("end")); end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid end (use RFC3339)")
		}
		db = db.Where("gateway_event_received_at < ?", t)
	}

	paging := helper.ResolvePaging(c, 20, 200)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return helper.FromError(c, err, h.DevMode)
	}

	var rows []model.PaymentGatewayEventModel
	if err := db.Order("gateway_event_received_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.FromError(c, err, h.DevMode)
	}

	return helper.JsonList(c, "ok", dto.FromGatewayEvents(rows), helper.BuildPagination(total, paging, len(rows)))
}

// GET /api/admin/payment-gateway-events/:id
func (h *PaymentGatewayEventController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var m model.PaymentGatewayEventModel
	if err := h.DB.WithContext(c.UserContext()).First(&m, "gateway_event_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "event not found")
		}
		return helper.FromError(c, err, h.DevMode)
	}
	return helper.JsonOK(c, "ok", dto.FromGatewayEvent(&m, true))
}

// file: internals/features/finance/payments/controller/webhook_controller.go
package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"campusevents_backend/internals/features/finance/payments/service"
	"campusevents_backend/internals/features/finance/payments/verifier"
	"campusevents_backend/internals/logger"
	"campusevents_backend/internals/metrics"
)

// WebhookController receives gateway callbacks. Every write happens only after
// the signature over the exact received bytes checks out.
type WebhookController struct {
	Reconciler            *service.Reconciler
	RazorpayWebhookSecret string
	MidtransServerKey     string
	DevMode               bool
}

func NewWebhookController(r *service.Reconciler, razorpaySecret, midtransKey string, devMode bool) *WebhookController {
	return &WebhookController{Reconciler: r, RazorpayWebhookSecret: razorpaySecret, MidtransServerKey: midtransKey, DevMode: devMode}
}

// POST /api/webhooks/razorpay
func (h *WebhookController) RazorpayWebhook(c *fiber.Ctx) error {
	raw := append([]byte(nil), c.Body()...)
	sig := c.Get(verifier.RazorpaySignatureHeader)
	log := logger.Ctx(c.UserContext()).With(zap.String("provider", "razorpay"))

	if !verifier.VerifyRazorpay(raw, sig, h.RazorpayWebhookSecret) {
		metrics.WebhookEvents.WithLabelValues("razorpay", "rejected").Inc()
		log.Warn("❌ webhook signature rejected", zap.String("ip", c.IP()))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid signature"})
	}

	n, err := service.ParseRazorpay(raw)
	if err != nil {
		log.Warn("signed webhook body not understood", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	n.EventID = strings.TrimSpace(c.Get(verifier.RazorpayEventIDHeader))
	n.Signature = sig
	n.Headers = collectHeaders(c)

	return h.apply(c, n)
}

// POST /api/webhooks/midtrans
func (h *WebhookController) MidtransWebhook(c *fiber.Ctx) error {
	raw := append([]byte(nil), c.Body()...)
	log := logger.Ctx(c.UserContext()).With(zap.String("provider", "midtrans"))

	notif, err := service.DecodeMidtrans(raw)
	if err != nil {
		// signature lives inside the body, so an unreadable body cannot be authenticated
		metrics.WebhookEvents.WithLabelValues("midtrans", "rejected").Inc()
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid signature"})
	}
	if !verifier.VerifyMidtrans(notif.OrderID, notif.StatusCode, notif.GrossAmount, h.MidtransServerKey, notif.SignatureKey) {
		metrics.WebhookEvents.WithLabelValues("midtrans", "rejected").Inc()
		log.Warn("❌ webhook signature rejected", zap.String("order_id", notif.OrderID), zap.String("ip", c.IP()))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid signature"})
	}

	n := notif.ToNotification(raw)
	n.Headers = collectHeaders(c)
	return h.apply(c, n)
}

func (h *WebhookController) apply(c *fiber.Ctx, n service.Notification) error {
	if _, err := h.Reconciler.Apply(c.UserContext(), n); err != nil {
		if errors.Is(err, service.ErrUnparseable) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
		}
		body := fiber.Map{"error": "failed to apply payment update"}
		if h.DevMode {
			body["detail"] = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// collectHeaders keeps request headers for the audit row, minus credentials.
func collectHeaders(c *fiber.Ctx) map[string]string {
	out := map[string]string{}
	c.Request().Header.VisitAll(func(k, v []byte) {
		key := http.CanonicalHeaderKey(string(k))
		switch key {
		case "Authorization", "Cookie":
			return
		}
		out[key] = string(v)
	})
	return out
}

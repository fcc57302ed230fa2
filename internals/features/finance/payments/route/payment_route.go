package route

import (
	"github.com/gofiber/fiber/v2"

	"campusevents_backend/internals/features/finance/payments/controller"
)

/*
Webhook routes are public: the gateway authenticates with a signature, not a session.
Mount: WebhookRoutes(app.Group("/api"), ctl)
- POST /api/webhooks/razorpay
- POST /api/webhooks/midtrans
*/
func WebhookRoutes(api fiber.Router, ctl *controller.WebhookController) {
	wh := api.Group("/webhooks")
	wh.Post("/razorpay", ctl.RazorpayWebhook)
	wh.Post("/midtrans", ctl.MidtransWebhook)
}

// GatewayEventAdminRoutes; guards are AuthJWT + ADMIN.
// - GET /api/admin/payment-gateway-events
// - GET /api/admin/payment-gateway-events/:id
func GatewayEventAdminRoutes(api fiber.Router, ctl *controller.PaymentGatewayEventController, guards ...fiber.Handler) {
	g := api.Group("/admin/payment-gateway-events", guards...)
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.GetByID)
}

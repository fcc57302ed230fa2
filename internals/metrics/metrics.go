package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	WebhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "campus_webhook_events_total", Help: "Gateway webhook deliveries by provider and outcome"},
		[]string{"provider", "outcome"},
	)
	RegistrationsReconciled = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "campus_registrations_reconciled_total", Help: "Registrations updated by webhook reconciliation"},
		[]string{"provider", "status"},
	)
	BootstrapAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "campus_bootstrap_attempts_total", Help: "Tenant bootstrap attempts by outcome"},
		[]string{"outcome"},
	)
	RegistrationsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "campus_registrations_created_total", Help: "Event registrations created"},
		[]string{"paid"},
	)
	SearchFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "campus_search_fallback_total", Help: "Event searches served from SQL because the index failed"},
	)
)

func init() {
	prometheus.MustRegister(WebhookEvents, RegistrationsReconciled, BootstrapAttempts, RegistrationsCreated, SearchFallbacks)
}

// Handler exposes the default registry on a fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

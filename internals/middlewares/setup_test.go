package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents_backend/internals/configs"
)

func newLimitedApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	SetupMiddlewares(app, &configs.AppConfig{CORSOrigins: []string{"http://localhost:5173"}}, nil)
	ok := func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) }
	app.Post("/api/webhooks/razorpay", ok)
	app.Get("/api/events", ok)
	return app
}

func statusCounts(t *testing.T, app *fiber.App, method, path string, n int) map[int]int {
	t.Helper()
	out := map[int]int{}
	for i := 0; i < n; i++ {
		resp, err := app.Test(httptest.NewRequest(method, path, nil), -1)
		require.NoError(t, err)
		out[resp.StatusCode]++
		resp.Body.Close()
	}
	return out
}

func TestGlobalRateLimiter_SkipsWebhooks(t *testing.T) {
	app := newLimitedApp(t)
	got := statusCounts(t, app, http.MethodPost, "/api/webhooks/razorpay", 120)
	assert.Equal(t, map[int]int{fiber.StatusOK: 120}, got)
}

func TestGlobalRateLimiter_LimitsRegularEndpoints(t *testing.T) {
	app := newLimitedApp(t)
	got := statusCounts(t, app, http.MethodGet, "/api/events", 120)
	assert.Equal(t, 100, got[fiber.StatusOK])
	assert.Equal(t, 20, got[fiber.StatusTooManyRequests])
}

package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents_backend/internals/configs"
	"campusevents_backend/internals/helpers/testdb"
)

func testApp(t *testing.T) (*fiber.App, *configs.AppConfig) {
	t.Helper()
	cfg := &configs.AppConfig{
		AppEnv:               configs.EnvDevelopment,
		JWTSecret:            "routes-test-secret",
		JWTTTL:               time.Hour,
		BcryptCost:           4,
		Currency:             "INR",
		UploadDir:            t.TempDir(),
		AccessPublicPrefixes: []string{"/", "/auth", "/api", "/health", "/metrics", "/uploads"},
	}
	app := fiber.New()
	SetupRoutes(app, Deps{Config: cfg, DB: testdb.Open(t)})
	return app, cfg
}

func do(t *testing.T, app *fiber.App, method, path string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	require.NoError(t, err)
	return resp
}

func TestSetupRoutes_Surface(t *testing.T) {
	app, cfg := testApp(t)

	cases := []struct {
		method, path string
		status       int
	}{
		{http.MethodGet, "/health", fiber.StatusOK},
		{http.MethodGet, "/metrics", fiber.StatusOK},
		{http.MethodGet, "/api/bootstrap/status", fiber.StatusOK},
		{http.MethodGet, "/api/auth/me", fiber.StatusUnauthorized},
		{http.MethodGet, "/api/events", fiber.StatusUnauthorized},
		{http.MethodGet, "/api/events/search?q=robot", fiber.StatusUnauthorized},
		{http.MethodPost, "/api/registrations", fiber.StatusUnauthorized},
		{http.MethodGet, "/api/colleges/current", fiber.StatusUnauthorized},
		{http.MethodGet, "/api/admin/payment-gateway-events", fiber.StatusUnauthorized},
		{http.MethodGet, "/dashboard/admin", fiber.StatusFound},
	}
	for _, tc := range cases {
		resp := do(t, app, tc.method, tc.path)
		assert.Equal(t, tc.status, resp.StatusCode, "%s %s", tc.method, tc.path)
	}

	// webhooks are public; an unsigned body is rejected by the signature check, not by auth
	resp := do(t, app, http.MethodPost, "/api/webhooks/razorpay")
	assert.NotEqual(t, fiber.StatusNotFound, resp.StatusCode)

	// local uploads are served statically
	require.NoError(t, os.WriteFile(filepath.Join(cfg.UploadDir, "crest.webp"), []byte("RIFF"), 0o644))
	resp = do(t, app, http.MethodGet, "/uploads/crest.webp")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHealth_ReportsDatabase(t *testing.T) {
	app, _ := testApp(t)
	resp := do(t, app, http.MethodGet, "/health")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"database":"Connected"`)
}

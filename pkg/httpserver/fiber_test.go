package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	app := InitFiberServer(Options{AppName: "test-app"})
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("boom")
	})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	return app
}

func TestInitFiberServer_HealthEndpoints(t *testing.T) {
	app := newApp()
	for _, path := range []string{"/manage/health", "/manage/ready"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestInitFiberServer_ErrorShape(t *testing.T) {
	app := newApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "short and stout", body["error"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestInitFiberServer_ExposesLocation(t *testing.T) {
	app := newApp()
	req := httptest.NewRequest(http.MethodGet, "/manage/health", nil)
	req.Header.Set("Origin", "http://example.com")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "Location", resp.Header.Get("Access-Control-Expose-Headers"))
}

package webapi_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirasaad/accounts/pkg/config"
	pkgtestutils "github.com/amirasaad/accounts/pkg/testutils"
	"github.com/amirasaad/accounts/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateLimitedConfig(max int, window time.Duration) *config.App {
	cfg := testutils.TestConfig()
	cfg.RateLimit = &config.RateLimit{MaxRequests: max, Window: window}
	return cfg
}

func TestRateLimit(t *testing.T) {
	// Create app with stricter rate limits for testing
	app, _, _ := testutils.SetupTestApp(t, pkgtestutils.NewSQLiteDB(t), rateLimitedConfig(5, time.Second))

	// Send requests until rate limit is hit
	for i := 0; i < 6; i++ {
		resp := pkgtestutils.MakeRequest(t, app, fiber.MethodGet, "/", "")
		_ = resp.Body.Close()

		if i < 5 {
			assert.Equal(t, fiber.StatusOK, resp.StatusCode, "Expected OK for request %d", i+1)
		} else {
			assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode, "Expected Too Many Requests for request %d", i+1)
		}
	}

	// Wait for the rate limit window to reset
	time.Sleep(1100 * time.Millisecond)

	resp := pkgtestutils.MakeRequest(t, app, fiber.MethodGet, "/", "")
	defer resp.Body.Close() //nolint: errcheck
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "Expected OK after rate limit reset")
}

func TestRateLimit_ProblemDetails(t *testing.T) {
	app, _, _ := testutils.SetupTestApp(t, pkgtestutils.NewSQLiteDB(t), rateLimitedConfig(1, time.Minute))

	resp := pkgtestutils.MakeRequest(t, app, fiber.MethodGet, "/accounts", "")
	_ = resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = pkgtestutils.MakeRequest(t, app, fiber.MethodGet, "/accounts", "")
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	problem := testutils.DecodeProblem(t, resp)
	assert.Equal(t, "Too Many Requests", problem.Title)
	assert.Equal(t, "rate limit exceeded", problem.Detail)
}

func TestRateLimit_KeyedByForwardedFor(t *testing.T) {
	app, _, _ := testutils.SetupTestApp(t, pkgtestutils.NewSQLiteDB(t), rateLimitedConfig(1, time.Minute))

	send := func(forwardedFor string) int {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", forwardedFor)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		_ = resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, send("10.0.0.1, 192.168.0.1"))
	assert.Equal(t, fiber.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, fiber.StatusOK, send("10.0.0.2"))
}

func TestSetupApp_UnknownRouteIsProblemDetails(t *testing.T) {
	app, _, _ := testutils.SetupSQLiteApp(t)

	resp := pkgtestutils.MakeRequest(t, app, fiber.MethodGet, "/nowhere", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	problem := testutils.DecodeProblem(t, resp)
	assert.Equal(t, "Not Found", problem.Title)
}

func TestSetupApp_NoRateLimitWhenDisabled(t *testing.T) {
	cfg := testutils.TestConfig()
	cfg.RateLimit = nil
	app, _, _ := testutils.SetupTestApp(t, pkgtestutils.NewSQLiteDB(t), cfg)

	for i := 0; i < 20; i++ {
		resp := pkgtestutils.MakeRequest(t, app, fiber.MethodGet, "/", "")
		_ = resp.Body.Close()
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}

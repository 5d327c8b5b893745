package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/soundvest/soundvest-api/internal/config"
	"github.com/soundvest/soundvest-api/internal/middleware"
)

func limiterConfig(max int) config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:     true,
		MaxAttempts: max,
		Window:      time.Minute,
		Prefix:      "rl:test",
	}
}

func doLimited(t *testing.T, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestLoginLimiterFixedWindow(t *testing.T) {
	// no Redis client: the in-process window is used
	h := middleware.NewLoginLimiter(limiterConfig(3), nil)(func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	})

	for i := 0; i < 3; i++ {
		rec := doLimited(t, h)
		require.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}

	rec := doLimited(t, h)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Contains(t, rec.Body.String(), "too_many_requests")
}

func TestLoginLimiterDisabled(t *testing.T) {
	cfg := limiterConfig(1)
	cfg.Enabled = false
	h := middleware.NewLoginLimiter(cfg, nil)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusOK, doLimited(t, h).Code)
	}
}

func TestLoginLimiterIndependentInstances(t *testing.T) {
	// each middleware instance tracks its own window
	mkHandler := func() echo.HandlerFunc {
		return middleware.NewLoginLimiter(limiterConfig(1), nil)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
	}
	h1, h2 := mkHandler(), mkHandler()
	require.Equal(t, http.StatusOK, doLimited(t, h1).Code)
	require.Equal(t, http.StatusTooManyRequests, doLimited(t, h1).Code)
	require.Equal(t, http.StatusOK, doLimited(t, h2).Code)
}

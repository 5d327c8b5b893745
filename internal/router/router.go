package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/soundvest/soundvest-api/internal/config"
	"github.com/soundvest/soundvest-api/internal/handler"
	"github.com/soundvest/soundvest-api/internal/middleware"
)

// RegisterRoutes wires every endpoint with its middleware chain.
//
// Reads (/content, /content/:section, /auth/me, /csrf, /healthz, /uploads/*)
// are open; every state-changing route runs the CSRF check, and the content
// write and upload routes additionally require a valid session cookie.
// A nil Redis client simply disables the shared limiter window and the
// response cache.
func RegisterRoutes(e *echo.Echo, cfg config.Config, rdb *redis.Client,
	a *handler.AuthHandler, ct *handler.ContentHandler, up *handler.UploadHandler) {

	e.GET("/healthz", handler.Health)

	// The CSRF token travels in the _csrf cookie and is echoed back in the
	// X-CSRF-Token header. Safe methods pass through the middleware, which
	// is how GET /csrf issues the token in the first place.
	csrf := echomw.CSRFWithConfig(echomw.CSRFConfig{
		TokenLookup:    "header:X-CSRF-Token",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSecure:   cfg.CookieSecure,
		CookieSameSite: http.SameSiteLaxMode,
	})
	e.GET("/csrf", handler.CSRFToken, csrf)

	// Auth endpoints. Login is additionally throttled per client IP.
	loginLimiter := middleware.NewLoginLimiter(config.LoadRateLimitConfig(), rdb)
	auth := e.Group("/auth", csrf)
	auth.POST("/login", a.Login, loginLimiter)
	auth.POST("/refresh", a.Refresh)
	auth.POST("/logout", a.Logout)
	auth.GET("/me", a.Me)

	// Public content reads, optionally served from the response cache.
	cache := middleware.NewContentCache(config.LoadCacheConfig(), rdb)
	e.GET("/content", ct.List, cache)
	e.GET("/content/:section", ct.Get, cache)

	// Authenticated content writes: session first, then CSRF, then the
	// handler's validate/sanitize/persist pipeline.
	session := middleware.SessionAuth(cfg.JWTSecret)
	e.PUT("/content/:section", ct.Upsert, session, csrf)
	e.DELETE("/content/:section", ct.Delete, session, csrf)

	// Image uploads plus static serving of the resulting public URLs.
	e.POST("/uploads", up.Upload, session, csrf)
	e.Static("/uploads", cfg.UploadDir)
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/soundvest/soundvest-api/internal/config"
	"github.com/soundvest/soundvest-api/internal/middleware"
	"github.com/soundvest/soundvest-api/internal/repository"
	"github.com/soundvest/soundvest-api/internal/utils"
)

// RefreshCookie is the name of the cookie carrying the refresh token. It is
// path-scoped to the auth routes so the long-lived credential never rides
// along on content or upload requests.
const RefreshCookie = "refreshToken"

const authCookiePath = "/auth"

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type mePart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// Login verifies credentials and establishes a session by setting the
// access and refresh cookies. Both a missing user and a wrong password
// produce the identical generic response, so the endpoint cannot be used
// to enumerate usernames.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Username, u.TokenVersion, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.JWTSecret, u.ID, u.TokenVersion, h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}

	h.setCookie(c, middleware.AccessCookie, access.Token, "/", access.Exp)
	h.setCookie(c, RefreshCookie, refresh.Token, authCookiePath, refresh.Exp)
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// Refresh exchanges a valid refresh cookie for a fresh access cookie. The
// refresh token itself is not rotated. The token version embedded in the
// refresh token must match the stored counter; after a bump every
// previously issued refresh token fails here.
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(RefreshCookie)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	claims, err := utils.ParseRefreshToken(h.Cfg.JWTSecret, cookie.Value)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u.TokenVersion != claims.TokenVersion {
		// stale version: the token was revoked by a counter bump
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Username, u.TokenVersion, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	h.setCookie(c, middleware.AccessCookie, access.Token, "/", access.Exp)
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// Logout clears both cookies. No server-side state changes: a refresh
// token captured before logout stays valid until it expires or the token
// version is bumped.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.clearCookie(c, middleware.AccessCookie, "/")
	h.clearCookie(c, RefreshCookie, authCookiePath)
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// Me reports whether the caller holds a valid access cookie and, if so,
// who they are. It deliberately answers 401 with authenticated:false
// instead of the middleware's generic error so the SPA can branch on it.
func (h *AuthHandler) Me(c echo.Context) error {
	cookie, err := c.Cookie(middleware.AccessCookie)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"authenticated": false})
	}
	claims, err := utils.ParseAccessToken(h.Cfg.JWTSecret, cookie.Value)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"authenticated": false})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"authenticated": true,
		"user":          mePart{ID: claims.UserID, Username: claims.Username},
	})
}

func (h *AuthHandler) setCookie(c echo.Context, name, value, path string, exp time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearCookie(c echo.Context, name, path string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

package middleware // middleware provides shared request processing for handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/soundvest/soundvest-api/internal/utils"
)

// AccessCookie is the name of the cookie carrying the access token.
const AccessCookie = "accessToken"

// Context keys populated by SessionAuth for downstream handlers.
const (
	CtxUserID       = "user_id"
	CtxUsername     = "username"
	CtxTokenVersion = "token_version"
)

// SessionAuth returns an Echo middleware that authenticates a request from
// its accessToken cookie. On success the verified identity is attached to
// the request context; on any failure (missing cookie, invalid signature,
// expired token) the request is rejected with a generic 401 before any of
// the body is processed. The middleware is stateless: it reads one cookie
// and writes nothing.
func SessionAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(AccessCookie)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			claims, err := utils.ParseAccessToken(secret, cookie.Value)
			if err != nil {
				// expired and malformed are both just "unauthenticated" here
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxUsername, claims.Username)
			c.Set(CtxTokenVersion, claims.TokenVersion)
			return next(c)
		}
	}
}

package utils // package utils provides helper functions for token creation and verification

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// Verification failures are collapsed into two tagged sentinels so callers
// can tell an expired token from a malformed or tampered one. The HTTP
// layer treats both as "unauthenticated"; neither ever escapes as a panic.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are short-lived and transported in the accessToken cookie
// when calling protected endpoints.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// RefreshToken represents a long-lived token used solely to obtain new
// access tokens. It is scoped via cookie path to the auth endpoints.
type RefreshToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// AccessClaims are the verified claims carried by an access token.
type AccessClaims struct {
	UserID       uint64
	Username     string
	TokenVersion int64
}

// RefreshClaims are the verified claims carried by a refresh token. The
// embedded token version is compared against the stored counter on every
// refresh; a mismatch means the token has been revoked.
type RefreshClaims struct {
	UserID       uint64
	TokenVersion int64
}

// NewAccessToken builds and signs an HS256 JWT for a user. The JWT includes
// the subject (sub), username, token version snapshot (tv), expiration
// (exp) and issued at (iat) claims. The TTL is given in minutes.
func NewAccessToken(secret string, userID uint64, username string, tokenVersion int64, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"tv":       tokenVersion,
		"exp":      exp.Unix(),
		"iat":      time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken builds and signs an HS256 JWT carrying only the subject
// and token version snapshot. The TTL is given in days. No server-side
// record is kept; revocation happens by bumping the stored token version.
func NewRefreshToken(secret string, userID uint64, tokenVersion int64, ttlDays int) (RefreshToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour)
	claims := jwt.MapClaims{
		"sub": userID,
		"tv":  tokenVersion,
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies signature and expiry and returns the typed
// claims. Failures map onto ErrTokenExpired or ErrTokenInvalid.
func ParseAccessToken(secret, raw string) (AccessClaims, error) {
	claims, err := parse(secret, raw)
	if err != nil {
		return AccessClaims{}, err
	}
	username, _ := claims["username"].(string)
	if username == "" {
		return AccessClaims{}, ErrTokenInvalid
	}
	return AccessClaims{
		UserID:       claimUint64(claims, "sub"),
		Username:     username,
		TokenVersion: claimInt64(claims, "tv"),
	}, nil
}

// ParseRefreshToken verifies signature and expiry and returns the typed
// claims.
func ParseRefreshToken(secret, raw string) (RefreshClaims, error) {
	claims, err := parse(secret, raw)
	if err != nil {
		return RefreshClaims{}, err
	}
	return RefreshClaims{
		UserID:       claimUint64(claims, "sub"),
		TokenVersion: claimInt64(claims, "tv"),
	}, nil
}

// parse runs the shared signature/expiry check. The callback pins the
// signing method to HMAC so a token signed with a different algorithm is
// rejected outright.
func parse(secret, raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tok.Valid {
		return nil, ErrTokenInvalid
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// JWT numeric values decode as float64; the issue path may also leave the
// original integer types in place when claims are inspected in tests.
func claimUint64(claims jwt.MapClaims, key string) uint64 {
	switch v := claims[key].(type) {
	case float64:
		return uint64(v)
	case uint64:
		return v
	case int64:
		return uint64(v)
	}
	return 0
}

func claimInt64(claims jwt.MapClaims, key string) int64 {
	switch v := claims[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CtxSessionIDKey = "session_id" // string

	SessionCookieName  = "sf_session"
	SessionTokenHeader = "X-Session-Token"
)

type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	CookieSecure bool
}

// ゲストセッションのclaims（sid がカート・注文のキー）
type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// GuestSession はゲストのセッションIDを決める。
// cookie / ヘッダのトークンが無い・不正なら新しく発行して両方で返す。
func GuestSession(cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid, ok := sessionFromRequest(c, cfg.Secret)
			if !ok {
				now := time.Now()
				sid = uuid.NewString()
				token, err := IssueSessionToken(cfg.Secret, sid, cfg.TTL, now)
				if err != nil {
					return c.JSON(http.StatusInternalServerError, errorJSON("session error"))
				}
				c.SetCookie(&http.Cookie{
					Name:     SessionCookieName,
					Value:    token,
					Path:     "/",
					Expires:  now.Add(cfg.TTL),
					HttpOnly: true,
					Secure:   cfg.CookieSecure,
					SameSite: http.SameSiteLaxMode,
				})
				c.Response().Header().Set(SessionTokenHeader, token)
			}

			c.Set(CtxSessionIDKey, sid)
			return next(c)
		}
	}
}

// ヘッダ優先、無ければcookie
func sessionFromRequest(c echo.Context, secret string) (string, bool) {
	raw := strings.TrimSpace(c.Request().Header.Get(SessionTokenHeader))
	if raw == "" {
		if ck, err := c.Cookie(SessionCookieName); err == nil {
			raw = ck.Value
		}
	}
	if raw == "" {
		return "", false
	}
	return ParseSessionToken(secret, raw)
}

func IssueSessionToken(secret string, sid string, ttl time.Duration, now time.Time) (string, error) {
	claims := sessionClaims{
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func ParseSessionToken(secret string, raw string) (string, bool) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, hs256Key(secret))
	if err != nil || token == nil || !token.Valid {
		return "", false
	}
	sid := strings.TrimSpace(claims.SessionID)
	if sid == "" {
		return "", false
	}
	return sid, true
}

// SessionID は GuestSession が入れたセッションID
func SessionID(c echo.Context) string {
	sid, _ := c.Get(CtxSessionIDKey).(string)
	return sid
}

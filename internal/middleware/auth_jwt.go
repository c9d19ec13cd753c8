package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxAdminIDKey  = "admin_id"  // string
	CtxUserRoleKey = "user_role" // string

	RoleAdmin = "ADMIN"
)

// 管理者トークンのclaims
type adminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// bearerAuth用のJWT検証ミドルウェア（管理画面用）。
func AdminJWT(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//JWTをパースして検証する
			claims := &adminClaims{}
			token, err := jwt.ParseWithClaims(rawToken, claims, hs256Key(secret))
			if err != nil || token == nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//subとroleは必須
			if strings.TrimSpace(claims.Subject) == "" || claims.Role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//contextへ保存
			c.Set(CtxAdminIDKey, claims.Subject)
			c.Set(CtxUserRoleKey, claims.Role)

			return next(c)
		}
	}
}

// IssueAdminToken は管理者トークンを発行する（運用ツール・テスト用）
func IssueAdminToken(secret string, adminID string, role string, ttl time.Duration, now time.Time) (string, error) {
	claims := adminClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// AdminID は AdminJWT が入れた管理者ID
func AdminID(c echo.Context) string {
	id, _ := c.Get(CtxAdminIDKey).(string)
	return id
}

func hs256Key(secret string) jwt.Keyfunc {
	return func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

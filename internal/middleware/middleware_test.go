package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// =====================
// レスポンス確認用
// =====================

type mwErrorResponse struct {
	Error string `json:"error"`
}

type mwOKResponse struct {
	AdminID   string `json:"admin_id"`
	SessionID string `json:"session_id"`
}

func newAdminEcho() *echo.Echo {
	e := echo.New()
	e.GET("/admin", func(c echo.Context) error {
		return c.JSON(http.StatusOK, mwOKResponse{AdminID: AdminID(c)})
	}, AdminJWT(testSecret), AdminRoleGuard())
	return e
}

func doAdmin(t *testing.T, e *echo.Echo, authz string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// =====================
// AdminJWT + AdminRoleGuard
// =====================

func TestAdminJWT_OK(t *testing.T) {
	e := newAdminEcho()
	tok, err := IssueAdminToken(testSecret, "admin-1", RoleAdmin, time.Hour, time.Now())
	require.NoError(t, err)

	rec := doAdmin(t, e, "Bearer "+tok)
	require.Equal(t, http.StatusOK, rec.Code)

	var body mwOKResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "admin-1", body.AdminID)
}

func TestAdminJWT_Rejects(t *testing.T) {
	e := newAdminEcho()
	now := time.Now()

	userTok, _ := IssueAdminToken(testSecret, "u-1", "USER", time.Hour, now)
	expired, _ := IssueAdminToken(testSecret, "admin-1", RoleAdmin, time.Hour, now.Add(-2*time.Hour))
	otherKey, _ := IssueAdminToken("other-secret", "admin-1", RoleAdmin, time.Hour, now)
	sessionTok, _ := IssueSessionToken(testSecret, "sid-1", time.Hour, now)
	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"sub": "admin-1", "role": RoleAdmin}).SignedString([]byte(testSecret))

	tests := []struct {
		name   string
		authz  string
		status int
		msg    string
	}{
		{"missing header", "", http.StatusUnauthorized, "unauthorized"},
		{"not bearer", "Basic abc", http.StatusUnauthorized, "unauthorized"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "unauthorized"},
		{"wrong key", "Bearer " + otherKey, http.StatusUnauthorized, "unauthorized"},
		{"wrong alg", "Bearer " + hs512, http.StatusUnauthorized, "unauthorized"},
		{"session token", "Bearer " + sessionTok, http.StatusUnauthorized, "unauthorized"},
		{"not admin", "Bearer " + userTok, http.StatusForbidden, "admin only"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doAdmin(t, e, tt.authz)
			assert.Equal(t, tt.status, rec.Code)

			var body mwErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.msg, body.Error)
		})
	}
}

// =====================
// GuestSession
// =====================

func newSessionEcho() *echo.Echo {
	e := echo.New()
	e.Use(GuestSession(SessionConfig{Secret: testSecret, TTL: time.Hour}))
	e.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, mwOKResponse{SessionID: SessionID(c)})
	})
	return e
}

func sessionOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body mwOKResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.SessionID
}

func TestGuestSession_IssuesNewSession(t *testing.T) {
	e := newSessionEcho()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	sid := sessionOf(t, rec)
	assert.NotEmpty(t, sid)

	token := rec.Header().Get(SessionTokenHeader)
	require.NotEmpty(t, token)
	parsed, ok := ParseSessionToken(testSecret, token)
	require.True(t, ok)
	assert.Equal(t, sid, parsed)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestGuestSession_ReusesCookieAndHeader(t *testing.T) {
	e := newSessionEcho()
	tok, err := IssueSessionToken(testSecret, "sid-42", time.Hour, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tok})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "sid-42", sessionOf(t, rec))
	assert.Empty(t, rec.Header().Get(SessionTokenHeader))

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(SessionTokenHeader, tok)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "sid-42", sessionOf(t, rec))
}

func TestGuestSession_TamperedTokenGetsFreshSession(t *testing.T) {
	e := newSessionEcho()
	tok, err := IssueSessionToken("other-secret", "sid-42", time.Hour, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(SessionTokenHeader, tok)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	sid := sessionOf(t, rec)
	assert.NotEqual(t, "sid-42", sid)
	assert.NotEmpty(t, rec.Header().Get(SessionTokenHeader))
}

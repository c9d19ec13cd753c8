package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestEcho(l *zap.Logger) *echo.Echo {
	e := echo.New()
	e.Use(middleware.RequestID())
	e.Use(EchoMiddleware(l))
	e.GET("/ok", func(c echo.Context) error {
		// ctx にリクエストIDが入っている
		return c.String(http.StatusOK, RequestID(c.Request().Context()))
	})
	e.GET("/bad", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "nope")
	})
	e.GET("/boom", func(c echo.Context) error {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "boom"})
	})
	return e
}

func TestEchoMiddleware_LevelsByStatus(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	e := newTestEcho(zap.New(core))

	for _, path := range []string{"/ok", "/bad", "/boom"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	logs := recorded.FilterMessage("http request").All()
	require.Len(t, logs, 3)
	assert.Equal(t, zapcore.InfoLevel, logs[0].Level)
	assert.Equal(t, zapcore.WarnLevel, logs[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, logs[2].Level)
	assert.Equal(t, int64(http.StatusBadRequest), logs[1].ContextMap()["status"])
}

func TestEchoMiddleware_RequestIDInContext(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	e := newTestEcho(zap.New(core))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

	id := rec.Header().Get(echo.HeaderXRequestID)
	require.NotEmpty(t, id)
	assert.Equal(t, id, rec.Body.String())

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, id, logs[0].ContextMap()["request_id"])
}

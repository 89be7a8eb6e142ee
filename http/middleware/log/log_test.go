package log

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dragonwatch/dragonwatch/log"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestLogRequests(t *testing.T) {
	buffer := log.NewBufferWriter(log.Ldebug, 10)

	router := echo.New()
	router.Use(NewWithConfig(Config{
		Logger:    log.New("HTTP").WithOutput(buffer),
		SkipPaths: []string{"/metrics"},
	}))

	router.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})
	router.GET("/metrics", func(c echo.Context) error {
		return c.String(http.StatusOK, "")
	})

	for _, path := range []string{"/ping?x=1", "/missing", "/metrics"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	events := buffer.Events()
	require.Len(t, events, 2)

	require.Equal(t, log.Ldebug, events[0].Level)
	require.Equal(t, "/ping?x=1", events[0].Data["path"])
	require.Equal(t, http.StatusOK, events[0].Data["status"])

	require.Equal(t, log.Lwarn, events[1].Level)
	require.Equal(t, http.StatusNotFound, events[1].Data["status"])
	require.Contains(t, events[1].Data, "error")
}

func TestLogSkipper(t *testing.T) {
	buffer := log.NewBufferWriter(log.Ldebug, 10)

	router := echo.New()
	router.Use(NewWithConfig(Config{
		Logger: log.New("HTTP").WithOutput(buffer),
		Skipper: func(c echo.Context) bool {
			return c.Request().Method == http.MethodHead
		},
	}))

	router.HEAD("/ping", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/ping", nil))

	require.Len(t, buffer.Events(), 0)
}

package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/dragonwatch/dragonwatch/http/mock"
	"github.com/dragonwatch/dragonwatch/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func getDummyStatusRouter(metrics prometheus.Reader) *echo.Echo {
	router := mock.DummyEcho()

	handler := NewStatus(metrics)

	router.Add("GET", "/ping", handler.Ping)
	router.Add("GET", "/metrics", handler.Metrics)

	return router
}

func TestPing(t *testing.T) {
	router := getDummyStatusRouter(nil)

	response := mock.Request(t, http.StatusOK, router, "GET", "/ping", nil)

	require.Equal(t, "pong", string(response.Data.([]byte)))
}

func TestMetrics(t *testing.T) {
	metrics := prometheus.New()
	require.NoError(t, metrics.Register(prometheus.NewUptimeCollector("test", time.Now())))

	router := getDummyStatusRouter(metrics)

	response := mock.Request(t, http.StatusOK, router, "GET", "/metrics", nil)

	require.Contains(t, string(response.Data.([]byte)), "dragonwatch_uptime_seconds")
}

func TestMetricsDisabled(t *testing.T) {
	router := getDummyStatusRouter(nil)

	mock.Request(t, http.StatusNotFound, router, "GET", "/metrics", nil)
}

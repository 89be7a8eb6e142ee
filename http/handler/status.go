// Package handler implements the handlers for the routes outside of the
// versioned API.
package handler

import (
	"net/http"

	"github.com/dragonwatch/dragonwatch/http/api"
	"github.com/dragonwatch/dragonwatch/prometheus"

	"github.com/labstack/echo/v4"
)

// The StatusHandler answers the liveness check and serves the metrics.
type StatusHandler struct {
	metrics http.Handler
}

// NewStatus returns a new StatusHandler. Without a metrics reader the
// metrics route answers with 404.
func NewStatus(metrics prometheus.Reader) *StatusHandler {
	h := &StatusHandler{}

	if metrics != nil {
		h.metrics = metrics.HTTPHandler()
	}

	return h
}

// Ping returns pong
// @Summary Liveliness check
// @Description Liveliness check
// @ID ping
// @Produce text/plain
// @Success 200 {string} string "pong"
// @Router /ping [get]
func (h *StatusHandler) Ping(c echo.Context) error {
	return c.String(http.StatusOK, "pong")
}

// Metrics godoc
// @Summary Prometheus metrics
// @Description Prometheus metrics
// @ID metrics
// @Produce text/plain
// @Success 200 {string} string
// @Failure 404 {object} api.Error
// @Router /metrics [get]
func (h *StatusHandler) Metrics(c echo.Context) error {
	if h.metrics == nil {
		return api.Err(http.StatusNotFound, "", "metrics are not enabled")
	}

	h.metrics.ServeHTTP(c.Response(), c.Request())

	return nil
}

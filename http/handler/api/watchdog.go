package api

import (
	"net/http"

	"github.com/dragonwatch/dragonwatch/http/api"
	"github.com/dragonwatch/dragonwatch/watchdog"

	"github.com/labstack/echo/v4"
)

// StatusReader returns the current state of the watch loop.
type StatusReader interface {
	Status() watchdog.Status
}

// The WatchdogHandler type provides a handler function for reading the
// state of the watch loop.
type WatchdogHandler struct {
	watchdog StatusReader
}

// NewWatchdog returns a new Watchdog type.
func NewWatchdog(watchdog StatusReader) *WatchdogHandler {
	return &WatchdogHandler{
		watchdog: watchdog,
	}
}

// Status returns the state of the watch loop
// @Summary State of the watch loop
// @Description State of the watch loop, including the time of the next cycle
// @ID watchdog-status
// @Produce json
// @Success 200 {object} api.WatchdogStatus
// @Router /api/v1/watchdog [get]
func (h *WatchdogHandler) Status(c echo.Context) error {
	status := api.WatchdogStatus{}
	status.Unmarshal(h.watchdog.Status())

	return c.JSON(http.StatusOK, status)
}

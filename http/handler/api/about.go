// Package api implements the handlers for the API routes
package api

import (
	"net/http"
	"time"

	"github.com/dragonwatch/dragonwatch/http/api"

	"github.com/labstack/echo/v4"
)

// The AboutHandler type provides handler functions for retrieving details
// about the instance and its build.
type AboutHandler struct {
	id        string
	name      string
	createdAt time.Time
	processes []string
}

// NewAbout returns a new AboutHandler. The processes are the names of the
// watched processes.
func NewAbout(id, name string, createdAt time.Time, processes []string) *AboutHandler {
	return &AboutHandler{
		id:        id,
		name:      name,
		createdAt: createdAt,
		processes: processes,
	}
}

// About returns the instance details and build infos
// @Summary API version and build infos
// @Description API version and build infos
// @ID about
// @Produce json
// @Success 200 {object} api.About
// @Router /api [get]
func (p *AboutHandler) About(c echo.Context) error {
	return c.JSON(http.StatusOK, api.NewAbout(p.id, p.name, p.createdAt, time.Now(), p.processes))
}

package api

import (
	"net/http"

	"github.com/dragonwatch/dragonwatch/http/api"
	"github.com/dragonwatch/dragonwatch/psutil"

	"github.com/labstack/echo/v4"
)

// The ProcessHandler type provides a handler function for listing the
// state of the watched processes.
type ProcessHandler struct {
	names []string
	probe psutil.Util
}

// NewProcess returns a new Process type. The first name is the trigger process.
func NewProcess(names []string, probe psutil.Util) *ProcessHandler {
	if probe == nil {
		probe = psutil.DefaultUtil
	}

	return &ProcessHandler{
		names: append([]string{}, names...),
		probe: probe,
	}
}

// List returns the state of all watched processes
// @Summary List the watched processes
// @Description List the watched processes with their running instances
// @ID process-list
// @Produce json
// @Success 200 {array} api.Process
// @Failure 500 {object} api.Error
// @Router /api/v1/process [get]
func (h *ProcessHandler) List(c echo.Context) error {
	snapshot, err := h.probe.Processes()
	if err != nil {
		return api.Err(http.StatusInternalServerError, "", "listing processes failed: %s", err)
	}

	processes := make([]api.Process, 0, len(h.names))

	for i, name := range h.names {
		p := api.Process{
			Name:      name,
			Trigger:   i == 0,
			Instances: []api.ProcessInstance{},
		}

		for _, proc := range snapshot {
			if proc.Name != name {
				continue
			}

			instance := api.ProcessInstance{}
			instance.Unmarshal(proc)

			p.Instances = append(p.Instances, instance)
		}

		p.Running = len(p.Instances) != 0

		processes = append(processes, p)
	}

	return c.JSON(http.StatusOK, processes)
}

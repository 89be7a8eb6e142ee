package api

import (
	"net/http"
	"strings"

	"github.com/dragonwatch/dragonwatch/http/api"
	"github.com/dragonwatch/dragonwatch/http/handler/util"
	"github.com/dragonwatch/dragonwatch/log"

	"github.com/labstack/echo/v4"
)

// The LogHandler type provides handler functions for reading the application log
type LogHandler struct {
	buffer log.BufferWriter
}

// NewLog return a new Log type. You have to provide log buffer.
func NewLog(buffer log.BufferWriter) *LogHandler {
	l := &LogHandler{
		buffer: buffer,
	}

	if l.buffer == nil {
		l.buffer = log.NewBufferWriter(log.Lsilent, 1)
	}

	return l
}

type logQuery struct {
	Format string `json:"format" validate:"oneof=console raw"`
}

// Log returns the last log lines of the application
// @Summary Application log
// @Description Get the last log lines of the application
// @ID log
// @Param format query string false "Format of the list of log events (*console, raw)"
// @Produce json
// @Success 200 {array} api.LogEvent "application log"
// @Success 200 {array} string "application log"
// @Failure 400 {object} api.Error
// @Router /api/v1/log [get]
func (p *LogHandler) Log(c echo.Context) error {
	query := logQuery{
		Format: util.DefaultQuery(c, "format", "console"),
	}

	if err := c.Validate(query); err != nil {
		return api.Err(http.StatusBadRequest, "", "%s", err)
	}

	events := p.buffer.Events()

	if query.Format == "raw" {
		log := make([]api.LogEvent, len(events))

		for i, e := range events {
			log[i].Unmarshal(e)
		}

		return c.JSON(http.StatusOK, log)
	}

	formatter := log.NewConsoleFormatter(false)

	log := make([]string, len(events))

	for i, e := range events {
		log[i] = strings.TrimSpace(formatter.String(e))
	}

	return c.JSON(http.StatusOK, log)
}

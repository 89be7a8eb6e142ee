package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/dragonwatch/dragonwatch/http/api"
	"github.com/dragonwatch/dragonwatch/http/handler/util"
	"github.com/dragonwatch/dragonwatch/report"

	"github.com/labstack/echo/v4"
)

// ReportNotifier builds a report and dispatches its message.
type ReportNotifier interface {
	Report(ctx context.Context) (report.Report, error)
}

// The ReportHandler type provides handler functions for building and
// reading the summary of the recent log lines.
type ReportHandler struct {
	reporter report.Reporter
	notifier ReportNotifier
}

// NewReport returns a new Report type. The notifier is optional.
func NewReport(reporter report.Reporter, notifier ReportNotifier) *ReportHandler {
	return &ReportHandler{
		reporter: reporter,
		notifier: notifier,
	}
}

// Get returns the last report
// @Summary Retrieve the last report
// @Description Retrieve the last report that has been built successfully
// @ID report-get
// @Produce json
// @Success 200 {object} api.Report
// @Failure 404 {object} api.Error
// @Router /api/v1/report [get]
func (h *ReportHandler) Get(c echo.Context) error {
	r, ok := h.reporter.Last()
	if !ok {
		return api.Err(http.StatusNotFound, "", "no report has been built yet")
	}

	result := api.Report{}
	result.Unmarshal(r)

	return c.JSON(http.StatusOK, result)
}

// Run builds a new report from the log lines in the window
// @Summary Build a new report
// @Description Build a new report from the log lines in the window and optionally send it as notification
// @ID report-run
// @Produce json
// @Param notify query bool false "Send the message of the report as notification"
// @Success 200 {object} api.Report
// @Failure 400 {object} api.Error
// @Failure 404 {object} api.Error
// @Failure 500 {object} api.Error
// @Router /api/v1/report [post]
func (h *ReportHandler) Run(c echo.Context) error {
	notify, err := util.BoolQuery(c, "notify", false)
	if err != nil {
		return api.Err(http.StatusBadRequest, "", "%s", err)
	}

	if notify && h.notifier == nil {
		return api.Err(http.StatusBadRequest, "", "notifications are not available")
	}

	var r report.Report

	if notify {
		r, err = h.notifier.Report(c.Request().Context())
	} else {
		r, err = h.reporter.Run()
	}

	if err != nil {
		if errors.Is(err, report.ErrNoLogContent) {
			return api.Err(http.StatusNotFound, "No log content", "%s", err)
		}

		return api.Err(http.StatusInternalServerError, "", "%s", err)
	}

	result := api.Report{}
	result.Unmarshal(r)
	result.Notified = notify

	return c.JSON(http.StatusOK, result)
}

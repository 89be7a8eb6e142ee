package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dragonwatch/dragonwatch/http/api"
	"github.com/dragonwatch/dragonwatch/http/mock"
	"github.com/dragonwatch/dragonwatch/report"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type lineReader struct {
	lines []string
}

func (r *lineReader) ReadLines(paths []string, window time.Duration) []string {
	return r.lines
}

type notifier struct {
	reporter report.Reporter
	calls    int
}

func (n *notifier) Report(ctx context.Context) (report.Report, error) {
	n.calls++

	return n.reporter.Run()
}

func getDummyReportRouter(t *testing.T, lines []string) (*echo.Echo, *notifier) {
	router := mock.DummyEcho()

	reporter, err := report.New(report.Config{
		Reader:  &lineReader{lines: lines},
		Paths:   []string{"log.txt"},
		Window:  3 * time.Hour,
		Allowed: []string{"Daily", "Weekly"},
	})
	require.NoError(t, err)

	n := &notifier{reporter: reporter}

	handler := NewReport(reporter, n)

	router.Add("GET", "/", handler.Get)
	router.Add("POST", "/", handler.Run)

	return router, n
}

var reportLines = []string{
	"[09:00:00.000] 指令[ Daily ] 执行 失败",
	"[09:05:00.000] 指令[ Daily ] 执行 成功",
	"[09:10:00.000] 指令[ Weekly ] 执行 失败",
}

func TestReportGetNone(t *testing.T) {
	router, _ := getDummyReportRouter(t, reportLines)

	response := mock.Request(t, http.StatusNotFound, router, "GET", "/", nil)

	mock.Validate(t, &api.Error{}, response.Data)
}

func TestReportRunAndGet(t *testing.T) {
	router, n := getDummyReportRouter(t, reportLines)

	response := mock.Request(t, http.StatusOK, router, "POST", "/", nil)

	mock.Validate(t, &api.Report{}, response.Data)

	data := response.Data.(map[string]interface{})
	require.Equal(t, []interface{}{"Daily"}, data["succeeded"])
	require.Equal(t, []interface{}{"Weekly"}, data["failed"])
	require.Equal(t, "OneDragon执行完成：\n❌ 失败指令：Weekly\n成功指令：Daily", data["message"])
	require.Equal(t, false, data["notified"])
	require.Equal(t, 0, n.calls)

	id := data["id"]

	response = mock.Request(t, http.StatusOK, router, "GET", "/", nil)

	mock.Validate(t, &api.Report{}, response.Data)
	require.Equal(t, id, response.Data.(map[string]interface{})["id"])
}

func TestReportRunNotify(t *testing.T) {
	router, n := getDummyReportRouter(t, reportLines)

	response := mock.Request(t, http.StatusOK, router, "POST", "/?notify=true", nil)

	r := api.Report{}
	response.Decode(t, &r)

	require.Equal(t, true, r.Notified)
	require.Equal(t, 1, n.calls)
	require.Len(t, r.Records, 2)
	require.Equal(t, "Weekly", r.Records[1].Instruction)
	require.Equal(t, false, r.Records[1].IsSuccess)
}

func TestReportRunInvalidQuery(t *testing.T) {
	router, _ := getDummyReportRouter(t, reportLines)

	mock.Request(t, http.StatusBadRequest, router, "POST", "/?notify=maybe", nil)
}

func TestReportRunNoLogContent(t *testing.T) {
	router, _ := getDummyReportRouter(t, nil)

	response := mock.Request(t, http.StatusNotFound, router, "POST", "/", nil)

	require.Equal(t, "No log content", response.Message)
	require.Contains(t, string(response.Raw), "最近3小时内未找到有效日志")
}

func TestReportRunWithoutNotifier(t *testing.T) {
	reporter, err := report.New(report.Config{
		Reader: &lineReader{lines: reportLines},
		Window: time.Hour,
	})
	require.NoError(t, err)

	router := mock.DummyEcho()
	router.Add("POST", "/", NewReport(reporter, nil).Run)

	mock.Request(t, http.StatusBadRequest, router, "POST", "/?notify=1", nil)
}

package prometheus

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dragonwatch/dragonwatch/instruction"
	mock "github.com/dragonwatch/dragonwatch/internal/mock/psutil"

	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m Metrics) string {
	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()

	m.HTTPHandler().ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)

	data, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	return string(data)
}

func TestUptime(t *testing.T) {
	m := New()

	err := m.Register(NewUptimeCollector("test", time.Now().Add(-time.Minute)))
	require.NoError(t, err)

	body := scrape(t, m)
	require.Contains(t, body, `dragonwatch_uptime_seconds{instance="test"}`)
}

func TestRecorder(t *testing.T) {
	m := New()

	r, err := NewRecorder(m)
	require.NoError(t, err)

	r.Report(ResultSuccess)
	r.Report(ResultSuccess)
	r.Report(ResultEmpty)
	r.Notification(ResultFailure)
	r.Launch(ResultSuccess)
	r.ProbeError()
	r.Instructions([]instruction.Record{
		{Instruction: "a", IsSuccess: true},
		{Instruction: "b", IsSuccess: false},
	})

	body := scrape(t, m)
	require.Contains(t, body, `dragonwatch_reports_total{result="success"} 2`)
	require.Contains(t, body, `dragonwatch_reports_total{result="empty"} 1`)
	require.Contains(t, body, `dragonwatch_notifications_total{result="failure"} 1`)
	require.Contains(t, body, `dragonwatch_launches_total{result="success"} 1`)
	require.Contains(t, body, `dragonwatch_probe_errors_total 1`)
	require.Contains(t, body, `dragonwatch_instruction_success{instruction="a"} 1`)
	require.Contains(t, body, `dragonwatch_instruction_success{instruction="b"} 0`)

	r.Instructions([]instruction.Record{
		{Instruction: "c", IsSuccess: true},
	})

	body = scrape(t, m)
	require.NotContains(t, body, `dragonwatch_instruction_success{instruction="a"}`)
	require.Contains(t, body, `dragonwatch_instruction_success{instruction="c"} 1`)
}

func TestRecorderRegisterTwice(t *testing.T) {
	m := New()

	_, err := NewRecorder(m)
	require.NoError(t, err)

	_, err = NewRecorder(m)
	require.Error(t, err)

	m.UnregisterAll()

	_, err = NewRecorder(m)
	require.NoError(t, err)
}

func TestProcessCollector(t *testing.T) {
	util := mock.New()
	util.Script("ZenlessZoneZero.exe", true)

	m := New()
	err := m.Register(NewProcessCollector([]string{"OneDragon Scheduler.exe", "ZenlessZoneZero.exe"}, util))
	require.NoError(t, err)

	body := scrape(t, m)
	require.Contains(t, body, `dragonwatch_process_running{name="OneDragon Scheduler.exe"} 0`)
	require.Contains(t, body, `dragonwatch_process_running{name="ZenlessZoneZero.exe"} 1`)
}

func TestRuntimeMetricsKept(t *testing.T) {
	m := New()

	require.NoError(t, m.Register(NewUptimeCollector("test", time.Now())))

	m.UnregisterAll()

	body := scrape(t, m)
	require.Contains(t, body, "go_goroutines")
	require.NotContains(t, body, "dragonwatch_uptime_seconds")
}

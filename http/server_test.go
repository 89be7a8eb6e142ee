package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dragonwatch/dragonwatch/encoding/json"
	mockpsutil "github.com/dragonwatch/dragonwatch/internal/mock/psutil"
	"github.com/dragonwatch/dragonwatch/log"
	"github.com/dragonwatch/dragonwatch/prometheus"
	"github.com/dragonwatch/dragonwatch/report"
	"github.com/dragonwatch/dragonwatch/watchdog"

	"github.com/stretchr/testify/require"
)

type lineReader struct{}

func (r lineReader) ReadLines(paths []string, window time.Duration) []string {
	return []string{"[09:00:00.000] 指令[ Daily ] 执行 成功"}
}

type statusReader struct{}

func (s statusReader) Status() watchdog.Status {
	return watchdog.Status{Mode: "watch", Phase: "watching"}
}

func newTestServer(t *testing.T, buffer log.BufferWriter) Server {
	reporter, err := report.New(report.Config{
		Reader:  lineReader{},
		Window:  3 * time.Hour,
		Allowed: []string{"Daily"},
	})
	require.NoError(t, err)

	metrics := prometheus.New()
	require.NoError(t, metrics.Register(prometheus.NewUptimeCollector("test", time.Now())))

	s, err := NewServer(Config{
		Logger:     log.New("HTTP").WithOutput(buffer),
		LogBuffer:  buffer,
		Prometheus: metrics,
		Reporter:   reporter,
		Watchdog:   statusReader{},
		Probe:      mockpsutil.New(),
		Processes:  []string{"OneDragon Scheduler.exe"},
		ID:         "id",
		Name:       "name",
	})
	require.NoError(t, err)

	return s
}

func request(s Server, method, path string) *http.Response {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(method, path, nil))

	return rec.Result()
}

func TestNewServerRequiresReporter(t *testing.T) {
	_, err := NewServer(Config{})
	require.Error(t, err)
}

func TestServerRoutes(t *testing.T) {
	s := newTestServer(t, log.NewBufferWriter(log.Ldebug, 100))

	tests := []struct {
		method string
		path   string
		status int
	}{
		{"GET", "/ping", http.StatusOK},
		{"GET", "/metrics", http.StatusOK},
		{"GET", "/api", http.StatusOK},
		{"GET", "/api/v1/report", http.StatusNotFound},
		{"POST", "/api/v1/report", http.StatusOK},
		{"GET", "/api/v1/report", http.StatusOK},
		{"POST", "/api/v1/report?notify=true", http.StatusBadRequest},
		{"GET", "/api/v1/process", http.StatusOK},
		{"GET", "/api/v1/log", http.StatusOK},
		{"GET", "/api/v1/watchdog", http.StatusOK},
		{"GET", "/api/v1/config", http.StatusNotFound},
		{"GET", "/api/swagger/doc.json", http.StatusOK},
	}

	for _, test := range tests {
		res := request(s, test.method, test.path)
		res.Body.Close()

		require.Equal(t, test.status, res.StatusCode, "%s %s", test.method, test.path)
	}
}

func TestServerSwaggerDoc(t *testing.T) {
	s := newTestServer(t, nil)

	res := request(s, "GET", "/api/swagger/doc.json")
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	doc := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(body, &doc))

	paths := doc["paths"].(map[string]interface{})
	require.Contains(t, paths, "/api/v1/report")
	require.Contains(t, paths, "/api/v1/watchdog")
}

func TestServerLogsRequests(t *testing.T) {
	buffer := log.NewBufferWriter(log.Ldebug, 100)
	s := newTestServer(t, buffer)

	request(s, "GET", "/ping").Body.Close()
	request(s, "GET", "/api/v1/missing").Body.Close()

	paths := []string{}
	for _, e := range buffer.Events() {
		if path, ok := e.Data["path"].(string); ok {
			paths = append(paths, path)
		}
	}

	require.Equal(t, []string{"/api/v1/missing"}, paths)
}

package watch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dragonwatch/dragonwatch/config"
	"github.com/dragonwatch/dragonwatch/report"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, list, logfile string) string {
	dir := t.TempDir()
	path := filepath.Join(dir, "notify.yaml")

	data := fmt.Sprintf(`notify:
  list: [%s]
log:
  level: debug
  file: ""
watch:
  processes: ["dragonwatch-test-never-running.exe"]
  log_paths: [%q]
  poll_interval: 20ms
launcher:
  enable: false
  require_admin: false
`, list, logfile)

	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	return path
}

func writeLog(t *testing.T, lines ...string) string {
	path := filepath.Join(t.TempDir(), "log.txt")

	data := ""
	for _, line := range lines {
		data += time.Now().Add(-time.Minute).Format("[15:04:05.000] ") + line + "\n"
	}

	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	return path
}

func TestNewInvalidConfig(t *testing.T) {
	_, err := New(writeConfig(t, "", "log.txt"), nil)
	require.Error(t, err)
}

func TestReport(t *testing.T) {
	logfile := writeLog(t, "指令[ Daily ] 执行 成功", "指令[ Weekly ] 执行 失败")

	w, err := New(writeConfig(t, "Daily, Weekly", logfile), nil)
	require.NoError(t, err)
	defer w.Destroy()

	r, err := w.Report(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, 2, r.Lines)
	require.Equal(t, "OneDragon执行完成：\n❌ 失败指令：Weekly\n成功指令：Daily", r.Message)

	r, err = w.Report(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, r.Records, 2)
}

func TestReportNoLogContent(t *testing.T) {
	w, err := New(writeConfig(t, "Daily", filepath.Join(t.TempDir(), "missing.txt")), nil)
	require.NoError(t, err)
	defer w.Destroy()

	_, err = w.Report(context.Background(), false)
	require.ErrorIs(t, err, report.ErrNoLogContent)
}

func TestStartOnce(t *testing.T) {
	logfile := writeLog(t, "指令[ Daily ] 执行 成功")

	w, err := New(writeConfig(t, "Daily", logfile), nil)
	require.NoError(t, err)
	defer w.Destroy()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = w.Start(ctx, config.ModeOnce)
	require.NoError(t, err)

	w.Stop()
}

func TestStartOnceNoLogContent(t *testing.T) {
	w, err := New(writeConfig(t, "Daily", filepath.Join(t.TempDir(), "missing.txt")), nil)
	require.NoError(t, err)
	defer w.Destroy()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = w.Start(ctx, config.ModeOnce)
	require.ErrorIs(t, err, report.ErrNoLogContent)

	w.Stop()
}

func TestStartCanceled(t *testing.T) {
	logfile := writeLog(t, "指令[ Daily ] 执行 成功")

	w, err := New(writeConfig(t, "Daily", logfile), nil)
	require.NoError(t, err)
	defer w.Destroy()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err = w.Start(ctx, config.ModeWatch)
	require.NoError(t, err)

	w.Stop()

	_, err = w.Report(context.Background(), false)
	require.NoError(t, err)
}

func TestReloadWhileIdle(t *testing.T) {
	logfile := writeLog(t, "指令[ Daily ] 执行 成功")

	w, err := New(writeConfig(t, "Daily", logfile), nil)
	require.NoError(t, err)
	defer w.Destroy()

	require.NoError(t, w.Reload())
}

func TestReportWithoutLauncherSection(t *testing.T) {
	logfile := writeLog(t, "指令[ Daily ] 执行 成功")

	dir := t.TempDir()
	path := filepath.Join(dir, "notify.yaml")

	data := fmt.Sprintf(`notify:
  list: [Daily]
log:
  file: %q
watch:
  log_paths: [%q]
`, filepath.Join(dir, "monitor.log"), logfile)

	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	w, err := New(path, nil)
	require.NoError(t, err)
	defer w.Destroy()

	r, err := w.Report(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, "OneDragon执行完成：\n全部成功✅\n成功指令：Daily", r.Message)
}

func TestStartCycleMissingLauncher(t *testing.T) {
	logfile := writeLog(t, "指令[ Daily ] 执行 成功")

	dir := t.TempDir()
	path := filepath.Join(dir, "notify.yaml")

	data := fmt.Sprintf(`notify:
  list: [Daily]
log:
  file: ""
watch:
  processes: ["dragonwatch-test-never-running.exe"]
  log_paths: [%q]
launcher:
  enable: true
  dir: %q
  require_admin: false
`, logfile, dir)

	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	w, err := New(path, nil)
	require.NoError(t, err)
	defer w.Destroy()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = w.Start(ctx, config.ModeCycle)
	require.ErrorContains(t, err, "launcher.binary")

	err = w.Start(ctx, config.ModeOnce)
	require.NoError(t, err)
}

func TestJSONConsoleLog(t *testing.T) {
	logfile := writeLog(t, "指令[ Daily ] 执行 成功")

	dir := t.TempDir()
	path := filepath.Join(dir, "notify.yaml")

	data := fmt.Sprintf(`notify:
  list: [Daily]
log:
  level: info
  format: json
  file: ""
watch:
  log_paths: [%q]
launcher:
  enable: false
`, logfile)

	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	buffer := &bytes.Buffer{}

	w, err := New(path, buffer)
	require.NoError(t, err)

	_, err = w.Report(context.Background(), false)
	require.NoError(t, err)

	w.Destroy()

	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	require.NotEmpty(t, lines)

	for _, line := range lines {
		event := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &event), line)
		require.Contains(t, event, "level")
		require.Contains(t, event, "component")
	}
}

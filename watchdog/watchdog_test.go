package watchdog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	mock "github.com/dragonwatch/dragonwatch/internal/mock/psutil"
	"github.com/dragonwatch/dragonwatch/notify"
	"github.com/dragonwatch/dragonwatch/process"
	"github.com/dragonwatch/dragonwatch/report"
	timesrc "github.com/dragonwatch/dragonwatch/time"

	"github.com/stretchr/testify/require"
)

const (
	scheduler = "OneDragon Scheduler.exe"
	game      = "ZenlessZoneZero.exe"
)

type lineReader struct {
	lines []string
}

func (r *lineReader) ReadLines(paths []string, window time.Duration) []string {
	return r.lines
}

type launcher struct {
	starts  int
	err     error
	onStart func(n int)
}

func (l *launcher) Start() error {
	l.starts++

	if l.onStart != nil {
		l.onStart(l.starts)
	}

	return l.err
}

type harness struct {
	t        *testing.T
	ctx      context.Context
	cancel   context.CancelFunc
	probe    *mock.MockPSUtil
	clock    *timesrc.TestSource
	reader   *lineReader
	launcher *launcher
	sleeps   []time.Duration
	messages []string

	// stop is consulted before every sleep. If it returns true, the
	// context is canceled.
	stop func(h *harness, d time.Duration) bool
}

func newHarness(t *testing.T) *harness {
	ctx, cancel := context.WithCancel(context.Background())

	h := &harness{
		t:      t,
		ctx:    ctx,
		cancel: cancel,
		probe:  mock.New(),
		clock:  &timesrc.TestSource{N: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		reader: &lineReader{
			lines: []string{"[10:00:00.000] 指令 [ 刷体力 ] 执行 成功"},
		},
		launcher: &launcher{},
	}

	t.Cleanup(cancel)

	return h
}

func (h *harness) sleep(ctx context.Context, d time.Duration) error {
	h.sleeps = append(h.sleeps, d)

	if len(h.sleeps) > 100 {
		h.t.Error("too many sleeps")
		h.cancel()
	}

	if h.stop != nil && h.stop(h, d) {
		h.cancel()
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	h.clock.Add(d)

	return nil
}

func (h *harness) watchdog(schedule string) Watchdog {
	reporter, err := report.New(report.Config{
		Reader:  h.reader,
		Paths:   []string{".log/log.txt"},
		Window:  3 * time.Hour,
		Allowed: []string{"刷体力"},
	})
	require.NoError(h.t, err)

	s, err := process.NewScheduler(schedule)
	require.NoError(h.t, err)

	w, err := New(Config{
		Processes:      []string{scheduler, game},
		PollInterval:   5 * time.Second,
		Backoff:        DefaultBackoff,
		MaxProbeErrors: 3,
		Schedule:       s,
		Launcher:       h.launcher,
		Probe:          h.probe,
		Reporter:       reporter,
		Dispatcher: notify.NewDispatcher(notify.DispatcherConfig{
			Notifiers: []notify.Notifier{
				notify.NotifierFunc(func(ctx context.Context, message string) error {
					h.messages = append(h.messages, message)
					return nil
				}),
			},
		}),
		Clock: h.clock,
		Sleep: h.sleep,
	})
	require.NoError(h.t, err)

	return w
}

const successMessage = "OneDragon执行完成：\n全部成功✅\n成功指令：刷体力"

func TestNewValidation(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)

	_, err = New(Config{Processes: []string{scheduler}})
	require.Error(t, err)

	_, err = New(Config{Processes: []string{scheduler}, Probe: mock.New()})
	require.Error(t, err)
}

func TestBackoff(t *testing.T) {
	b := DefaultBackoff

	d := b.Initial
	steps := []time.Duration{d}
	for i := 0; i < 5; i++ {
		d = b.Next(d)
		steps = append(steps, d)
	}

	require.Equal(t, []time.Duration{
		60 * time.Second,
		90 * time.Second,
		135 * time.Second,
		202500 * time.Millisecond,
		300 * time.Second,
		300 * time.Second,
	}, steps)

	n := Backoff{}.normalize()
	require.Equal(t, DefaultBackoff.Initial, n.Initial)
	require.Equal(t, DefaultBackoff.Initial, n.Max)
	require.Equal(t, 1.0, n.Factor)
}

func TestUnknownMode(t *testing.T) {
	h := newHarness(t)
	w := h.watchdog("4h")

	err := w.Run(h.ctx, "sometimes")
	require.Error(t, err)
}

func TestCycle(t *testing.T) {
	h := newHarness(t)
	h.probe.Script(scheduler, true, false)
	h.probe.Script(game, true, true, false)
	h.stop = func(h *harness, d time.Duration) bool {
		return d > time.Hour
	}

	w := h.watchdog("4h")

	err := w.Run(h.ctx, "cycle")
	require.NoError(t, err)

	require.Equal(t, 1, h.launcher.starts)
	require.Equal(t, []time.Duration{
		60 * time.Second,
		90 * time.Second,
		135 * time.Second,
		4*time.Hour - 285*time.Second,
	}, h.sleeps)
	require.Equal(t, []string{successMessage}, h.messages)

	status := w.Status()
	require.Equal(t, "cycle", status.Mode)
	require.Equal(t, uint64(1), status.Cycles)
	require.Equal(t, uint64(1), status.Reports)
	require.Equal(t, time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC), status.NextCycle)
}

func TestCycleNoLogContent(t *testing.T) {
	h := newHarness(t)
	h.reader.lines = nil
	h.stop = func(h *harness, d time.Duration) bool {
		return d > time.Hour
	}

	w := h.watchdog("4h")

	err := w.Run(h.ctx, "cycle")
	require.NoError(t, err)

	require.Equal(t, []string{"⚠️ 监控程序异常：最近3小时内未找到有效日志"}, h.messages)
	require.Equal(t, []time.Duration{60 * time.Second, 4*time.Hour - 60*time.Second}, h.sleeps)
	require.Equal(t, "最近3小时内未找到有效日志", w.Status().LastError)
}

func TestCycleProbeErrors(t *testing.T) {
	h := newHarness(t)
	h.probe.Fail(fmt.Errorf("access denied"), fmt.Errorf("access denied"), fmt.Errorf("access denied"))
	h.stop = func(h *harness, d time.Duration) bool {
		return d > time.Hour
	}

	w := h.watchdog("4h")

	err := w.Run(h.ctx, "cycle")
	require.NoError(t, err)

	require.Len(t, h.messages, 1)
	require.Contains(t, h.messages[0], notify.ExceptionPrefix)
	require.Contains(t, h.messages[0], ErrProbe.Error())
	require.Equal(t, []time.Duration{
		60 * time.Second,
		90 * time.Second,
		135 * time.Second,
		4*time.Hour - 285*time.Second,
	}, h.sleeps)
}

func TestCycleProbeRecovers(t *testing.T) {
	h := newHarness(t)
	h.probe.Fail(fmt.Errorf("access denied"), fmt.Errorf("access denied"))
	h.stop = func(h *harness, d time.Duration) bool {
		return d > time.Hour
	}

	w := h.watchdog("4h")

	err := w.Run(h.ctx, "cycle")
	require.NoError(t, err)

	require.Equal(t, []string{successMessage}, h.messages)
}

func TestCycleLaunchFailure(t *testing.T) {
	h := newHarness(t)
	h.launcher.err = fmt.Errorf("file not found")
	h.stop = func(h *harness, d time.Duration) bool {
		return d > time.Hour
	}

	w := h.watchdog("4h")

	err := w.Run(h.ctx, "cycle")
	require.NoError(t, err)

	require.Equal(t, []string{"⚠️ 监控程序异常：launching companion failed: file not found"}, h.messages)
	require.Equal(t, []time.Duration{4 * time.Hour}, h.sleeps)
}

func TestCycleOverrun(t *testing.T) {
	h := newHarness(t)
	h.probe.Script(scheduler, true, false)
	h.launcher.onStart = func(n int) {
		if n == 2 {
			h.cancel()
		}
	}

	w := h.watchdog("100s")

	err := w.Run(h.ctx, "cycle")
	require.NoError(t, err)

	require.Equal(t, 2, h.launcher.starts)
	require.Equal(t, []time.Duration{60 * time.Second, 90 * time.Second, 60 * time.Second}, h.sleeps)
	require.Equal(t, []string{successMessage}, h.messages)
}

func TestCyclePointInTime(t *testing.T) {
	h := newHarness(t)

	w := h.watchdog("2024-05-01T09:00:00Z")

	err := w.Run(h.ctx, "cycle")
	require.NoError(t, err)

	require.Equal(t, 1, h.launcher.starts)
	require.Equal(t, []string{successMessage}, h.messages)
}

func TestWatch(t *testing.T) {
	h := newHarness(t)
	h.probe.Script(scheduler, false, true, true, false)
	h.stop = func(h *harness, d time.Duration) bool {
		return len(h.messages) != 0
	}

	w := h.watchdog("4h")

	err := w.Run(h.ctx, "watch")
	require.NoError(t, err)

	require.Equal(t, 0, h.launcher.starts)
	require.Equal(t, []time.Duration{
		5 * time.Second,
		5 * time.Second,
		5 * time.Second,
		60 * time.Second,
		5 * time.Second,
	}, h.sleeps)
	require.Equal(t, []string{successMessage}, h.messages)
}

func TestWatchRearm(t *testing.T) {
	h := newHarness(t)
	h.probe.Script(scheduler, true, false, false, true, false)
	h.stop = func(h *harness, d time.Duration) bool {
		return len(h.messages) == 2
	}

	w := h.watchdog("4h")

	err := w.Run(h.ctx, "watch")
	require.NoError(t, err)

	require.Equal(t, []string{successMessage, successMessage}, h.messages)
}

func TestWatchNoLogContentContinues(t *testing.T) {
	h := newHarness(t)
	h.reader.lines = nil
	h.probe.Script(scheduler, true, false)
	h.stop = func(h *harness, d time.Duration) bool {
		return len(h.messages) != 0
	}

	w := h.watchdog("4h")

	err := w.Run(h.ctx, "watch")
	require.NoError(t, err)

	require.Equal(t, []string{"⚠️ 监控程序异常：最近3小时内未找到有效日志"}, h.messages)
}

func TestOnce(t *testing.T) {
	h := newHarness(t)
	h.probe.Script(scheduler, true, true, false)
	h.probe.Script(game, true)

	w := h.watchdog("4h")

	err := w.Run(h.ctx, "once")
	require.NoError(t, err)

	require.Equal(t, []time.Duration{60 * time.Second, 90 * time.Second}, h.sleeps)
	require.Equal(t, []string{successMessage}, h.messages)
	require.Equal(t, 0, h.probe.CallCount(game))
	require.Equal(t, 0, h.launcher.starts)
}

func TestOnceNotRunning(t *testing.T) {
	h := newHarness(t)

	w := h.watchdog("4h")

	err := w.Run(h.ctx, "once")
	require.NoError(t, err)

	require.Empty(t, h.sleeps)
	require.Equal(t, []string{successMessage}, h.messages)
}

func TestOnceNoLogContent(t *testing.T) {
	h := newHarness(t)
	h.reader.lines = nil

	w := h.watchdog("4h")

	err := w.Run(h.ctx, "once")
	require.Error(t, err)
	require.True(t, errors.Is(err, report.ErrNoLogContent))
	require.Equal(t, []string{"⚠️ 监控程序异常：最近3小时内未找到有效日志"}, h.messages)
}

func TestOnceCanceled(t *testing.T) {
	h := newHarness(t)
	h.probe.Script(scheduler, true)
	h.stop = func(h *harness, d time.Duration) bool {
		return true
	}

	w := h.watchdog("4h")

	err := w.Run(h.ctx, "once")
	require.NoError(t, err)

	require.Empty(t, h.messages)
	require.Equal(t, "idle", w.Status().Phase)
}

func TestDefaultSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sleep(ctx, time.Hour)
	require.ErrorIs(t, err, context.Canceled)

	err = sleep(context.Background(), time.Millisecond)
	require.NoError(t, err)
}

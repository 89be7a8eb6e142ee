// Package watchdog decides when to build and send a report. It waits for the
// watched processes to stop, either after launching the companion on a
// schedule, after the trigger process exited, or just once.
package watchdog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dragonwatch/dragonwatch/config"
	"github.com/dragonwatch/dragonwatch/log"
	"github.com/dragonwatch/dragonwatch/notify"
	"github.com/dragonwatch/dragonwatch/process"
	"github.com/dragonwatch/dragonwatch/prometheus"
	"github.com/dragonwatch/dragonwatch/psutil"
	"github.com/dragonwatch/dragonwatch/report"
	timesrc "github.com/dragonwatch/dragonwatch/time"
)

// ErrProbe is returned if the process probe failed too often in a row.
var ErrProbe = errors.New("process probe failed repeatedly")

// Launcher starts the companion program.
type Launcher interface {
	Start() error
}

// SleepFunc waits for the duration or until the context is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

type Config struct {
	// Processes are the names of the watched processes. The first one
	// is the trigger process for the watch and the once mode.
	Processes []string

	PollInterval   time.Duration
	Backoff        Backoff
	MaxProbeErrors int

	// Schedule is the schedule of the cycles. Defaults to every 4 hours.
	Schedule process.Scheduler

	// Launcher is started at the beginning of every cycle. Optional.
	Launcher Launcher

	Probe      psutil.Util
	Reporter   report.Reporter
	Dispatcher notify.Dispatcher
	Metrics    prometheus.Recorder
	Logger     log.Logger
	Clock      timesrc.Source
	Sleep      SleepFunc
}

// Status is a snapshot of the watchdog's progress.
type Status struct {
	Mode      string    `json:"mode"`
	Phase     string    `json:"phase"`
	Cycles    uint64    `json:"cycles"`
	Reports   uint64    `json:"reports"`
	LastError string    `json:"last_error,omitempty"`
	NextCycle time.Time `json:"next_cycle"`
}

const (
	phaseIdle      = "idle"
	phaseLaunching = "launching"
	phaseWaiting   = "waiting"
	phaseReporting = "reporting"
	phaseSleeping  = "sleeping"
	phaseWatching  = "watching"
)

type Watchdog interface {
	// Run runs the watchdog in the given mode until the context is done. In
	// once mode it returns after the first report.
	Run(ctx context.Context, mode string) error

	// Report builds a report and dispatches it.
	Report(ctx context.Context) (report.Report, error)

	Status() Status
}

type watchdog struct {
	processes      []string
	pollInterval   time.Duration
	backoff        Backoff
	maxProbeErrors int
	schedule       process.Scheduler
	launcher       Launcher
	probe          psutil.Util
	reporter       report.Reporter
	dispatcher     notify.Dispatcher
	metrics        prometheus.Recorder
	logger         log.Logger
	clock          timesrc.Source
	sleep          SleepFunc

	status Status
	lock   sync.Mutex
}

func New(config Config) (Watchdog, error) {
	w := &watchdog{
		processes:      append([]string{}, config.Processes...),
		pollInterval:   config.PollInterval,
		backoff:        config.Backoff.normalize(),
		maxProbeErrors: config.MaxProbeErrors,
		schedule:       config.Schedule,
		launcher:       config.Launcher,
		probe:          config.Probe,
		reporter:       config.Reporter,
		dispatcher:     config.Dispatcher,
		metrics:        config.Metrics,
		logger:         config.Logger,
		clock:          config.Clock,
		sleep:          config.Sleep,
	}

	if len(w.processes) == 0 {
		return nil, fmt.Errorf("no processes to watch")
	}

	if w.probe == nil {
		return nil, fmt.Errorf("no process probe given")
	}

	if w.reporter == nil {
		return nil, fmt.Errorf("no reporter given")
	}

	if w.pollInterval <= 0 {
		w.pollInterval = 5 * time.Second
	}

	if w.maxProbeErrors <= 0 {
		w.maxProbeErrors = 3
	}

	if w.schedule == nil {
		w.schedule, _ = process.NewScheduler("4h")
	}

	if w.dispatcher == nil {
		w.dispatcher = notify.NewDispatcher(notify.DispatcherConfig{})
	}

	if w.metrics == nil {
		w.metrics = prometheus.NewDummyRecorder()
	}

	if w.logger == nil {
		w.logger = log.New("")
	}

	if w.clock == nil {
		w.clock = &timesrc.StdSource{}
	}

	if w.sleep == nil {
		w.sleep = sleep
	}

	w.status.Phase = phaseIdle

	return w, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (w *watchdog) Status() Status {
	w.lock.Lock()
	defer w.lock.Unlock()

	return w.status
}

func (w *watchdog) setPhase(phase string) {
	w.lock.Lock()
	defer w.lock.Unlock()

	w.status.Phase = phase
}

func (w *watchdog) setError(err error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	if err == nil {
		w.status.LastError = ""
		return
	}

	w.status.LastError = err.Error()
}

func (w *watchdog) Run(ctx context.Context, mode string) error {
	w.lock.Lock()
	w.status.Mode = mode
	w.lock.Unlock()

	w.logger.Info().WithFields(log.Fields{
		"mode":      mode,
		"processes": w.processes,
	}).Log("Watchdog started")

	var err error

	switch mode {
	case config.ModeCycle:
		err = w.runCycles(ctx)
	case config.ModeWatch:
		err = w.runWatch(ctx)
	case config.ModeOnce:
		err = w.runOnce(ctx)
	default:
		return fmt.Errorf("unknown mode '%s'", mode)
	}

	w.setPhase(phaseIdle)

	if ctx.Err() != nil {
		w.logger.Info().Log("stopped by user")
		return nil
	}

	return err
}

func (w *watchdog) runCycles(ctx context.Context) error {
	for {
		start := w.clock.Now()

		if err := w.cycle(ctx); err != nil && ctx.Err() != nil {
			return err
		}

		d, err := w.schedule.NextAfter(start)
		if err != nil {
			w.logger.Info().Log("No further cycle scheduled")
			return nil
		}

		next := start.Add(d)

		w.lock.Lock()
		w.status.NextCycle = next
		w.lock.Unlock()

		wait := next.Sub(w.clock.Now())
		if wait <= 0 {
			continue
		}

		w.logger.Info().WithField("next", next.Format(time.RFC3339)).Log("Waiting for next cycle")

		w.setPhase(phaseSleeping)
		if err := w.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// cycle launches the companion, waits until all watched processes stopped
// and sends the report. Errors are dispatched before they are returned.
func (w *watchdog) cycle(ctx context.Context) error {
	w.lock.Lock()
	w.status.Cycles++
	w.lock.Unlock()

	w.logger.Info().Log("Starting cycle")

	if w.launcher != nil {
		w.setPhase(phaseLaunching)

		if err := w.launcher.Start(); err != nil {
			w.metrics.Launch(prometheus.ResultFailure)
			err = fmt.Errorf("launching companion failed: %w", err)
			w.fail(ctx, err)
			return err
		}

		w.metrics.Launch(prometheus.ResultSuccess)
	}

	if err := w.waitStopped(ctx, w.processes, false); err != nil {
		if ctx.Err() == nil {
			w.fail(ctx, err)
		}
		return err
	}

	return w.report(ctx)
}

func (w *watchdog) runWatch(ctx context.Context) error {
	trigger := w.processes[0]
	previous := false
	failures := 0

	w.logger.Info().WithField("trigger", trigger).Log("Watching trigger process")

	for {
		w.setPhase(phaseWatching)

		running, err := w.probe.Running(trigger)
		if err != nil {
			failures++
			w.probeFailed(err, failures)

			if failures >= w.maxProbeErrors {
				w.fail(ctx, fmt.Errorf("%w: %s", ErrProbe, err))
				failures = 0
			}
		} else {
			failures = 0

			if previous && !running {
				w.logger.Info().WithField("trigger", trigger).Log("Trigger process exited")

				if err := w.waitStopped(ctx, w.processes, false); err != nil {
					if ctx.Err() != nil {
						return err
					}

					w.fail(ctx, err)
				} else {
					w.report(ctx)
				}

				w.logger.Info().WithField("trigger", trigger).Log("Watching trigger process")
			}

			previous = running
		}

		if err := w.sleep(ctx, w.pollInterval); err != nil {
			return err
		}
	}
}

func (w *watchdog) runOnce(ctx context.Context) error {
	if err := w.waitStopped(ctx, w.processes[:1], true); err != nil {
		if ctx.Err() == nil {
			w.fail(ctx, err)
		}
		return err
	}

	return w.report(ctx)
}

// waitStopped polls with a growing interval until none of the processes
// is running. The first check happens immediately if checkFirst is true,
// otherwise after the first interval.
func (w *watchdog) waitStopped(ctx context.Context, names []string, checkFirst bool) error {
	w.setPhase(phaseWaiting)

	interval := w.backoff.Initial
	failures := 0
	skipSleep := checkFirst

	for {
		if !skipSleep {
			if err := w.sleep(ctx, interval); err != nil {
				return err
			}

			interval = w.backoff.Next(interval)
		}

		skipSleep = false

		running, err := w.anyRunning(names)
		if err != nil {
			failures++
			w.probeFailed(err, failures)

			if failures >= w.maxProbeErrors {
				return fmt.Errorf("%w: %s", ErrProbe, err)
			}

			continue
		}

		failures = 0

		if len(running) == 0 {
			w.logger.Warn().WithField("processes", names).Log("Target processes not running, processing log")
			return nil
		}

		w.logger.Debug().WithFields(log.Fields{
			"running": running,
			"next":    interval.String(),
		}).Log("Still running")
	}
}

func (w *watchdog) anyRunning(names []string) ([]string, error) {
	running := []string{}

	for _, name := range names {
		ok, err := w.probe.Running(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		if ok {
			running = append(running, name)
		}
	}

	return running, nil
}

func (w *watchdog) probeFailed(err error, failures int) {
	w.metrics.ProbeError()
	w.logger.Warn().WithError(err).WithField("failures", failures).Log("Process probe failed")
}

func (w *watchdog) fail(ctx context.Context, err error) {
	w.setError(err)
	w.logger.Error().WithError(err).Log("Watchdog error")
	w.dispatcher.DispatchError(ctx, err)
}

func (w *watchdog) report(ctx context.Context) error {
	w.setPhase(phaseReporting)

	_, err := w.Report(ctx)

	return err
}

func (w *watchdog) Report(ctx context.Context) (report.Report, error) {
	r, err := w.reporter.Run()
	if err != nil {
		w.fail(ctx, err)
		return report.Report{}, err
	}

	w.setError(nil)

	w.lock.Lock()
	w.status.Reports++
	w.lock.Unlock()

	w.dispatcher.Dispatch(ctx, r.Message)

	return r, nil
}

// Package watch wires the components of the watchdog together and runs them
// according to the configuration.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	golog "log"
	gohttp "net/http"
	"strings"
	"sync"
	"time"

	"github.com/dragonwatch/dragonwatch/app"
	"github.com/dragonwatch/dragonwatch/config"
	configstore "github.com/dragonwatch/dragonwatch/config/store"
	configvars "github.com/dragonwatch/dragonwatch/config/vars"
	"github.com/dragonwatch/dragonwatch/elevate"
	"github.com/dragonwatch/dragonwatch/http"
	"github.com/dragonwatch/dragonwatch/log"
	"github.com/dragonwatch/dragonwatch/logwindow"
	"github.com/dragonwatch/dragonwatch/notify"
	"github.com/dragonwatch/dragonwatch/process"
	"github.com/dragonwatch/dragonwatch/prometheus"
	"github.com/dragonwatch/dragonwatch/psutil"
	"github.com/dragonwatch/dragonwatch/report"
	timesrc "github.com/dragonwatch/dragonwatch/time"
	"github.com/dragonwatch/dragonwatch/watchdog"

	"github.com/google/gops/agent"
	"go.uber.org/automaxprocs/maxprocs"
)

// The Watch interface runs the watchdog with the components described by
// the configuration file.
type Watch interface {
	// Start runs the watch loop in the given mode. An empty mode uses the
	// mode from the configuration. This is blocking until the loop ended,
	// the context has been canceled, or the app has been stopped. An
	// ErrConfigReload error is returned if a configuration reload has been
	// requested.
	Start(ctx context.Context, mode string) error

	// Report builds a single report from the recent log lines. With send
	// the message is sent to the configured notifiers as well.
	Report(ctx context.Context, send bool) (report.Report, error)

	// Stop stops the watch loop and the API server.
	Stop()

	// Destroy is the same as Stop() but closes the log writers as well.
	Destroy()

	// Reload the configuration. If there's an error the previously
	// loaded configuration is not altered.
	Reload() error
}

type watch struct {
	prom       prometheus.Metrics
	probe      psutil.Util
	reporter   report.Reporter
	dispatcher notify.Dispatcher
	launcher   process.Process
	watchdog   watchdog.Watchdog
	mainserver *gohttp.Server

	errorChan chan error
	cancel    context.CancelFunc

	log struct {
		writer io.Writer
		buffer log.BufferWriter
		output log.Writer
		logger struct {
			core log.Logger
			main log.Logger
		}
	}

	config struct {
		path   string
		store  configstore.Store
		config *config.Config
	}

	lock   sync.Mutex
	wgStop sync.WaitGroup
	state  string

	undoMaxprocs func()

	createdAt time.Time
}

// ErrConfigReload is an error returned to indicate that a reload of
// the configuration has been requested.
var ErrConfigReload = fmt.Errorf("configuration reload")

// ErrRelaunched is returned by Start if the app has been started again with
// administrator rights. The current instance should exit.
var ErrRelaunched = fmt.Errorf("relaunched with administrator rights")

// New returns a new instance of the Watch interface. The configuration is read
// from configpath. Console logs are written to logwriter.
func New(configpath string, logwriter io.Writer) (Watch, error) {
	a := &watch{
		state:     "idle",
		probe:     psutil.DefaultUtil,
		createdAt: time.Now(),
	}

	a.config.path = configpath
	a.log.writer = logwriter

	if a.log.writer == nil {
		a.log.writer = io.Discard
	}

	a.errorChan = make(chan error, 1)

	if err := a.Reload(); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *watch) Reload() error {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.state == "running" {
		return fmt.Errorf("can't reload config while running")
	}

	if a.errorChan == nil {
		a.errorChan = make(chan error, 1)
	}

	logger := log.New("Core").WithOutput(log.NewConsoleWriter(a.log.writer, log.Lwarn, true))

	store, err := configstore.NewYAML(a.config.path, func() {
		select {
		case a.errorChan <- ErrConfigReload:
		default:
		}
	})
	if err != nil {
		return err
	}

	cfg := store.Get()

	cfg.Merge(nil)

	cfg.Validate(false)

	loglevel, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		loglevel = log.Linfo
	}

	buffer := log.NewBufferWriter(loglevel, cfg.Log.MaxLines)

	var console log.Writer

	if cfg.Log.Format == "json" {
		console = log.NewJSONWriter(a.log.writer, loglevel)
	} else {
		console = log.NewConsoleWriter(a.log.writer, loglevel, true)
	}

	writers := []log.Writer{console, buffer}

	if len(cfg.Log.File) != 0 {
		file, err := log.NewFileWriter(cfg.Log.File, loglevel)
		if err != nil {
			logger.Warn().WithError(err).WithField("file", cfg.Log.File).Log("Logging to file is disabled")
		} else {
			writers = append(writers, file)
		}
	}

	output := log.NewMultiWriter(writers...)

	logger = logger.WithOutput(output)

	logger.Info().WithFields(log.Fields(app.Fields())).Log("")

	logger.Info().WithField("path", store.Location()).Log("Read config file")

	configlogger := logger.WithComponent("Config")
	cfg.Messages(func(level string, v configvars.Variable, message string) {
		configlogger = configlogger.WithFields(log.Fields{
			"variable":    v.Name,
			"value":       v.Value,
			"env":         v.EnvName,
			"description": v.Description,
			"override":    v.Merged,
		})
		configlogger.Debug().Log(message)

		switch level {
		case "warn":
			configlogger.Warn().Log(message)
		case "error":
			configlogger.Error().WithField("error", message).Log("")
		default:
			break
		}
	})

	if cfg.HasErrors() {
		logger.Error().WithField("error", "Not all variables are set or are valid. Check the error messages above. Bailing out.").Log("")
		output.Close()
		return fmt.Errorf("not all variables are set or valid")
	}

	store.SetActive(cfg)

	if a.log.output != nil {
		a.log.output.Close()
	}

	a.config.store = store
	a.config.config = cfg
	a.log.logger.core = logger
	a.log.logger.main = logger.WithComponent("HTTP")
	a.log.buffer = buffer
	a.log.output = output

	return nil
}

// build creates the components that are needed for building and sending
// a report and for running the watch loop.
func (a *watch) build(cfg *config.Config) error {
	logger := a.log.logger.core

	a.prom = prometheus.New()

	recorder, err := prometheus.NewRecorder(a.prom)
	if err != nil {
		return fmt.Errorf("unable to register metrics: %w", err)
	}

	if err := a.prom.Register(prometheus.NewUptimeCollector(cfg.ID, a.createdAt)); err != nil {
		return fmt.Errorf("unable to register uptime collector: %w", err)
	}

	if err := a.prom.Register(prometheus.NewProcessCollector(cfg.Watch.Processes, a.probe)); err != nil {
		return fmt.Errorf("unable to register process collector: %w", err)
	}

	clock := &timesrc.StdSource{}

	reader := logwindow.New(logwindow.Config{
		Logger: logger.WithComponent("Log"),
		Clock:  clock,
	})

	reporter, err := report.New(report.Config{
		Reader:  reader,
		Paths:   cfg.Watch.LogPaths,
		Window:  cfg.Watch.Window,
		Allowed: cfg.Notify.List,
		Metrics: recorder,
		Logger:  logger.WithComponent("Report"),
		Clock:   clock,
	})
	if err != nil {
		return fmt.Errorf("unable to create reporter: %w", err)
	}

	a.reporter = reporter

	notifiers := []notify.Notifier{}

	if len(cfg.Notify.BotToken) != 0 {
		telegram, err := notify.NewTelegram(notify.TelegramConfig{
			Token:   cfg.Notify.BotToken,
			ChatID:  cfg.Notify.ChatID,
			Proxy:   cfg.Notify.Proxy,
			APIURL:  cfg.Notify.APIURL,
			Timeout: cfg.Notify.Timeout,
		})
		if err != nil {
			return fmt.Errorf("unable to create telegram notifier: %w", err)
		}

		notifiers = append(notifiers, telegram)
	} else {
		logger.Warn().Log("No Telegram bot configured, notifications are disabled")
	}

	a.dispatcher = notify.NewDispatcher(notify.DispatcherConfig{
		Notifiers: notifiers,
		Metrics:   recorder,
		Logger:    logger.WithComponent("Notify"),
	})

	schedule, err := process.NewScheduler(cfg.Launcher.Schedule)
	if err != nil {
		return fmt.Errorf("invalid launcher schedule: %w", err)
	}

	var launcher watchdog.Launcher

	if cfg.Launcher.Enable {
		launcherlogger := logger.WithComponent("Launcher")

		proc, err := process.New(process.Config{
			Binary: cfg.LauncherPath(),
			Args:   cfg.Launcher.Args,
			Dir:    cfg.Launcher.Dir,
			OnExit: func(state string, code int) {
				launcherlogger.Info().WithFields(log.Fields{
					"state":     state,
					"exit_code": code,
				}).Log("Companion exited")
			},
			Logger: launcherlogger,
		})
		if err != nil {
			return fmt.Errorf("unable to create launcher: %w", err)
		}

		a.launcher = proc
		launcher = proc
	}

	wd, err := watchdog.New(watchdog.Config{
		Processes:    cfg.Watch.Processes,
		PollInterval: cfg.Watch.PollInterval,
		Backoff: watchdog.Backoff{
			Initial: cfg.Watch.Backoff.Initial,
			Max:     cfg.Watch.Backoff.Max,
			Factor:  cfg.Watch.Backoff.Factor,
		},
		MaxProbeErrors: cfg.Watch.MaxProbeErrors,
		Schedule:       schedule,
		Launcher:       launcher,
		Probe:          a.probe,
		Reporter:       reporter,
		Dispatcher:     a.dispatcher,
		Metrics:        recorder,
		Logger:         logger.WithComponent("Watchdog"),
		Clock:          clock,
	})
	if err != nil {
		return fmt.Errorf("unable to create watchdog: %w", err)
	}

	a.watchdog = wd

	return nil
}

func (a *watch) start(ctx context.Context, mode string) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.errorChan == nil {
		a.errorChan = make(chan error, 1)
	}

	if a.state == "running" {
		return fmt.Errorf("already running")
	}

	a.state = "starting"

	cfg := a.config.store.GetActive()
	logger := a.log.logger.core

	if len(mode) == 0 {
		mode = cfg.Watch.Mode
	}

	if err := cfg.CheckLauncher(mode); err != nil {
		logger.Error().WithError(err).Log("The companion can't be started")
		return err
	}

	if cfg.Launcher.RequireAdmin && mode != config.ModeOnce && !elevate.IsElevated() {
		err := elevate.Relaunch()
		if err == nil {
			logger.Info().Log("Started again with administrator rights")
			return ErrRelaunched
		}

		if !errors.Is(err, elevate.ErrUnsupported) {
			return fmt.Errorf("requesting administrator rights failed: %w", err)
		}

		logger.Warn().WithError(err).Log("Continuing without administrator rights")
	}

	if cfg.Debug.AutoMaxProcs {
		undoMaxprocs, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			format = strings.TrimPrefix(format, "maxprocs: ")
			logger.Debug().Log(format, args...)
		}))
		if err != nil {
			logger.Warn().Log("%s", err.Error())
		}

		a.undoMaxprocs = undoMaxprocs
	}

	if cfg.Debug.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			logger.Error().WithError(err).Log("Starting gops agent failed")
		}
	}

	if err := a.build(cfg); err != nil {
		return err
	}

	sendError := func(err error) {
		select {
		case a.errorChan <- err:
		default:
		}
	}

	if cfg.API.Enable {
		mainserverhandler, err := http.NewServer(http.Config{
			Logger:     a.log.logger.main,
			LogBuffer:  a.log.buffer,
			Prometheus: a.prom,
			Reporter:   a.reporter,
			Notifier:   a.watchdog,
			Watchdog:   a.watchdog,
			Probe:      a.probe,
			Processes:  cfg.Watch.Processes,
			Config:     a.config.store,
			ID:         cfg.ID,
			Name:       cfg.Name,
			CreatedAt:  a.createdAt,
		})
		if err != nil {
			return fmt.Errorf("unable to create server: %w", err)
		}

		a.mainserver = &gohttp.Server{
			Addr:              cfg.API.Address,
			Handler:           mainserverhandler,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
			MaxHeaderBytes:    1 << 20,
			ErrorLog:          golog.New(a.log.logger.main.Debug(), "", 0),
		}

		var wgStart sync.WaitGroup

		wgStart.Add(1)
		a.wgStop.Add(1)

		go func() {
			logger := a.log.logger.main.WithField("address", cfg.API.Address)

			defer func() {
				logger.Info().Log("Server exited")
				a.wgStop.Done()
			}()

			wgStart.Done()

			logger.Info().Log("Server started")
			err := a.mainserver.ListenAndServe()
			if err != nil && err != gohttp.ErrServerClosed {
				sendError(fmt.Errorf("HTTP server: %w", err))
			}
		}()

		wgStart.Wait()
	}

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.wgStop.Add(1)

	go func() {
		defer a.wgStop.Done()

		err := a.watchdog.Run(ctx, mode)

		// A canceled loop ends without an error. If a reload has been requested
		// in the meantime, that error is already waiting in the channel.
		sendError(err)
	}()

	a.state = "running"

	return nil
}

func (a *watch) Start(ctx context.Context, mode string) error {
	if err := a.start(ctx, mode); err != nil {
		a.stop()
		return err
	}

	// Block until the loop ended or there's an error from the server
	err := <-a.errorChan

	return err
}

func (a *watch) Report(ctx context.Context, send bool) (report.Report, error) {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.state == "running" {
		return report.Report{}, fmt.Errorf("already running")
	}

	if err := a.build(a.config.store.GetActive()); err != nil {
		return report.Report{}, err
	}

	defer a.prom.UnregisterAll()

	if send {
		return a.watchdog.Report(ctx)
	}

	return a.reporter.Run()
}

func (a *watch) stop() {
	a.lock.Lock()
	defer a.lock.Unlock()

	logger := a.log.logger.core.WithField("action", "shutdown")

	if a.state == "idle" {
		logger.Info().Log("Complete")
		return
	}

	// Stop the watch loop
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}

	// The companion is not stopped, it keeps running on its own
	if a.launcher != nil {
		if a.launcher.IsRunning() {
			logger.Info().WithField("pid", a.launcher.Status().PID).Log("Companion keeps running")
		}

		a.launcher = nil
	}

	if a.prom != nil {
		a.prom.UnregisterAll()
		a.prom = nil
	}

	// Shutdown the HTTP server
	if a.mainserver != nil {
		logger := a.log.logger.main
		logger.Info().Log("Stopping ...")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.mainserver.Shutdown(ctx); err != nil {
			logger.Error().WithError(err).Log("")
		}

		a.mainserver = nil
	}

	// Stop gops agent
	agent.Close()

	// Wait for the loop and the server to exit
	logger.Info().Log("Waiting for the watch loop to stop ...")
	a.wgStop.Wait()

	// Drain error channel
	if a.errorChan != nil {
		close(a.errorChan)
		a.errorChan = nil
	}

	a.state = "idle"

	if a.undoMaxprocs != nil {
		a.undoMaxprocs()
		a.undoMaxprocs = nil
	}

	logger.Info().Log("Complete")
}

func (a *watch) Stop() {
	a.log.logger.core.Info().Log("Shutdown requested ...")
	a.stop()
}

func (a *watch) Destroy() {
	a.log.logger.core.Info().Log("Shutdown requested ...")
	a.stop()

	if a.log.output != nil {
		a.log.output.Close()
		a.log.output = nil
	}
}

// Package config implements types for handling the configuation for the app.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/dragonwatch/dragonwatch/config/copy"
	"github.com/dragonwatch/dragonwatch/config/value"
	"github.com/dragonwatch/dragonwatch/config/vars"

	haikunator "github.com/atrox/haikunatorgo/v2"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Version is the current layout version of the configuration file
const Version int64 = 1

// Modes of the watch loop
const (
	ModeCycle = "cycle"
	ModeWatch = "watch"
	ModeOnce  = "once"
)

var ErrInvalid = errors.New("configuration data has errors after validation")

// Config is a wrapper for Data
type Config struct {
	vars vars.Variables

	Data
}

// New returns a Config which is initialized with its default values
func New() *Config {
	config := &Config{}

	config.init()

	return config
}

func (d *Config) Get(name string) (string, error) {
	return d.vars.Get(name)
}

func (d *Config) Set(name, val string) error {
	return d.vars.Set(name, val)
}

// Clone returns a deep copy of the configuration.
func (d *Config) Clone() *Config {
	data := New()

	data.Data = d.Data

	data.Notify.List = copy.Slice(d.Notify.List)
	data.Watch.Processes = copy.Slice(d.Watch.Processes)
	data.Watch.LogPaths = copy.Slice(d.Watch.LogPaths)
	data.Launcher.Args = copy.Slice(d.Launcher.Args)

	data.vars.Transfer(&d.vars)

	return data
}

func (d *Config) init() {
	d.vars.Register(value.NewInt64(&d.Version, Version), "version", "", nil, "Configuration file layout version", true, false)
	d.vars.Register(value.NewString(&d.ID, uuid.New().String()), "id", "DW_ID", nil, "ID for this instance", true, false)
	d.vars.Register(value.NewString(&d.Name, haikunator.New().Haikunate()), "name", "DW_NAME", nil, "A human readable name for this instance", false, false)

	// Notify
	d.vars.Register(value.NewNameList(&d.Notify.List, []string{}, ","), "notify.list", "DW_NOTIFY_LIST", nil, "Comma separated list of instruction names to report on", true, false)
	d.vars.Register(value.NewString(&d.Notify.BotToken, ""), "notify.bot_token", "DW_NOTIFY_BOT_TOKEN", []string{"TELEGRAM_BOT_TOKEN"}, "Telegram bot token, leave empty to disable notifications", false, true)
	d.vars.Register(value.NewString(&d.Notify.ChatID, ""), "notify.chat_id", "DW_NOTIFY_CHAT_ID", []string{"TELEGRAM_CHAT_ID"}, "Telegram chat ID", false, false)
	d.vars.Register(value.NewURL(&d.Notify.Proxy, "", "http", "https", "socks5"), "notify.proxy", "DW_NOTIFY_PROXY", []string{"TELEGRAM_PROXY"}, "Proxy URL for reaching the Telegram API", false, false)
	d.vars.Register(value.NewURL(&d.Notify.APIURL, "https://api.telegram.org", "http", "https"), "notify.api_url", "DW_NOTIFY_API_URL", nil, "Base URL of the Telegram bot API", true, false)
	d.vars.Register(value.NewDuration(&d.Notify.Timeout, 10*time.Second), "notify.timeout", "DW_NOTIFY_TIMEOUT", nil, "Timeout for delivering a notification", true, false)

	// Log
	d.vars.Register(value.NewEnum(&d.Log.Level, "info", []string{"silent", "error", "warn", "info", "debug"}), "log.level", "DW_LOG_LEVEL", nil, "Loglevel: silent, error, warn, info, debug", false, false)
	d.vars.Register(value.NewEnum(&d.Log.Format, "console", []string{"console", "json"}), "log.format", "DW_LOG_FORMAT", nil, "Format of the console log: console, json", false, false)
	d.vars.Register(value.NewString(&d.Log.File, "monitor.log"), "log.file", "DW_LOG_FILE", nil, "File to append the log to, leave empty for console only", false, false)
	d.vars.Register(value.NewInt(&d.Log.MaxLines, 1000), "log.max_lines", "DW_LOG_MAX_LINES", nil, "Number of latest log lines to keep in memory", false, false)

	// Watch
	d.vars.Register(value.NewEnum(&d.Watch.Mode, ModeCycle, []string{ModeCycle, ModeWatch, ModeOnce}), "watch.mode", "DW_WATCH_MODE", nil, "Watch mode: cycle, watch, once", true, false)
	d.vars.Register(value.NewStringList(&d.Watch.Processes, []string{"OneDragon Scheduler.exe", "ZenlessZoneZero.exe"}, ","), "watch.processes", "DW_WATCH_PROCESSES", nil, "Comma separated list of process names to wait for, the first one is the trigger", true, false)
	d.vars.Register(value.NewPathPatternList(&d.Watch.LogPaths, []string{".log/log.txt"}, ","), "watch.log_paths", "DW_WATCH_LOG_PATHS", nil, "Comma separated list of log files, strftime placeholders and glob patterns are allowed", true, false)
	d.vars.Register(value.NewDuration(&d.Watch.Window, 3*time.Hour), "watch.window", "DW_WATCH_WINDOW", nil, "Only consider log lines that are not older than this", true, false)
	d.vars.Register(value.NewDuration(&d.Watch.PollInterval, 5*time.Second), "watch.poll_interval", "DW_WATCH_POLL_INTERVAL", nil, "Interval for checking the trigger process in watch mode", true, false)
	d.vars.Register(value.NewDuration(&d.Watch.Backoff.Initial, 60*time.Second), "watch.backoff.initial", "DW_WATCH_BACKOFF_INITIAL", nil, "First wait before checking whether the processes are gone", true, false)
	d.vars.Register(value.NewDuration(&d.Watch.Backoff.Max, 300*time.Second), "watch.backoff.max", "DW_WATCH_BACKOFF_MAX", nil, "Longest wait between two checks", true, false)
	d.vars.Register(value.NewFloat64(&d.Watch.Backoff.Factor, 1.5, 1), "watch.backoff.factor", "DW_WATCH_BACKOFF_FACTOR", nil, "Growth factor of the wait between two checks", true, false)
	d.vars.Register(value.NewInt(&d.Watch.MaxProbeErrors, 3), "watch.max_probe_errors", "DW_WATCH_MAX_PROBE_ERRORS", nil, "Number of consecutive failed process checks before giving up", false, false)

	// Launcher
	d.vars.Register(value.NewBool(&d.Launcher.Enable, true), "launcher.enable", "DW_LAUNCHER_ENABLE", nil, "Start the launcher binary at the beginning of each cycle", false, false)
	d.vars.Register(value.NewExec(&d.Launcher.Binary, "OneDragon Scheduler.exe", &d.Launcher.Dir), "launcher.binary", "DW_LAUNCHER_BINARY", nil, "Path to the binary to launch, relative to launcher.dir", true, false)
	d.vars.Register(value.NewStringList(&d.Launcher.Args, []string{}, " "), "launcher.args", "DW_LAUNCHER_ARGS", nil, "Space separated list of arguments for the binary", false, false)
	d.vars.Register(value.NewDir(&d.Launcher.Dir, ""), "launcher.dir", "DW_LAUNCHER_DIR", nil, "Working directory for the binary, empty for the current directory", false, false)
	d.vars.Register(value.NewSchedule(&d.Launcher.Schedule, "4h"), "launcher.schedule", "DW_LAUNCHER_SCHEDULE", nil, "Interval (e.g. 4h), cron expression, or RFC3339 time for starting a cycle", true, false)
	d.vars.Register(value.NewBool(&d.Launcher.RequireAdmin, true), "launcher.require_admin", "DW_LAUNCHER_REQUIRE_ADMIN", nil, "Restart with administrator rights if not already elevated", false, false)

	// API
	d.vars.Register(value.NewBool(&d.API.Enable, false), "api.enable", "DW_API_ENABLE", nil, "Enable the status API", false, false)
	d.vars.Register(value.NewAddress(&d.API.Address, "127.0.0.1:8089"), "api.address", "DW_API_ADDRESS", nil, "Listening address of the status API", false, false)

	// Debug
	d.vars.Register(value.NewBool(&d.Debug.Gops, false), "debug.gops", "DW_DEBUG_GOPS", nil, "Start the gops agent", false, false)
	d.vars.Register(value.NewBool(&d.Debug.AutoMaxProcs, false), "debug.auto_max_procs", "DW_DEBUG_AUTO_MAX_PROCS", nil, "Set GOMAXPROCS according to the CPU quota", false, false)
}

// Validate validates the current state of the Config for completeness and sanity. Errors are
// written to the log. Use resetLogs to indicate to reset the logs prior validation.
func (d *Config) Validate(resetLogs bool) {
	if resetLogs {
		d.vars.ResetLogs()
	}

	if d.Version != Version {
		d.vars.Log("error", "version", "unknown configuration layout version (found version %d, expecting version %d)", d.Version, Version)

		return
	}

	d.vars.Validate()

	if err := structValidator().Struct(d.Data); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				d.vars.Log("error", fieldName(fe.Namespace()), "failed on the '%s' rule", fieldRule(fe))
			}
		}
	}

	// Individual sanity checks

	if len(d.Notify.BotToken) == 0 && len(d.Notify.ChatID) == 0 {
		d.vars.Log("warn", "notify.bot_token", "no Telegram bot configured, notifications are disabled")
	}
}

// CheckLauncher returns an error if the launcher binary is needed for
// running in the given mode but it doesn't exist. An empty mode is the
// mode from watch.mode.
func (d *Config) CheckLauncher(mode string) error {
	if len(mode) == 0 {
		mode = d.Watch.Mode
	}

	if !d.Launcher.Enable || mode != ModeCycle {
		return nil
	}

	exec, ok := d.vars.Value("launcher.binary").(*value.Exec)
	if !ok {
		return nil
	}

	if err := exec.Exists(); err != nil {
		return fmt.Errorf("launcher.binary: %w", err)
	}

	return nil
}

// Merge merges the values of the environment into the configuration.
// If lookup is nil, the process environment is used.
func (d *Config) Merge(lookup vars.LookupFunc) {
	d.vars.Merge(lookup)
}

// Messages calls for each log entry the provided callback. The level has the values 'error', 'warn', or 'info'.
// The name is the name of the configuration value, e.g. 'notify.list'
func (d *Config) Messages(logger func(level string, v vars.Variable, message string)) {
	d.vars.Messages(logger)
}

// HasErrors returns whether there are some error messages in the log.
func (d *Config) HasErrors() bool {
	return d.vars.HasErrors()
}

// Overrides returns a list of configuration value names that have been overriden by an environment variable.
func (d *Config) Overrides() []string {
	return d.vars.Overrides()
}

// Variables returns a description of all configuration values.
func (d *Config) Variables() []vars.Variable {
	return d.vars.List()
}

// LauncherPath returns the path of the launcher binary with launcher.dir applied.
func (d *Config) LauncherPath() string {
	if exec, ok := d.vars.Value("launcher.binary").(*value.Exec); ok {
		return exec.Path()
	}

	return d.Launcher.Binary
}

func structValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// fieldName turns a validator namespace like "Data.watch.processes[1]" into
// the name of the configuration value, "watch.processes".
func fieldName(namespace string) string {
	if i := strings.Index(namespace, "."); i != -1 {
		namespace = namespace[i+1:]
	}

	if i := strings.Index(namespace, "["); i != -1 {
		namespace = namespace[:i]
	}

	return namespace
}

func fieldRule(fe validator.FieldError) string {
	if len(fe.Param()) == 0 {
		return fe.Tag()
	}

	return fe.Tag() + "=" + fe.Param()
}

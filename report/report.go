// Package report runs the pipeline that turns the recent log lines into a
// summary message: read the log window, extract the instruction outcomes
// and format them.
package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dragonwatch/dragonwatch/instruction"
	"github.com/dragonwatch/dragonwatch/log"
	"github.com/dragonwatch/dragonwatch/prometheus"
	timesrc "github.com/dragonwatch/dragonwatch/time"

	"github.com/lithammer/shortuuid/v4"
)

// ErrNoLogContent is returned if no log line fell into the window.
var ErrNoLogContent = errors.New("no qualifying log content")

// NoLogContentError carries the window that has been searched.
type NoLogContentError struct {
	Window time.Duration
}

func (e *NoLogContentError) Error() string {
	return fmt.Sprintf("最近%s小时内未找到有效日志", strconv.FormatFloat(e.Window.Hours(), 'f', -1, 64))
}

func (e *NoLogContentError) Is(target error) bool {
	return target == ErrNoLogContent
}

// LogReader reads the lines of the log files that fall into the window.
type LogReader interface {
	ReadLines(paths []string, window time.Duration) []string
}

type Report struct {
	ID        string               `json:"id"`
	CreatedAt time.Time            `json:"created_at"`
	Lines     int                  `json:"lines"`
	Records   []instruction.Record `json:"records"`
	Message   string               `json:"message"`
}

type Config struct {
	Reader  LogReader
	Paths   []string
	Window  time.Duration
	Allowed []string
	Metrics prometheus.Recorder
	Logger  log.Logger

	// Clock stamps the reports. Defaults to the system clock.
	Clock timesrc.Source
}

type Reporter interface {
	// Run reads the log files and builds a new report. If there are no log
	// lines in the window, an error wrapping ErrNoLogContent is returned.
	Run() (Report, error)

	// Last returns the last report that has been built successfully.
	Last() (Report, bool)
}

type reporter struct {
	reader  LogReader
	paths   []string
	window  time.Duration
	allowed []string
	metrics prometheus.Recorder
	logger  log.Logger
	clock   timesrc.Source

	last *Report
	lock sync.Mutex
}

func New(config Config) (Reporter, error) {
	if config.Reader == nil {
		return nil, fmt.Errorf("no log reader given")
	}

	if config.Window <= 0 {
		return nil, fmt.Errorf("window must be positive")
	}

	r := &reporter{
		reader:  config.Reader,
		paths:   append([]string{}, config.Paths...),
		window:  config.Window,
		allowed: append([]string{}, config.Allowed...),
		metrics: config.Metrics,
		logger:  config.Logger,
		clock:   config.Clock,
	}

	if r.metrics == nil {
		r.metrics = prometheus.NewDummyRecorder()
	}

	if r.logger == nil {
		r.logger = log.New("")
	}

	if r.clock == nil {
		r.clock = &timesrc.StdSource{}
	}

	return r, nil
}

func (r *reporter) Run() (Report, error) {
	lines := r.reader.ReadLines(r.paths, r.window)
	if len(lines) == 0 {
		r.metrics.Report(prometheus.ResultEmpty)
		return Report{}, &NoLogContentError{Window: r.window}
	}

	records := instruction.Extract(r.allowed, strings.Join(lines, "\n"))

	report := Report{
		ID:        shortuuid.New(),
		CreatedAt: r.clock.Now(),
		Lines:     len(lines),
		Records:   records,
		Message:   instruction.Format(records),
	}

	r.logger.Info().WithFields(log.Fields{
		"id":      report.ID,
		"lines":   report.Lines,
		"records": len(report.Records),
	}).Log("处理结果：%s", report.Message)

	r.metrics.Report(prometheus.ResultSuccess)
	r.metrics.Instructions(records)

	r.lock.Lock()
	r.last = &report
	r.lock.Unlock()

	return report, nil
}

func (r *reporter) Last() (Report, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.last == nil {
		return Report{}, false
	}

	return *r.last, true
}

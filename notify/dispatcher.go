package notify

import (
	"context"

	"github.com/dragonwatch/dragonwatch/log"
	"github.com/dragonwatch/dragonwatch/prometheus"
)

// ExceptionPrefix precedes messages that report a failure of the watchdog.
const ExceptionPrefix = "⚠️ 监控程序异常："

// Dispatcher delivers messages on a best effort basis. Delivery errors are
// logged and counted, but never returned.
type Dispatcher interface {
	// Dispatch sends the message through all notifiers.
	Dispatch(ctx context.Context, message string)

	// DispatchError sends the error as an exception message.
	DispatchError(ctx context.Context, err error)
}

type DispatcherConfig struct {
	Notifiers []Notifier
	Metrics   prometheus.Recorder
	Logger    log.Logger
}

type dispatcher struct {
	notifiers []Notifier
	metrics   prometheus.Recorder
	logger    log.Logger
}

func NewDispatcher(config DispatcherConfig) Dispatcher {
	d := &dispatcher{
		metrics: config.Metrics,
		logger:  config.Logger,
	}

	for _, n := range config.Notifiers {
		if n == nil {
			continue
		}

		d.notifiers = append(d.notifiers, n)
	}

	if d.metrics == nil {
		d.metrics = prometheus.NewDummyRecorder()
	}

	if d.logger == nil {
		d.logger = log.New("")
	}

	return d
}

func (d *dispatcher) Dispatch(ctx context.Context, message string) {
	if len(d.notifiers) == 0 {
		d.logger.Debug().Log("No notifier configured, dropping message")
		return
	}

	for _, n := range d.notifiers {
		if err := n.Send(ctx, message); err != nil {
			d.logger.Error().WithError(err).Log("Sending notification failed")
			d.metrics.Notification(prometheus.ResultFailure)
			continue
		}

		d.logger.Info().Log("Notification sent")
		d.metrics.Notification(prometheus.ResultSuccess)
	}
}

func (d *dispatcher) DispatchError(ctx context.Context, err error) {
	if err == nil {
		return
	}

	d.Dispatch(ctx, ExceptionPrefix+err.Error())
}

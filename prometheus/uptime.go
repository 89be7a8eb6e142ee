package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NewUptimeCollector reports the seconds since start for the instance.
func NewUptimeCollector(instance string, start time.Time) prometheus.Collector {
	return prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        "uptime_seconds",
		Help:        "Number of seconds the watchdog is up",
		ConstLabels: prometheus.Labels{"instance": instance},
	}, func() float64 {
		return time.Since(start).Seconds()
	})
}

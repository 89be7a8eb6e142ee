package prometheus

import (
	"github.com/dragonwatch/dragonwatch/instruction"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultEmpty   = "empty"
)

// Recorder records the events of the watchdog.
type Recorder interface {
	// Report counts a report run with the given result.
	Report(result string)

	// Instructions replaces the per instruction success gauges.
	Instructions(records []instruction.Record)

	// Notification counts a delivery attempt with the given result.
	Notification(result string)

	// Launch counts a launch of the companion with the given result.
	Launch(result string)

	// ProbeError counts a failed process liveness probe.
	ProbeError()
}

type recorder struct {
	reports       *prometheus.CounterVec
	notifications *prometheus.CounterVec
	launches      *prometheus.CounterVec
	probeErrors   prometheus.Counter
	instructions  *prometheus.GaugeVec
}

// NewRecorder creates a recorder and registers its collectors.
func NewRecorder(m Metrics) (Recorder, error) {
	r := &recorder{
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Number of report runs by result",
		}, []string{"result"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Number of notification deliveries by result",
		}, []string{"result"}),
		launches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "launches_total",
			Help:      "Number of companion launches by result",
		}, []string{"result"}),
		probeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probe_errors_total",
			Help:      "Number of failed process liveness probes",
		}),
		instructions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "instruction_success",
			Help:      "Whether an instruction succeeded in the last report",
		}, []string{"instruction"}),
	}

	for _, c := range []prometheus.Collector{r.reports, r.notifications, r.launches, r.probeErrors, r.instructions} {
		if err := m.Register(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *recorder) Report(result string) {
	r.reports.WithLabelValues(result).Inc()
}

func (r *recorder) Instructions(records []instruction.Record) {
	r.instructions.Reset()

	for _, record := range records {
		value := 0.0
		if record.IsSuccess {
			value = 1
		}

		r.instructions.WithLabelValues(record.Instruction).Set(value)
	}
}

func (r *recorder) Notification(result string) {
	r.notifications.WithLabelValues(result).Inc()
}

func (r *recorder) Launch(result string) {
	r.launches.WithLabelValues(result).Inc()
}

func (r *recorder) ProbeError() {
	r.probeErrors.Inc()
}

type dummyRecorder struct{}

// NewDummyRecorder returns a recorder that records nothing.
func NewDummyRecorder() Recorder {
	return &dummyRecorder{}
}

func (r *dummyRecorder) Report(result string)                      {}
func (r *dummyRecorder) Instructions(records []instruction.Record) {}
func (r *dummyRecorder) Notification(result string)                {}
func (r *dummyRecorder) Launch(result string)                      {}
func (r *dummyRecorder) ProbeError()                               {}

// Package prometheus exposes the watchdog's metrics in the prometheus
// exposition format.
package prometheus

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dragonwatch"

type Metrics interface {
	// Register adds a collector. It will be removed by UnregisterAll.
	Register(cs prometheus.Collector) error

	// UnregisterAll removes all collectors that have been added with
	// Register. The runtime metrics of the Go process are kept.
	UnregisterAll()

	Reader
}

type Reader interface {
	HTTPHandler() http.Handler
}

type metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	collectors []prometheus.Collector
	lock       sync.Mutex
}

func New() Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	m := &metrics{
		registry: registry,
		handler:  promhttp.InstrumentMetricHandler(registry, promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
	}

	return m
}

func (m *metrics) Register(cs prometheus.Collector) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if err := m.registry.Register(cs); err != nil {
		return err
	}

	m.collectors = append(m.collectors, cs)

	return nil
}

func (m *metrics) UnregisterAll() {
	m.lock.Lock()
	defer m.lock.Unlock()

	for _, cs := range m.collectors {
		m.registry.Unregister(cs)
	}

	m.collectors = nil
}

func (m *metrics) HTTPHandler() http.Handler {
	return m.handler
}

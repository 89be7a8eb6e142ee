package prometheus

import (
	"github.com/dragonwatch/dragonwatch/psutil"

	"github.com/prometheus/client_golang/prometheus"
)

type processCollector struct {
	names []string
	util  psutil.Util

	runningDesc *prometheus.Desc
}

// NewProcessCollector reports for each of the names whether a process with
// that name is running at the time of the scrape.
func NewProcessCollector(names []string, util psutil.Util) prometheus.Collector {
	c := &processCollector{
		names: make([]string, len(names)),
		util:  util,
		runningDesc: prometheus.NewDesc(
			namespace+"_process_running",
			"Whether a watched process is running",
			[]string{"name"}, nil),
	}

	copy(c.names, names)

	return c
}

func (c *processCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.runningDesc
}

func (c *processCollector) Collect(ch chan<- prometheus.Metric) {
	for _, name := range c.names {
		running, err := c.util.Running(name)
		if err != nil {
			ch <- prometheus.NewInvalidMetric(c.runningDesc, err)
			continue
		}

		value := 0.0
		if running {
			value = 1
		}

		ch <- prometheus.MustNewConstMetric(c.runningDesc, prometheus.GaugeValue, value, name)
	}
}

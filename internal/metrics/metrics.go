// Package metrics records synchronizer activity as Prometheus metrics.
//
// stockboard has no server, so metrics are exported by writing a
// node_exporter textfile when a path is configured.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the stockboard instruments. A nil *Collector is valid and
// records nothing.
type Collector struct {
	fetchTotal    *prometheus.CounterVec
	failureTotal  *prometheus.CounterVec
	httpStatus    *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	paused        prometheus.Gauge
	stores        prometheus.Gauge
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockboard_fetch_total",
			Help: "Inventory fetch attempts by result.",
		}, []string{"result"}),
		failureTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockboard_fetch_failures_total",
			Help: "Failed inventory fetches by error kind.",
		}, []string{"kind"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockboard_http_status_total",
			Help: "Non-2xx HTTP responses from the inventory source by status code.",
		}, []string{"code"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockboard_fetch_duration_seconds",
			Help:    "Inventory fetch latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		paused: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stockboard_polling_paused",
			Help: "1 while polling is suspended because the dashboard is not visible.",
		}),
		stores: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stockboard_snapshot_stores",
			Help: "Number of stores in the current snapshot.",
		}),
	}

	reg.MustRegister(
		c.fetchTotal,
		c.failureTotal,
		c.httpStatus,
		c.fetchDuration,
		c.paused,
		c.stores,
	)
	return c
}

// RecordSuccess records a successful fetch.
func (c *Collector) RecordSuccess(duration time.Duration, stores int) {
	if c == nil {
		return
	}
	c.fetchTotal.WithLabelValues("success").Inc()
	c.fetchDuration.Observe(duration.Seconds())
	c.stores.Set(float64(stores))
}

// RecordFailure records a failed fetch. statusCode is 0 when no response arrived.
func (c *Collector) RecordFailure(duration time.Duration, kind string, statusCode int) {
	if c == nil {
		return
	}
	c.fetchTotal.WithLabelValues("failure").Inc()
	c.failureTotal.WithLabelValues(kind).Inc()
	c.fetchDuration.Observe(duration.Seconds())
	if statusCode > 0 {
		c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	}
}

// RecordDiscarded counts results dropped because a newer result was applied
// first.
func (c *Collector) RecordDiscarded() {
	if c == nil {
		return
	}
	c.fetchTotal.WithLabelValues("discarded").Inc()
}

// SetPaused records the polling state.
func (c *Collector) SetPaused(paused bool) {
	if c == nil {
		return
	}
	if paused {
		c.paused.Set(1)
		return
	}
	c.paused.Set(0)
}

// WriteTextfile writes every metric in g to path in the text exposition format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

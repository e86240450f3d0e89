// Package prometheus exports hashing metrics to Prometheus.
//
//	c := prometheus.NewCollector("seasum")
//	c.MustRegister(prom.DefaultRegisterer)
//	h := seahash.New(seahash.WithMetrics(c))
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/seahash"
)

// Collector implements seahash.MetricsCollector with Prometheus metrics.
type Collector struct {
	updates       *prometheus.CounterVec
	bytes         *prometheus.CounterVec
	updateSeconds *prometheus.HistogramVec
	digests       prometheus.Counter
}

var _ seahash.MetricsCollector = (*Collector)(nil)

// NewCollector creates the metrics under namespace. Call Register or
// MustRegister to expose them.
func NewCollector(namespace string) *Collector {
	return &Collector{
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "seahash",
			Name:      "updates_total",
			Help:      "Number of hasher updates by ingestion path.",
		}, []string{"path"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "seahash",
			Name:      "bytes_total",
			Help:      "Bytes mixed into hashers by ingestion path.",
		}, []string{"path"}),
		updateSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "seahash",
			Name:      "update_duration_seconds",
			Help:      "Time spent in a single hasher update.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"path"}),
		digests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "seahash",
			Name:      "digests_total",
			Help:      "Number of digests computed.",
		}),
	}
}

func (c *Collector) collectors() []prometheus.Collector {
	return []prometheus.Collector{c.updates, c.bytes, c.updateSeconds, c.digests}
}

// Register registers all metrics with reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, m := range c.collectors() {
		if err := reg.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (c *Collector) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(c.collectors()...)
}

// RecordUpdate implements seahash.MetricsCollector.
func (c *Collector) RecordUpdate(path seahash.IngestPath, bytes int, duration time.Duration) {
	label := path.String()
	c.updates.WithLabelValues(label).Inc()
	c.bytes.WithLabelValues(label).Add(float64(bytes))
	c.updateSeconds.WithLabelValues(label).Observe(duration.Seconds())
}

// RecordDigest implements seahash.MetricsCollector.
func (c *Collector) RecordDigest() {
	c.digests.Inc()
}

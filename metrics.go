package seahash

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting hashing metrics.
// Implement this interface to integrate with monitoring systems like Prometheus;
// see the metrics/prometheus package for a ready-made collector.
type MetricsCollector interface {
	// RecordUpdate is called after each Update with the ingestion path taken,
	// the number of bytes mixed and the time spent.
	RecordUpdate(path IngestPath, bytes int, duration time.Duration)

	// RecordDigest is called each time a digest is computed.
	RecordDigest()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordUpdate(IngestPath, int, time.Duration) {}
func (NoopMetricsCollector) RecordDigest()                                {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	OwnedUpdates    atomic.Int64
	OwnedBytes      atomic.Int64
	BorrowedUpdates atomic.Int64
	BorrowedBytes   atomic.Int64
	UpdateNanos     atomic.Int64
	Digests         atomic.Int64
}

// RecordUpdate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpdate(path IngestPath, bytes int, duration time.Duration) {
	switch path {
	case PathBorrowed:
		b.BorrowedUpdates.Add(1)
		b.BorrowedBytes.Add(int64(bytes))
	default:
		b.OwnedUpdates.Add(1)
		b.OwnedBytes.Add(int64(bytes))
	}
	b.UpdateNanos.Add(duration.Nanoseconds())
}

// RecordDigest implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDigest() {
	b.Digests.Add(1)
}

// MetricsStats is a point-in-time snapshot of BasicMetricsCollector.
type MetricsStats struct {
	Updates       int64
	Bytes         int64
	BorrowedBytes int64
	Digests       int64
	// Throughput in bytes per second over the time spent inside Update.
	Throughput float64
}

// GetStats returns a snapshot of the collected metrics.
func (b *BasicMetricsCollector) GetStats() MetricsStats {
	owned := b.OwnedBytes.Load()
	borrowed := b.BorrowedBytes.Load()
	stats := MetricsStats{
		Updates:       b.OwnedUpdates.Load() + b.BorrowedUpdates.Load(),
		Bytes:         owned + borrowed,
		BorrowedBytes: borrowed,
		Digests:       b.Digests.Load(),
	}
	if nanos := b.UpdateNanos.Load(); nanos > 0 {
		stats.Throughput = float64(stats.Bytes) / time.Duration(nanos).Seconds()
	}
	return stats
}

package checksum

import (
	"github.com/hupe1980/seahash"
	"github.com/hupe1980/seahash/resource"
)

// DefaultChunkSize is the read buffer size used when streaming.
const DefaultChunkSize = 1 << 20

// Decompress selects whether compressed sources are decoded before hashing.
type Decompress int

const (
	// DecompressNone hashes the bytes as stored.
	DecompressNone Decompress = iota
	// DecompressAuto decodes sources by file extension (.zst, .lz4, .gz).
	DecompressAuto
)

type options struct {
	seed       seahash.Seed
	chunkSize  int
	logger     *seahash.Logger
	rc         *resource.Controller
	metrics    seahash.MetricsCollector
	decompress Decompress
}

// Option configures a Summer.
type Option func(*options)

// WithSeed hashes with seed instead of seahash.DefaultSeed.
func WithSeed(seed seahash.Seed) Option {
	return func(o *options) { o.seed = seed }
}

// WithChunkSize sets the streaming buffer size. Non-positive values select
// DefaultChunkSize.
func WithChunkSize(n int) Option {
	return func(o *options) { o.chunkSize = n }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *seahash.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithController bounds workers, buffer memory and read throughput.
func WithController(rc *resource.Controller) Option {
	return func(o *options) { o.rc = rc }
}

// WithMetrics reports every hasher update and digest to m.
func WithMetrics(m seahash.MetricsCollector) Option {
	return func(o *options) { o.metrics = m }
}

// WithDecompress sets the decompression mode.
func WithDecompress(d Decompress) Option {
	return func(o *options) { o.decompress = d }
}

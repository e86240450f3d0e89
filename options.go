package seahash

import "sync"

type options struct {
	seed    Seed
	initial []byte
	lock    sync.Locker
	metrics MetricsCollector
}

func defaultOptions() options {
	return options{seed: DefaultSeed}
}

// Option configures a Hasher.
type Option func(*options)

// WithSeed sets the initial lane values. The default is DefaultSeed.
func WithSeed(seed Seed) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithInitial hashes data as part of construction.
func WithInitial(data []byte) Option {
	return func(o *options) {
		o.initial = data
	}
}

// WithExecLock registers a lock shared with the caller's execution context,
// for example the global lock of an embedding runtime.
//
// The caller must hold the lock when calling Update or Write. Owned input is
// mixed with the lock released so that other holders can make progress;
// borrowed input is always mixed with the lock held.
func WithExecLock(l sync.Locker) Option {
	return func(o *options) {
		o.lock = l
	}
}

// WithMetrics reports every update to m.
func WithMetrics(m MetricsCollector) Option {
	return func(o *options) {
		o.metrics = m
	}
}

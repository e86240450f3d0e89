package resource

import "errors"

// ErrMemoryLimitExceeded is returned when a single reservation is larger than
// the whole memory limit and could never be satisfied.
var ErrMemoryLimitExceeded = errors.New("resource: memory request exceeds limit")

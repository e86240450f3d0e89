// Package resource bounds the resources a batch of checksum jobs may use.
//
// A Controller limits three things:
//
//   - Workers: how many blobs are hashed at once (weighted semaphore)
//   - Memory: bytes held in in-flight read buffers (weighted semaphore)
//   - IO: bytes per second read from sources (token bucket)
//
// Example:
//
//	rc := resource.NewController(resource.Config{
//	    MaxWorkers:         4,
//	    MemoryLimitBytes:   64 << 20,
//	    IOLimitBytesPerSec: 100 << 20,
//	})
//
//	if err := rc.AcquireWorker(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorker()
//
//	r := resource.NewRateLimitedReader(ctx, file, rc)
//
// All methods are safe for concurrent use, and all of them treat a nil
// Controller as unlimited.
package resource

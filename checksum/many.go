package checksum

import (
	"context"
	"runtime"

	"github.com/hupe1980/seahash"
	"github.com/hupe1980/seahash/blobstore"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome for one source of SumMany.
type Result struct {
	Name   string
	Digest seahash.Digest
	Size   int64
	Err    error
}

// SumMany hashes every named blob of store concurrently and returns one
// Result per name, in input order.
//
// Per-source failures are reported in Result.Err and do not stop the batch.
// The returned error is ctx.Err() as seen once the batch settles, so it is
// non-nil whenever ctx ends before SumMany returns. Sources that were never
// started then carry the context error; started sources keep their own
// outcome.
func (s *Summer) SumMany(ctx context.Context, store blobstore.BlobStore, names []string) ([]Result, error) {
	results := make([]Result, len(names))
	for i, name := range names {
		results[i].Name = name
	}

	g, gctx := errgroup.WithContext(ctx)
	if s.opts.rc == nil {
		g.SetLimit(runtime.GOMAXPROCS(0))
	}
	for i := range names {
		if err := s.opts.rc.AcquireWorker(gctx); err != nil {
			for j := i; j < len(names); j++ {
				results[j].Err = err
			}
			_ = g.Wait()
			return results, err
		}

		g.Go(func() error {
			defer s.opts.rc.ReleaseWorker()
			r := &results[i]
			r.Digest, r.Size, r.Err = s.SumBlob(gctx, store, r.Name)
			return nil
		})
	}

	_ = g.Wait()
	return results, ctx.Err()
}

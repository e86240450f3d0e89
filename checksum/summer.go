package checksum

import (
	"context"
	"errors"
	"io"
	"os"
	"syscall"

	"github.com/hupe1980/seahash"
	"github.com/hupe1980/seahash/internal/conv"
	"github.com/hupe1980/seahash/internal/mmap"
	"github.com/hupe1980/seahash/resource"
)

// Summer computes digests with a fixed configuration.
type Summer struct {
	opts options
}

// New returns a Summer.
func New(optFns ...Option) *Summer {
	o := options{seed: seahash.DefaultSeed}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.chunkSize <= 0 {
		o.chunkSize = DefaultChunkSize
	}
	// A chunk buffer larger than the memory budget could never be acquired.
	if lim := o.rc.Config().MemoryLimitBytes; lim > 0 && int64(o.chunkSize) > lim {
		if n, err := conv.Int64ToInt(lim); err == nil {
			o.chunkSize = n
		}
	}
	if o.logger == nil {
		o.logger = seahash.NoopLogger()
	}
	return &Summer{opts: o}
}

func (s *Summer) newHasher() *seahash.Hasher {
	opts := []seahash.Option{seahash.WithSeed(s.opts.seed)}
	if s.opts.metrics != nil {
		opts = append(opts, seahash.WithMetrics(s.opts.metrics))
	}
	return seahash.New(opts...)
}

func (s *Summer) log(ctx context.Context, name string, size int64, path seahash.IngestPath, d seahash.Digest, err error) {
	s.opts.logger.WithSource(name).WithSeed(s.opts.seed).LogSum(ctx, size, path, d, err)
}

// SumReader hashes everything read from r, returning the digest and the
// number of bytes consumed. ctx is checked between chunks.
func (s *Summer) SumReader(ctx context.Context, r io.Reader) (seahash.Digest, int64, error) {
	h := s.newHasher()
	n, err := s.stream(ctx, h, r)
	if err != nil {
		return 0, n, err
	}
	return h.Digest(), n, nil
}

func (s *Summer) stream(ctx context.Context, h *seahash.Hasher, r io.Reader) (int64, error) {
	size := int64(s.opts.chunkSize)
	if err := s.opts.rc.AcquireMemory(ctx, size); err != nil {
		return 0, err
	}
	defer s.opts.rc.ReleaseMemory(size)

	if s.opts.rc != nil {
		r = resource.NewRateLimitedReader(ctx, r, s.opts.rc)
	}

	buf := make([]byte, s.opts.chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return lenOf(h), err
		}
		n, err := fill(r, buf)
		if n > 0 {
			// buf is reused, but only after Update has returned.
			if uerr := h.Update(seahash.Own(buf[:n])); uerr != nil {
				return lenOf(h), uerr
			}
		}
		if err == io.EOF {
			return lenOf(h), nil
		}
		if err != nil {
			return lenOf(h), err
		}
	}
}

// fill reads until buf is full or r fails. Unlike io.ReadFull it reports a
// truncated stream's io.ErrUnexpectedEOF as is.
func fill(r io.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func lenOf(h *seahash.Hasher) int64 {
	n, err := conv.Uint64ToInt64(h.Len())
	if err != nil {
		return -1
	}
	return n
}

// SumFile hashes the file at path.
//
// Regular files are memory-mapped and hashed in place. Files that cannot be
// mapped, such as pipes and character devices, are streamed instead.
// Compressed files are decoded first when DecompressAuto is set.
func (s *Summer) SumFile(ctx context.Context, path string) (seahash.Digest, int64, error) {
	d, n, ingest, err := s.sumFile(ctx, path)
	s.log(ctx, path, n, ingest, d, err)
	if err != nil {
		return 0, n, &SourceError{Name: path, Err: err}
	}
	return d, n, nil
}

func (s *Summer) sumFile(ctx context.Context, path string) (seahash.Digest, int64, seahash.IngestPath, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, seahash.PathOwned, err
	}
	defer f.Close()

	if s.decodes(path) {
		d, n, err := s.sumDecoded(ctx, path, f)
		return d, n, seahash.PathOwned, err
	}

	m, err := mmap.Map(f)
	if err != nil {
		if !unmappable(err) {
			return 0, 0, seahash.PathOwned, err
		}
		d, n, err := s.SumReader(ctx, f)
		return d, n, seahash.PathOwned, err
	}
	defer m.Close()

	if m.Size() == 0 {
		// Pipes, devices and synthetic files (procfs, some FUSE mounts)
		// report size zero but may still carry data.
		d, n, err := s.SumReader(ctx, f)
		return d, n, seahash.PathOwned, err
	}
	_ = m.Advise(mmap.AccessSequential)

	h := s.newHasher()
	if err := s.borrowRegions(ctx, h, m); err != nil {
		return 0, lenOf(h), seahash.PathBorrowed, err
	}
	return h.Digest(), lenOf(h), seahash.PathBorrowed, nil
}

// borrowRegions feeds m to h as chunk-sized borrowed regions, charging each
// against the IO limit.
func (s *Summer) borrowRegions(ctx context.Context, h *seahash.Hasher, m *mmap.Mapping) error {
	size := m.Size()
	for off := 0; off < size; off += s.opts.chunkSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := min(s.opts.chunkSize, size-off)
		if err := s.opts.rc.AcquireIO(ctx, n); err != nil {
			return err
		}
		region, err := m.Region(off, n)
		if err != nil {
			return err
		}
		if err := h.UpdateAny(region); err != nil {
			return err
		}
	}
	return nil
}

// unmappable reports whether mapping failed because of the file type rather
// than an I/O problem.
func unmappable(err error) bool {
	return errors.Is(err, syscall.ENODEV) ||
		errors.Is(err, syscall.EINVAL) ||
		errors.Is(err, syscall.EACCES) ||
		errors.Is(err, mmap.ErrInvalidSize)
}

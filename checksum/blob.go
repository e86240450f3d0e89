package checksum

import (
	"context"
	"fmt"
	"io"

	"github.com/hupe1980/seahash"
	"github.com/hupe1980/seahash/blobstore"
)

// SumBlob hashes the named blob from store.
//
// Blobs implementing blobstore.Mappable are hashed in place; others are
// streamed with sequential ReadRange calls of one chunk each.
func (s *Summer) SumBlob(ctx context.Context, store blobstore.BlobStore, name string) (seahash.Digest, int64, error) {
	d, n, ingest, err := s.sumBlob(ctx, store, name)
	s.log(ctx, name, n, ingest, d, err)
	if err != nil {
		return 0, n, &SourceError{Name: name, Err: err}
	}
	return d, n, nil
}

func (s *Summer) sumBlob(ctx context.Context, store blobstore.BlobStore, name string) (seahash.Digest, int64, seahash.IngestPath, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return 0, 0, seahash.PathOwned, err
	}
	defer b.Close()

	br := newBlobReader(ctx, b, s.opts.chunkSize)
	defer br.Close()

	if s.decodes(name) {
		d, n, err := s.sumDecoded(ctx, name, br)
		return d, n, seahash.PathOwned, err
	}

	if m, ok := b.(blobstore.Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return 0, 0, seahash.PathBorrowed, err
		}
		if int64(len(data)) != b.Size() {
			return 0, 0, seahash.PathBorrowed, fmt.Errorf("%w: mapped %d bytes of %d", ErrSizeMismatch, len(data), b.Size())
		}
		h := s.newHasher()
		if err := s.borrowSlices(ctx, h, data); err != nil {
			return 0, lenOf(h), seahash.PathBorrowed, err
		}
		return h.Digest(), lenOf(h), seahash.PathBorrowed, nil
	}

	d, n, err := s.SumReader(ctx, br)
	if err == nil && n != b.Size() {
		err = fmt.Errorf("%w: read %d bytes of %d", ErrSizeMismatch, n, b.Size())
	}
	return d, n, seahash.PathOwned, err
}

func (s *Summer) borrowSlices(ctx context.Context, h *seahash.Hasher, data []byte) error {
	for len(data) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := min(s.opts.chunkSize, len(data))
		if err := s.opts.rc.AcquireIO(ctx, n); err != nil {
			return err
		}
		if err := h.Update(seahash.BorrowBytes(data[:n])); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// blobReader reads a blob front to back, one ReadRange per span.
type blobReader struct {
	ctx   context.Context
	blob  blobstore.Blob
	span  int64
	off   int64
	start int64
	cur   io.ReadCloser
}

func newBlobReader(ctx context.Context, b blobstore.Blob, span int) *blobReader {
	return &blobReader{ctx: ctx, blob: b, span: int64(span)}
}

func (r *blobReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		if r.cur == nil {
			if r.off >= r.blob.Size() {
				return 0, io.EOF
			}
			rc, err := r.blob.ReadRange(r.ctx, r.off, r.span)
			if err != nil {
				return 0, err
			}
			r.cur = rc
			r.start = r.off
		}

		n, err := r.cur.Read(p)
		r.off += int64(n)
		if err == io.EOF {
			_ = r.cur.Close()
			r.cur = nil
			if r.off == r.start {
				// An empty range before the reported end would loop forever.
				return n, io.ErrUnexpectedEOF
			}
			err = nil
		}
		if n > 0 || err != nil {
			return n, err
		}
	}
}

func (r *blobReader) Close() error {
	if r.cur == nil {
		return nil
	}
	err := r.cur.Close()
	r.cur = nil
	return err
}

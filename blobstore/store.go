package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore opens immutable blobs by name.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	io.Closer
	// Size returns the size of the blob in bytes.
	Size() int64
	// ReadRange returns a reader over at most n bytes starting at off.
	// The range is clipped to the end of the blob.
	ReadRange(ctx context.Context, off, n int64) (io.ReadCloser, error)
}

// Mappable is an optional interface for Blobs whose contents are already
// resident in memory, either mapped from a file or held in a buffer.
type Mappable interface {
	// Bytes returns the underlying byte slice without copying.
	// The slice is valid until the Blob is closed and must not be modified.
	Bytes() ([]byte, error)
}

// Putter is implemented by stores that accept writes.
type Putter interface {
	// Put writes a blob atomically, replacing any existing blob of that name.
	Put(ctx context.Context, name string, data []byte) error
}

// Lister is implemented by stores that can enumerate their blobs.
type Lister interface {
	// List returns the sorted names of all blobs with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// clip bounds [off, off+n) to a blob of the given size.
func clip(off, n, size int64) (int64, int64) {
	if off < 0 {
		off = 0
	}
	if off > size {
		off = size
	}
	end := off + n
	if n < 0 || end > size || end < off {
		end = size
	}
	return off, end
}

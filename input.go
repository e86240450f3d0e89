package seahash

import (
	"bytes"
	"fmt"
	"unsafe"
)

// IngestPath identifies how an update reached the hasher.
type IngestPath uint8

const (
	// PathOwned means the hasher held the only reference to the data.
	PathOwned IngestPath = iota
	// PathBorrowed means the data was read in place from caller memory.
	PathBorrowed
)

// String returns "owned" or "borrowed".
func (p IngestPath) String() string {
	switch p {
	case PathOwned:
		return "owned"
	case PathBorrowed:
		return "borrowed"
	default:
		return fmt.Sprintf("IngestPath(%d)", uint8(p))
	}
}

// Input is data accepted by Hasher.Update.
//
// The only implementations are Owned and Borrowed; use Resolve to convert
// arbitrary values.
type Input interface {
	ingestPath() IngestPath
	data() []byte
}

// Owned is data exclusively held by the hasher while it is being mixed.
//
// Because nobody else references it, a hasher configured WithExecLock
// releases the lock while mixing owned data.
type Owned struct {
	b []byte
}

// Copy returns an Owned input backed by a private copy of b.
func Copy(b []byte) Owned {
	return Owned{b: bytes.Clone(b)}
}

// Own adopts b without copying. The caller hands b over and must not modify
// it until the update using it returns.
func Own(b []byte) Owned {
	return Owned{b: b}
}

// OwnString adopts s without copying. Strings are immutable, so no copy is needed.
func OwnString(s string) Owned {
	return Owned{b: unsafe.Slice(unsafe.StringData(s), len(s))}
}

// Len returns the number of bytes in the input.
func (o Owned) Len() int { return len(o.b) }

func (Owned) ingestPath() IngestPath { return PathOwned }
func (o Owned) data() []byte         { return o.b }

// Borrowed is an unchecked zero-copy view of memory the caller still owns.
//
// The memory must stay valid and must not be modified, resized or freed until
// the update that reads it returns. Violations are undefined behavior; they
// are not detected. A hasher never releases its exec lock while reading a
// borrowed view.
type Borrowed struct {
	b []byte
}

// Borrow builds a view of n bytes starting at ptr.
//
// ptr may be nil only when n is zero. This is the single place where raw
// memory is turned into a slice.
func Borrow(ptr *byte, n int) (Borrowed, error) {
	if n < 0 {
		return Borrowed{}, fmt.Errorf("%w: negative length %d", ErrInvalidView, n)
	}
	if n == 0 {
		return Borrowed{}, nil
	}
	if ptr == nil {
		return Borrowed{}, fmt.Errorf("%w: nil pointer with length %d", ErrInvalidView, n)
	}
	return Borrowed{b: unsafe.Slice(ptr, n)}, nil
}

// BorrowBytes views b in place.
func BorrowBytes(b []byte) Borrowed {
	return Borrowed{b: b}
}

// Len returns the number of bytes in the view.
func (v Borrowed) Len() int { return len(v.b) }

func (Borrowed) ingestPath() IngestPath { return PathBorrowed }
func (v Borrowed) data() []byte         { return v.b }

// View is implemented by read-only memory regions, such as mapped files,
// that can be hashed in place.
type View interface {
	ViewBytes() []byte
}

// Resolve picks the ingestion path for v.
//
// Owned and Borrowed pass through. Byte slices and bytes.Buffers are copied
// and strings adopted, yielding Owned. View implementations yield Borrowed.
// Any other value returns an *InputTypeError.
func Resolve(v any) (Input, error) {
	switch x := v.(type) {
	case Owned:
		return x, nil
	case Borrowed:
		return x, nil
	case []byte:
		return Copy(x), nil
	case string:
		return OwnString(x), nil
	case *bytes.Buffer:
		if x == nil {
			return nil, &InputTypeError{Type: "nil *bytes.Buffer"}
		}
		return Copy(x.Bytes()), nil
	case View:
		return BorrowBytes(x.ViewBytes()), nil
	case nil:
		return nil, &InputTypeError{Type: "nil"}
	default:
		return nil, &InputTypeError{Type: fmt.Sprintf("%T", v)}
	}
}

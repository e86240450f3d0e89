package seahash

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"sync"
	"time"

	"github.com/hupe1980/seahash/internal/core"
)

var _ hash.Hash64 = (*Hasher)(nil)

// Hasher computes SeaHash incrementally.
//
// Feeding the same bytes in any number of Update or Write calls yields the
// same digest as Hash over their concatenation. Digest reads do not modify
// the hasher, and more data may be written afterwards.
//
// A Hasher is not safe for concurrent use; callers must serialize access.
type Hasher struct {
	seed  Seed
	state core.State
	tail  [BlockSize]byte
	ntail int
	total uint64

	lock    sync.Locker
	metrics MetricsCollector
}

// New returns a Hasher. Without options it uses DefaultSeed and starts empty.
func New(optFns ...Option) *Hasher {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	h := &Hasher{
		seed:    o.seed,
		state:   o.seed.state(),
		lock:    o.lock,
		metrics: o.metrics,
	}
	h.write(o.initial)
	return h
}

// Update mixes in. State is unchanged when an error is returned.
func (h *Hasher) Update(in Input) error {
	if in == nil {
		return &InputTypeError{Type: "nil"}
	}

	var start time.Time
	if h.metrics != nil {
		start = time.Now()
	}

	p := in.data()
	switch in.ingestPath() {
	case PathOwned:
		h.writeUnlocked(p)
	default:
		h.write(p)
	}

	if h.metrics != nil {
		h.metrics.RecordUpdate(in.ingestPath(), len(p), time.Since(start))
	}
	return nil
}

// UpdateAny resolves v with Resolve and mixes it in.
func (h *Hasher) UpdateAny(v any) error {
	in, err := Resolve(v)
	if err != nil {
		return err
	}
	return h.Update(in)
}

// Write implements io.Writer. It never returns an error.
//
// With an exec lock configured p is copied first, since other lock holders
// may run while it is mixed.
func (h *Hasher) Write(p []byte) (int, error) {
	in := Own(p)
	if h.lock != nil {
		in = Copy(p)
	}
	_ = h.Update(in)
	return len(p), nil
}

// WriteString implements io.StringWriter without copying s.
func (h *Hasher) WriteString(s string) (int, error) {
	_ = h.Update(OwnString(s))
	return len(s), nil
}

func (h *Hasher) writeUnlocked(p []byte) {
	if h.lock != nil && len(p) > 0 {
		h.lock.Unlock()
		defer h.lock.Lock()
	}
	h.write(p)
}

func (h *Hasher) write(p []byte) {
	if len(p) == 0 {
		return
	}
	h.total += uint64(len(p))

	if h.ntail > 0 {
		n := copy(h.tail[h.ntail:], p)
		h.ntail += n
		p = p[n:]
		if h.ntail < BlockSize {
			return
		}
		h.state.Mix(binary.LittleEndian.Uint64(h.tail[:]))
		h.ntail = 0
	}

	rest := h.state.Fold(p)
	h.ntail = copy(h.tail[:], rest)
}

// Digest returns the hash of everything written so far.
func (h *Hasher) Digest() Digest {
	if h.metrics != nil {
		h.metrics.RecordDigest()
	}
	return Digest(h.state.Finalize(h.tail[:h.ntail], h.total))
}

// IntDigest returns the digest as an integer.
func (h *Hasher) IntDigest() uint64 { return h.Digest().Uint64() }

// HexDigest returns the digest as 16 lowercase hex characters.
func (h *Hasher) HexDigest() string {
	b := h.Digest().Bytes()
	return hex.EncodeToString(b[:])
}

// DigestBytes returns the digest in big-endian byte order.
func (h *Hasher) DigestBytes() [DigestSize]byte { return h.Digest().Bytes() }

// Sum64 implements hash.Hash64.
func (h *Hasher) Sum64() uint64 { return h.IntDigest() }

// Sum appends the big-endian digest to b.
func (h *Hasher) Sum(b []byte) []byte { return h.Digest().AppendTo(b) }

// Size returns DigestSize.
func (h *Hasher) Size() int { return DigestSize }

// BlockSize returns BlockSize.
func (h *Hasher) BlockSize() int { return BlockSize }

// Len returns the number of bytes written since construction or Reset.
func (h *Hasher) Len() uint64 { return h.total }

// Seed returns the seed the hasher was created with.
func (h *Hasher) Seed() Seed { return h.seed }

// Reset restores the freshly seeded, empty state. Initial data passed with
// WithInitial is not replayed.
func (h *Hasher) Reset() {
	h.state = h.seed.state()
	h.tail = [BlockSize]byte{}
	h.ntail = 0
	h.total = 0
}

// Copy returns an independent hasher in the same state. Writes to either do
// not affect the other. The exec lock and metrics collector are shared.
func (h *Hasher) Copy() *Hasher {
	c := *h
	return &c
}

const (
	stateMagic   = "sea\x01"
	marshaledLen = len(stateMagic) + 8*4 + 8*4 + 8 + 1 + BlockSize
)

// MarshalBinary implements encoding.BinaryMarshaler.
func (h *Hasher) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, marshaledLen)
	b = append(b, stateMagic...)
	for _, v := range [...]uint64{
		h.seed.A, h.seed.B, h.seed.C, h.seed.D,
		h.state.A, h.state.B, h.state.C, h.state.D,
		h.total,
	} {
		b = binary.BigEndian.AppendUint64(b, v)
	}
	b = append(b, byte(h.ntail))
	b = append(b, h.tail[:]...)
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The exec lock and
// metrics collector of h are kept.
func (h *Hasher) UnmarshalBinary(b []byte) error {
	if len(b) != marshaledLen {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidState, len(b), marshaledLen)
	}
	if string(b[:len(stateMagic)]) != stateMagic {
		return fmt.Errorf("%w: bad magic", ErrInvalidState)
	}
	b = b[len(stateMagic):]

	var w [9]uint64
	for i := range w {
		w[i] = binary.BigEndian.Uint64(b)
		b = b[8:]
	}
	ntail := int(b[0])
	if ntail >= BlockSize {
		return fmt.Errorf("%w: tail length %d", ErrInvalidState, ntail)
	}
	if w[8]%BlockSize != uint64(ntail) {
		return fmt.Errorf("%w: tail length %d does not match total %d", ErrInvalidState, ntail, w[8])
	}

	h.seed = Seed{A: w[0], B: w[1], C: w[2], D: w[3]}
	h.state = core.State{A: w[4], B: w[5], C: w[6], D: w[7]}
	h.total = w[8]
	h.ntail = ntail
	copy(h.tail[:], b[1:])
	return nil
}

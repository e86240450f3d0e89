package seahash

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"

	"golang.org/x/sys/cpu"
)

// Digest is a 64-bit SeaHash value.
type Digest uint64

// Uint64 returns the digest as an integer.
func (d Digest) Uint64() uint64 { return uint64(d) }

// Bytes returns the digest in big-endian byte order.
//
// The order is fixed so that Bytes, Hex and Uint64 agree on every platform.
func (d Digest) Bytes() [DigestSize]byte {
	var b [DigestSize]byte
	binary.BigEndian.PutUint64(b[:], uint64(d))
	return b
}

// NativeBytes returns the digest in the byte order of the running machine.
//
// Use this only to compare against digests produced by tools that emit
// native-order bytes; they differ between little- and big-endian hosts.
func (d Digest) NativeBytes() [DigestSize]byte {
	var b [DigestSize]byte
	if cpu.IsBigEndian {
		binary.BigEndian.PutUint64(b[:], uint64(d))
	} else {
		binary.LittleEndian.PutUint64(b[:], uint64(d))
	}
	return b
}

// Hex returns the digest as 16 lowercase hex characters.
func (d Digest) Hex() string {
	b := d.Bytes()
	return hex.EncodeToString(b[:])
}

// String implements fmt.Stringer.
func (d Digest) String() string { return d.Hex() }

// AppendTo appends the big-endian digest bytes to dst.
func (d Digest) AppendTo(dst []byte) []byte {
	return binary.BigEndian.AppendUint64(dst, uint64(d))
}

// MarshalText implements encoding.TextMarshaler using the hex form.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Digest) UnmarshalText(text []byte) error {
	v, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDigest parses a digest from its hex form. Short hex strings are
// accepted and treated as zero-padded on the left.
func ParseDigest(s string) (Digest, error) {
	if len(s) == 0 || len(s) > 2*DigestSize {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDigest, s)
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidDigest, s, err)
	}
	return Digest(v), nil
}

// DigestFromBytes decodes a big-endian digest.
func DigestFromBytes(b []byte) (Digest, error) {
	if len(b) != DigestSize {
		return 0, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidDigest, len(b), DigestSize)
	}
	return Digest(binary.BigEndian.Uint64(b)), nil
}

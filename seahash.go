package seahash

import (
	"fmt"
	"strconv"
	"strings"
	"unsafe"

	"github.com/hupe1980/seahash/internal/core"
)

const (
	// DigestSize is the size of a digest in bytes.
	DigestSize = 8
	// BlockSize is the number of bytes consumed by one mixing step.
	BlockSize = core.WordSize
)

// Seed is the initial value of the four hash lanes.
// Every value is valid; no validation is performed.
type Seed struct {
	A uint64 `json:"a"`
	B uint64 `json:"b"`
	C uint64 `json:"c"`
	D uint64 `json:"d"`
}

// DefaultSeed is the published default seed used by Hash and New.
var DefaultSeed = Seed{
	A: core.DefaultSeed.A,
	B: core.DefaultSeed.B,
	C: core.DefaultSeed.C,
	D: core.DefaultSeed.D,
}

// ParseSeed parses four comma-separated words. Each word may be decimal or
// carry a 0x, 0o or 0b prefix.
func ParseSeed(s string) (Seed, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Seed{}, fmt.Errorf("%w: want 4 comma-separated words, got %d", ErrInvalidSeed, len(parts))
	}
	var w [4]uint64
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 0, 64)
		if err != nil {
			return Seed{}, fmt.Errorf("%w: word %d: %w", ErrInvalidSeed, i, err)
		}
		w[i] = v
	}
	return Seed{A: w[0], B: w[1], C: w[2], D: w[3]}, nil
}

// String formats the seed as four comma-separated hex words, the form
// accepted by ParseSeed.
func (s Seed) String() string {
	return fmt.Sprintf("%#x,%#x,%#x,%#x", s.A, s.B, s.C, s.D)
}

func (s Seed) state() core.State {
	return core.State{A: s.A, B: s.B, C: s.C, D: s.D}
}

// Hash returns the SeaHash of buf using DefaultSeed.
//
// Hash is pure and safe for concurrent use.
func Hash(buf []byte) uint64 {
	return core.Sum(buf, core.DefaultSeed)
}

// HashSeeded returns the SeaHash of buf with the lanes initialized to a, b, c and d.
func HashSeeded(buf []byte, a, b, c, d uint64) uint64 {
	return core.Sum(buf, core.State{A: a, B: b, C: c, D: d})
}

// HashString returns the SeaHash of s without copying it.
func HashString(s string) uint64 {
	return Hash(unsafe.Slice(unsafe.StringData(s), len(s)))
}

// Sum returns the digest of buf under seed.
func Sum(buf []byte, seed Seed) Digest {
	return Digest(core.Sum(buf, seed.state()))
}

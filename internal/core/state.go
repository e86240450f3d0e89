package core

import "encoding/binary"

const (
	// WordSize is the number of bytes folded by a single mixing step.
	WordSize = 8
	// StripeSize is one word per lane.
	StripeSize = 4 * WordSize

	// multiplier is the PCG-derived diffusion constant.
	multiplier = 0x6eed0e9da4d94a4f
)

// DefaultSeed is the published initial state.
var DefaultSeed = State{
	A: 0x16f11fe89b0d677c,
	B: 0xb480a793d8e6c86c,
	C: 0x6fe2e5aaf078ebc9,
	D: 0x14f994a4c5259381,
}

// State holds the four lanes. Lane A is the lane the next word is mixed into.
type State struct {
	A, B, C, D uint64
}

// Diffuse scatters the bits of x. The shift amount is taken from the high
// bits, so flipping those flips low bits that the second multiply carries upward.
func Diffuse(x uint64) uint64 {
	x *= multiplier
	x ^= (x >> 32) >> (x >> 60)
	x *= multiplier
	return x
}

// ReadInt reads up to 8 bytes as a zero-extended little-endian integer.
func ReadInt(b []byte) uint64 {
	var x uint64
	for i := len(b) - 1; i >= 0; i-- {
		x = x<<8 | uint64(b[i])
	}
	return x
}

// Mix folds one word into lane A and rotates the lanes.
func (s *State) Mix(word uint64) {
	a := Diffuse(s.A ^ word)
	s.A, s.B, s.C, s.D = s.B, s.C, s.D, a
}

// Fold mixes every complete word of buf and returns the trailing bytes that
// do not form a full word.
func (s *State) Fold(buf []byte) []byte {
	a, b, c, d := s.A, s.B, s.C, s.D
	for len(buf) >= StripeSize {
		stripe := buf[:StripeSize:StripeSize]
		a = Diffuse(a ^ binary.LittleEndian.Uint64(stripe[0:]))
		b = Diffuse(b ^ binary.LittleEndian.Uint64(stripe[8:]))
		c = Diffuse(c ^ binary.LittleEndian.Uint64(stripe[16:]))
		d = Diffuse(d ^ binary.LittleEndian.Uint64(stripe[24:]))
		buf = buf[StripeSize:]
	}
	s.A, s.B, s.C, s.D = a, b, c, d

	for len(buf) >= WordSize {
		s.Mix(binary.LittleEndian.Uint64(buf))
		buf = buf[WordSize:]
	}
	return buf
}

// Finalize returns the hash of everything folded into s, followed by tail.
// total is the number of input bytes including tail. s is not modified.
func (s State) Finalize(tail []byte, total uint64) uint64 {
	a := s.A
	if len(tail) > 0 {
		a = Diffuse(a ^ ReadInt(tail))
	}
	return Diffuse(a ^ s.B ^ s.C ^ s.D ^ total)
}

// Sum hashes buf in one shot starting from seed.
func Sum(buf []byte, seed State) uint64 {
	s := seed
	tail := s.Fold(buf)
	return s.Finalize(tail, uint64(len(buf)))
}

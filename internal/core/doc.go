// Package core implements the SeaHash mixing primitives.
//
// # State
//
// The hash state is four 64-bit lanes. Input is consumed as little-endian
// 8-byte words; word i is xor-ed into lane i mod 4 and the lane is diffused.
// State keeps the lanes rotated so that lane A always receives the next word,
// which lets the streaming and one-shot paths share the same code:
//
//	var s core.State = core.DefaultSeed
//	rest := s.Fold(buf)              // full words, rest < 8 bytes
//	sum := s.Finalize(rest, uint64(len(buf)))
//
// # Finalization
//
// A trailing partial word (1..7 bytes) is zero-extended and mixed into lane A.
// The four lanes and the total input length are then xor-ed together and
// diffused once more. Mixing the length keeps inputs that differ only by
// trailing zero bytes apart.
package core

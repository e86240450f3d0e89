// Package seahash implements SeaHash, a fast non-cryptographic 64-bit hash.
//
// SeaHash is meant for checksums, hash tables and content fingerprints. It
// gives no pre-image, collision or tamper resistance and must not be used
// where an adversary controls the input.
//
// # One-shot Hashing
//
//	sum := seahash.Hash(data)
//	sum := seahash.HashSeeded(data, a, b, c, d)
//
// Both are pure and safe for concurrent use.
//
// # Streaming
//
// A Hasher accumulates input across calls and implements hash.Hash64:
//
//	h := seahash.New()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	fmt.Println(h.HexDigest()) // same as Hash(chunk1 + chunk2)
//
// Digest reads never modify the hasher. Copy returns an independent branch:
//
//	prefix := seahash.New(seahash.WithInitial(header))
//	a := prefix.Copy()
//	a.Write(bodyA)
//
// # Ingestion Paths
//
// Update takes an Input, which is either Owned or Borrowed:
//
//	h.Update(seahash.Copy(buf))        // private copy, exec lock released while mixing
//	h.Update(seahash.BorrowBytes(mem)) // read in place, exec lock held
//
// Borrowed views read caller memory without copying. The memory must stay
// valid and unmodified for the whole call. Resolve maps arbitrary values to
// the right path and rejects anything else with an *InputTypeError.
//
// # Digest Byte Order
//
// Digest.Bytes, Hasher.Sum and Hasher.HexDigest use big-endian order, so the
// hex form equals the hex encoding of the bytes on every platform.
// Digest.NativeBytes returns the machine-order bytes some older tools emit.
package seahash

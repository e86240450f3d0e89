// Package testutil provides testing utilities for seahash.
//
// This package is intended for use in tests and benchmarks only.
// It provides deterministic random input, random chunk partitions for
// exercising streaming updates, and reference digests.
//
// # Random Input
//
//	rng := testutil.NewRNG(seed)
//	data := rng.Bytes(4096)
//	chunks := testutil.Split(data, rng.Partition(len(data), 64))
//
// # Reference Values
//
//	for _, v := range testutil.Vectors {
//	    assert.Equal(t, v.Sum, seahash.Hash([]byte(v.Input)))
//	}
package testutil

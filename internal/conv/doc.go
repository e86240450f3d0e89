// Package conv provides checked integer conversions.
//
// Blob sizes arrive as int64 from file systems and object stores, while
// hashers count bytes as uint64 and slices are indexed by int. These helpers
// reject values that would wrap instead of silently truncating them.
package conv

// Package mmap maps files read-only so they can be hashed in place.
//
// A Mapping and every Region cut from it implement ViewBytes, which lets the
// hasher read them as borrowed views without copying:
//
//	m, err := mmap.Open("disk.img")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	err = h.UpdateAny(m)
//
// On Unix the file is mapped with mmap(2) and access hints go to madvise(2).
// On Windows CreateFileMapping/MapViewOfFile is used and hints are ignored.
//
// Mapping and Region are safe for concurrent reads. Close is idempotent, but
// callers must make sure no reads of Bytes or ViewBytes are in flight when
// it is called.
package mmap

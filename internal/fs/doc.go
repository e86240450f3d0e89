// Package fs provides filesystem abstractions for testability and fault injection.
//
//   - [FileSystem]: the operations needed to persist a file atomically
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: test wrapper that injects write, sync, close and rename failures
//
// [WriteFileAtomic] writes through a temporary file and a rename, which is
// how ledgers are saved.
package fs

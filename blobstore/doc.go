// Package blobstore provides read access to the blobs whose digests are computed.
//
// BlobStore opens named, immutable blobs. A Blob reports its size and serves
// byte ranges; blobs that are already resident in memory also implement
// Mappable so they can be hashed in place.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, memory-mapped (Mappable)
//   - MemoryStore: in-memory, for tests (Mappable)
//   - s3.Store: Amazon S3 with ranged GETs and multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// Stores that accept writes implement Putter; stores that can enumerate
// their contents implement Lister.
package blobstore

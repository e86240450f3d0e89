// Package checksum computes SeaHash digests of files, readers and blobs.
//
// A Summer picks the cheapest way to feed each source to the hasher:
//
//   - Local files and in-memory blobs are hashed in place as borrowed views.
//   - Readers and remote blobs are streamed through a reused buffer as owned
//     chunks.
//   - Names ending in .zst, .lz4 or .gz are decompressed first when
//     WithDecompress(DecompressAuto) is set, so the digest covers the content.
//
// Summer is safe for concurrent use. SumMany fans out over a worker pool
// bounded by the resource.Controller.
//
//	s := checksum.New(
//	    checksum.WithLogger(logger),
//	    checksum.WithController(resource.NewController(resource.Config{MaxWorkers: 4})),
//	)
//	d, n, err := s.SumFile(ctx, "disk.img")
package checksum

// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("images/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	d, n, err := summer.SumBlob(ctx, store, "disk.img")
//
// # Features
//
//   - Ranged GETs so large objects are hashed in bounded chunks
//   - Multipart uploads for Put
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3

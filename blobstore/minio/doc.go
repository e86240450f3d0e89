// Package minio provides a BlobStore implementation using the MinIO client.
//
// MinIO is an S3-compatible object storage system. This package uses the
// official MinIO Go client, which also works against Ceph, SeaweedFS and
// Garage.
//
// # Basic Usage
//
//	store, err := minioblob.New("localhost:9000", "my-bucket",
//	    minioblob.WithStaticCredentials("minioadmin", "minioadmin"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	d, n, err := summer.SumBlob(ctx, store, "backups/disk.img")
//
// Without WithStaticCredentials, credentials are read from the
// MINIO_ACCESS_KEY and MINIO_SECRET_KEY environment variables.
package minio

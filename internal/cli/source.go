package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hupe1980/seahash/blobstore"
	"github.com/hupe1980/seahash/blobstore/minio"
	"github.com/hupe1980/seahash/blobstore/s3"
	"github.com/hupe1980/seahash/ledger"
	"github.com/hupe1980/seahash/ledger/dynamodb"
)

const (
	schemeFile  = ""
	schemeStdin = "-"
	schemeS3    = "s3"
	schemeMinio = "minio"
)

// Source is a parsed command line source.
type Source struct {
	// Raw is the source as given; it names the source in output.
	Raw    string
	Scheme string
	Bucket string
	// Key is the object key, or the path for local files.
	Key string
}

func (s Source) store() string { return s.Scheme + "://" + s.Bucket }

// ParseSource classifies s as standard input, an object URL or a local path.
func ParseSource(s string) (Source, error) {
	if s == schemeStdin {
		return Source{Raw: s, Scheme: schemeStdin}, nil
	}
	scheme, rest, ok := strings.Cut(s, "://")
	if !ok {
		return Source{Raw: s, Scheme: schemeFile, Key: s}, nil
	}
	switch scheme {
	case schemeS3, schemeMinio:
	default:
		return Source{}, fmt.Errorf("unsupported source scheme %q: %w", scheme, ErrUsage)
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return Source{}, fmt.Errorf("source %q must be %s://bucket/key: %w", s, scheme, ErrUsage)
	}
	return Source{Raw: s, Scheme: scheme, Bucket: bucket, Key: key}, nil
}

// StoreOpener opens the blob store behind an object source.
type StoreOpener func(ctx context.Context, cfg Config, scheme, bucket string) (blobstore.BlobStore, error)

// DefaultStoreOpener connects to S3 with the shared AWS configuration and to
// MinIO at cfg.MinioEndpoint or $MINIO_ENDPOINT.
func DefaultStoreOpener(ctx context.Context, cfg Config, scheme, bucket string) (blobstore.BlobStore, error) {
	switch scheme {
	case schemeS3:
		return s3.New(ctx, bucket)
	case schemeMinio:
		endpoint := cfg.MinioEndpoint
		if endpoint == "" {
			endpoint = os.Getenv("MINIO_ENDPOINT")
		}
		if endpoint == "" {
			return nil, fmt.Errorf("minio sources require --minio-endpoint: %w", ErrUsage)
		}
		return minio.New(endpoint, bucket, minio.WithSecure(cfg.MinioSecure))
	default:
		return nil, fmt.Errorf("unsupported source scheme %q: %w", scheme, ErrUsage)
	}
}

// LedgerOpener opens the ledger named by --ledger.
type LedgerOpener func(ctx context.Context, target string) (ledger.Store, error)

// DefaultLedgerOpener opens dynamodb://table/name in DynamoDB and anything
// else as a ledger file.
func DefaultLedgerOpener(ctx context.Context, target string) (ledger.Store, error) {
	rest, ok := strings.CutPrefix(target, "dynamodb://")
	if !ok {
		return ledger.OpenFile(target)
	}
	table, name, _ := strings.Cut(rest, "/")
	if table == "" {
		return nil, fmt.Errorf("ledger %q must be dynamodb://table/name: %w", target, ErrUsage)
	}
	if name == "" {
		name = "default"
	}
	return dynamodb.New(ctx, table, name)
}

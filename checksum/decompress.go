package checksum

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/hupe1980/seahash"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec names a compression format recognized by extension.
type Codec string

const (
	CodecNone Codec = ""
	CodecZstd Codec = "zstd"
	CodecLZ4  Codec = "lz4"
	CodecGzip Codec = "gzip"
)

// DetectCodec maps a file or object name to its compression format.
func DetectCodec(name string) Codec {
	switch strings.ToLower(path.Ext(name)) {
	case ".zst", ".zstd":
		return CodecZstd
	case ".lz4":
		return CodecLZ4
	case ".gz":
		return CodecGzip
	default:
		return CodecNone
	}
}

func (s *Summer) decodes(name string) bool {
	return s.opts.decompress == DecompressAuto && DetectCodec(name) != CodecNone
}

// NewDecoder wraps r with a decoder for codec. CodecNone returns r unchanged.
func NewDecoder(codec Codec, r io.Reader) (io.ReadCloser, error) {
	switch codec {
	case CodecZstd:
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case CodecLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CodecGzip:
		return gzip.NewReader(r)
	default:
		return io.NopCloser(r), nil
	}
}

func (s *Summer) sumDecoded(ctx context.Context, name string, r io.Reader) (seahash.Digest, int64, error) {
	dec, err := NewDecoder(DetectCodec(name), r)
	if err != nil {
		return 0, 0, err
	}
	defer dec.Close()
	return s.SumReader(ctx, dec)
}

package checksum

import (
	"bytes"
	"context"
	"testing"

	"github.com/hupe1980/seahash"
	"github.com/hupe1980/seahash/blobstore"
	"github.com/hupe1980/seahash/testutil"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compress(t *testing.T, codec Codec, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	switch codec {
	case CodecZstd:
		enc, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		_, err = enc.Write(data)
		require.NoError(t, err)
		require.NoError(t, enc.Close())
	case CodecLZ4:
		w := lz4.NewWriter(&buf)
		_, err := w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case CodecGzip:
		w := gzip.NewWriter(&buf)
		_, err := w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	default:
		t.Fatalf("unknown codec %q", codec)
	}
	return buf.Bytes()
}

func TestDetectCodec(t *testing.T) {
	tests := map[string]Codec{
		"disk.img.zst": CodecZstd,
		"a.ZSTD":       CodecZstd,
		"x/y.lz4":      CodecLZ4,
		"log.gz":       CodecGzip,
		"plain.bin":    CodecNone,
		"noext":        CodecNone,
	}
	for name, want := range tests {
		assert.Equal(t, want, DetectCodec(name), name)
	}
}

func TestDecompress(t *testing.T) {
	data := testutil.NewRNG(6).Bytes(50_000)
	want := seahash.Hash(data)

	for codec, name := range map[Codec]string{
		CodecZstd: "data.zst",
		CodecLZ4:  "data.lz4",
		CodecGzip: "data.gz",
	} {
		t.Run(string(codec), func(t *testing.T) {
			packed := compress(t, codec, data)
			path := writeFile(t, name, packed)

			d, n, err := New(WithDecompress(DecompressAuto)).SumFile(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, int64(len(data)), n)
			assert.Equal(t, want, d.Uint64())

			raw, _, err := New().SumFile(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, seahash.Hash(packed), raw.Uint64())

			store := blobstore.NewMemoryStore()
			require.NoError(t, store.Put(context.Background(), name, packed))
			d, _, err = New(WithDecompress(DecompressAuto), WithChunkSize(4096)).SumBlob(context.Background(), store, name)
			require.NoError(t, err)
			assert.Equal(t, want, d.Uint64())
		})
	}
}

func TestDecompress_Corrupt(t *testing.T) {
	path := writeFile(t, "bad.gz", []byte("definitely not gzip"))
	_, _, err := New(WithDecompress(DecompressAuto)).SumFile(context.Background(), path)
	assert.Error(t, err)
}

package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/seahash"
	"github.com/hupe1980/seahash/blobstore"
	"github.com/hupe1980/seahash/ledger"
)

type harness struct {
	app    *App
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	stores map[string]*blobstore.MemoryStore
	opened []string
}

func newHarness(stdin string) *harness {
	h := &harness{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		stores: map[string]*blobstore.MemoryStore{},
	}
	h.app = &App{
		Stdin:  strings.NewReader(stdin),
		Stdout: h.stdout,
		Stderr: h.stderr,
		OpenStore: func(_ context.Context, _ Config, scheme, bucket string) (blobstore.BlobStore, error) {
			h.opened = append(h.opened, scheme+"://"+bucket)
			store, ok := h.stores[scheme+"://"+bucket]
			if !ok {
				return nil, fmt.Errorf("no such bucket %s", bucket)
			}
			return store, nil
		},
		OpenLedger: func(_ context.Context, target string) (ledger.Store, error) {
			return ledger.OpenFile(target)
		},
		Now: func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) },
	}
	return h
}

func (h *harness) run(args ...string) int {
	return h.app.Run(context.Background(), args)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_Files(t *testing.T) {
	dir := t.TempDir()
	abc := writeFile(t, dir, "abc.txt", "abc")
	hello := writeFile(t, dir, "hello.txt", "hello world")
	empty := writeFile(t, dir, "empty.txt", "")

	h := newHarness("")
	require.Equal(t, 0, h.run(abc, hello, empty), h.stderr.String())

	want := fmt.Sprintf("80796d63c232ed86  %s\n17ac2a72bc3bdc1f  %s\nc920ca43256fdcb9  %s\n", abc, hello, empty)
	assert.Equal(t, want, h.stdout.String())
	assert.Empty(t, h.stderr.String())
}

func TestRun_Stdin(t *testing.T) {
	h := newHarness("abcdefghi")
	require.Equal(t, 0, h.run())
	assert.Equal(t, "796b18cbdc378f26  -\n", h.stdout.String())

	h = newHarness("to be or not to be")
	require.Equal(t, 0, h.run("--format", "int", "-"))
	assert.Equal(t, "1988685042348123509  -\n", h.stdout.String())
}

func TestRun_Memory(t *testing.T) {
	h := newHarness("abcdefghi")
	require.Equal(t, 0, h.run("--memory", "65536", "-"), h.stderr.String())
	assert.Equal(t, "796b18cbdc378f26  -\n", h.stdout.String())
}

func TestRun_Seed(t *testing.T) {
	h := newHarness("hello world")
	require.Equal(t, 0, h.run("-f", "int", "--seed", "1,2,3,4"))
	assert.Equal(t, "16851795577581991309  -\n", h.stdout.String())
}

func TestRun_Jobs(t *testing.T) {
	dir := t.TempDir()
	var (
		args []string
		want strings.Builder
	)
	for i := 0; i < 20; i++ {
		content := strings.Repeat("x", i*1000)
		path := writeFile(t, dir, fmt.Sprintf("f%02d", i), content)
		args = append(args, path)
		fmt.Fprintf(&want, "%s  %s\n", seahash.Digest(seahash.Hash([]byte(content))), path)
	}

	h := newHarness("")
	require.Equal(t, 0, h.run(append([]string{"-j", "4", "--rate", "100000000"}, args...)...))
	assert.Equal(t, want.String(), h.stdout.String())
}

func TestRun_Objects(t *testing.T) {
	h := newHarness("")
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "dir/abc", []byte("abc")))
	require.NoError(t, store.Put(context.Background(), "hello", []byte("hello world")))
	h.stores["s3://bucket"] = store
	h.stores["minio://other"] = store

	code := h.run("s3://bucket/dir/abc", "s3://bucket/hello", "minio://other/hello")
	require.Equal(t, 0, code, h.stderr.String())
	assert.Equal(t,
		"80796d63c232ed86  s3://bucket/dir/abc\n17ac2a72bc3bdc1f  s3://bucket/hello\n17ac2a72bc3bdc1f  minio://other/hello\n",
		h.stdout.String())
	assert.Equal(t, []string{"s3://bucket", "minio://other"}, h.opened)
}

func TestRun_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	abc := writeFile(t, dir, "abc.txt", "abc")
	missing := filepath.Join(dir, "missing.txt")

	h := newHarness("")
	assert.Equal(t, 1, h.run(missing, abc))
	assert.Equal(t, fmt.Sprintf("80796d63c232ed86  %s\n", abc), h.stdout.String())
	assert.Contains(t, h.stderr.String(), "seasum: "+missing+": ")
	assert.Contains(t, h.stderr.String(), "1 of 2 sources failed")
}

func TestRun_MissingObject(t *testing.T) {
	h := newHarness("")
	h.stores["s3://bucket"] = blobstore.NewMemoryStore()
	assert.Equal(t, 1, h.run("s3://bucket/nope"))
	assert.Contains(t, h.stderr.String(), "seasum: s3://bucket/nope: ")
}

func TestRun_Decompress(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.gz")

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("hello world"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	h := newHarness("")
	require.Equal(t, 0, h.run("-d", path))
	assert.Equal(t, "17ac2a72bc3bdc1f  "+path+"\n", h.stdout.String())

	h = newHarness("")
	require.Equal(t, 0, h.run(path))
	assert.Equal(t, seahash.Digest(seahash.Hash(buf.Bytes())).Hex()+"  "+path+"\n", h.stdout.String())
}

func TestRun_Check(t *testing.T) {
	dir := t.TempDir()
	abc := writeFile(t, dir, "abc.txt", "abc")
	hello := writeFile(t, dir, "hello.txt", "hello world")

	h := newHarness("")
	require.Equal(t, 0, h.run(abc, hello))
	sums := writeFile(t, dir, "SUMS", "# seasum\n\n"+h.stdout.String())

	h = newHarness("")
	require.Equal(t, 0, h.run("--check", sums), h.stderr.String())
	assert.Equal(t, abc+": OK\n"+hello+": OK\n", h.stdout.String())

	writeFile(t, dir, "hello.txt", "hello World")
	require.NoError(t, os.Remove(abc))

	h = newHarness("")
	assert.Equal(t, 1, h.run("-c", sums))
	assert.Equal(t, abc+": FAILED open or read\n"+hello+": FAILED\n", h.stdout.String())
	assert.Contains(t, h.stderr.String(), "1 computed checksum(s) did NOT match")
	assert.Contains(t, h.stderr.String(), "1 listed source(s) could not be read")
}

func TestRun_CheckStdinAndBinaryMarker(t *testing.T) {
	dir := t.TempDir()
	abc := writeFile(t, dir, "abc.txt", "abc")

	h := newHarness("80796d63c232ed86 *" + abc + "\nnot a checksum line\n")
	require.Equal(t, 0, h.run("--check", "-"))
	assert.Equal(t, abc+": OK\n", h.stdout.String())
	assert.Contains(t, h.stderr.String(), "-: 2: improperly formatted checksum line")
	assert.Contains(t, h.stderr.String(), "1 line(s) improperly formatted")
}

func TestRun_CheckIntFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tobe", "to be or not to be")

	h := newHarness("1988685042348123509  " + path + "\n")
	require.Equal(t, 0, h.run("-f", "int", "-c", "-"), h.stderr.String())
	assert.Equal(t, path+": OK\n", h.stdout.String())
}

func TestRun_CheckListsStdin(t *testing.T) {
	h := newHarness("c920ca43256fdcb9  -\n")
	assert.Equal(t, 2, h.run("-c", "-"))
	assert.Contains(t, h.stderr.String(), "standard input may be named only once")
}

func TestRun_CheckNoValidLines(t *testing.T) {
	h := newHarness("garbage\n")
	assert.Equal(t, 1, h.run("-c", "-"))
	assert.Contains(t, h.stderr.String(), "no properly formatted checksum lines found")
}

func TestRun_Ledger(t *testing.T) {
	dir := t.TempDir()
	abc := writeFile(t, dir, "abc.txt", "abc")
	ledgerPath := filepath.Join(dir, "sums.ledger")

	h := newHarness("")
	require.Equal(t, 0, h.run("--ledger", ledgerPath, abc), h.stderr.String())
	assert.Equal(t, "80796d63c232ed86  "+abc+"\n", h.stdout.String())

	store, err := ledger.OpenFile(ledgerPath)
	require.NoError(t, err)
	e, err := store.Get(context.Background(), abc)
	require.NoError(t, err)
	assert.Equal(t, ledger.Entry{
		Name:       abc,
		Digest:     seahash.Digest(seahash.Hash([]byte("abc"))),
		Size:       3,
		Seed:       seahash.DefaultSeed,
		RecordedAt: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}, e)

	h = newHarness("")
	require.Equal(t, 0, h.run("--ledger", ledgerPath, "--verify", abc), h.stderr.String())
	assert.Equal(t, abc+": OK\n", h.stdout.String())

	writeFile(t, dir, "abc.txt", "abd")
	h = newHarness("")
	assert.Equal(t, 1, h.run("--ledger", ledgerPath, "--verify", abc))
	assert.Equal(t, abc+": FAILED\n", h.stdout.String())

	h = newHarness("")
	assert.Equal(t, 1, h.run("--ledger", ledgerPath, "--verify", "--seed", "1,2,3,4", abc))
	assert.Contains(t, h.stderr.String(), "recorded with seed")

	other := writeFile(t, dir, "other.txt", "x")
	h = newHarness("")
	assert.Equal(t, 1, h.run("--ledger", ledgerPath, "--verify", other))
	assert.Contains(t, h.stderr.String(), "entry not found")
}

func TestRun_MetricsFile(t *testing.T) {
	dir := t.TempDir()
	abc := writeFile(t, dir, "abc.txt", "abc")
	metrics := filepath.Join(dir, "seasum.prom")

	h := newHarness("")
	require.Equal(t, 0, h.run("--metrics-file", metrics, abc))

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "seasum_seahash_digests_total 1")
	assert.Contains(t, string(data), `seasum_seahash_bytes_total{path="borrowed"} 3`)
}

func TestRun_Logging(t *testing.T) {
	dir := t.TempDir()
	abc := writeFile(t, dir, "abc.txt", "abc")

	h := newHarness("")
	require.Equal(t, 0, h.run("--log-level", "debug", "--log-json", abc))
	assert.Contains(t, h.stderr.String(), `"msg":"checksum completed"`)
	assert.Contains(t, h.stderr.String(), `"digest":"80796d63c232ed86"`)
}

func TestRun_HelpAndVersion(t *testing.T) {
	h := newHarness("")
	require.Equal(t, 0, h.run("--help"))
	for _, token := range []string{"--seed", "--format", "--check", "--ledger", "--jobs", "--rate", "--decompress", "--minio-endpoint", "--log-level", "--version"} {
		assert.Contains(t, h.stdout.String(), token)
	}

	h = newHarness("")
	require.Equal(t, 0, h.run("--version"))
	assert.True(t, strings.HasPrefix(h.stdout.String(), "seasum "+seahash.Version+"\n"))
}

func TestRun_UsageErrors(t *testing.T) {
	tests := map[string][]string{
		"UnknownFlag":     {"--nope"},
		"BadSeed":         {"--seed", "1,2,3"},
		"BadFormat":       {"--format", "base64"},
		"BadLevel":        {"--log-level", "loud"},
		"ZeroJobs":        {"--jobs", "0"},
		"NegativeRate":    {"--rate", "-1"},
		"VerifyNoLedger":  {"--verify", "x"},
		"CheckAndSources": {"--check", "SUMS", "x"},
		"CheckAndLedger":  {"--check", "SUMS", "--ledger", "l"},
		"BadScheme":       {"gs://bucket/key"},
		"NoKey":           {"s3://bucket"},
		"DuplicateStdin":  {"-", "x", "-"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			h := newHarness("")
			assert.Equal(t, 2, h.run(args...))
			assert.Contains(t, h.stderr.String(), "Try 'seasum --help'")
		})
	}
}

func TestRun_StoreOpenFailure(t *testing.T) {
	h := newHarness("")
	assert.Equal(t, 1, h.run("s3://unknown/key"))
	assert.Contains(t, h.stderr.String(), "open s3://unknown")
}

func TestDefaultStoreOpener_MinioNeedsEndpoint(t *testing.T) {
	t.Setenv("MINIO_ENDPOINT", "")
	_, err := DefaultStoreOpener(context.Background(), Config{}, schemeMinio, "bucket")
	assert.ErrorIs(t, err, ErrUsage)
}

func TestDefaultLedgerOpener(t *testing.T) {
	path := filepath.Join(t.TempDir(), "l")
	store, err := DefaultLedgerOpener(context.Background(), path)
	require.NoError(t, err)
	assert.IsType(t, &ledger.FileStore{}, store)

	_, err = DefaultLedgerOpener(context.Background(), "dynamodb:///name")
	assert.ErrorIs(t, err, ErrUsage)
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		in   string
		want Source
	}{
		{"-", Source{Raw: "-", Scheme: schemeStdin}},
		{"a/b.txt", Source{Raw: "a/b.txt", Scheme: schemeFile, Key: "a/b.txt"}},
		{"s3://bucket/a/b", Source{Raw: "s3://bucket/a/b", Scheme: schemeS3, Bucket: "bucket", Key: "a/b"}},
		{"minio://bkt/k", Source{Raw: "minio://bkt/k", Scheme: schemeMinio, Bucket: "bkt", Key: "k"}},
	}
	for _, tt := range tests {
		got, err := ParseSource(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	for _, bad := range []string{"ftp://x/y", "s3://", "s3:///key", "minio://bucket/"} {
		_, err := ParseSource(bad)
		assert.ErrorIs(t, err, ErrUsage, bad)
	}
}

func TestFormat(t *testing.T) {
	d := seahash.Digest(seahash.Hash([]byte("abcdefghi")))
	assert.Equal(t, "796b18cbdc378f26", FormatHex.format(d))
	assert.Equal(t, "8749113964949376806", FormatInt.format(d))

	got, err := FormatInt.parse("8749113964949376806")
	require.NoError(t, err)
	assert.Equal(t, d, got)

	_, err = FormatHex.parse("796b")
	assert.ErrorIs(t, err, seahash.ErrInvalidDigest)
	_, err = FormatInt.parse("-1")
	assert.ErrorIs(t, err, seahash.ErrInvalidDigest)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 2, ExitCode(fmt.Errorf("x: %w", ErrUsage)))
	assert.Equal(t, 1, ExitCode(ErrFailed))
	assert.Equal(t, 1, ExitCode(os.ErrNotExist))
}

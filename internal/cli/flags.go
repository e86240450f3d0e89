package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/hupe1980/seahash"
)

const usageHeader = `seasum prints or checks SeaHash checksums.

Usage:
  seasum [flags] [FILE|s3://bucket/key|minio://bucket/key|-]...

With no source, or when a source is -, standard input is read.

Flags:
`

// Format selects how digests are printed and parsed.
type Format string

const (
	// FormatHex prints 16 lowercase hex characters.
	FormatHex Format = "hex"
	// FormatInt prints the digest as an unsigned decimal integer.
	FormatInt Format = "int"
)

// String implements pflag.Value.
func (f *Format) String() string { return string(*f) }

// Set implements pflag.Value.
func (f *Format) Set(s string) error {
	switch Format(s) {
	case FormatHex, FormatInt:
		*f = Format(s)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want hex or int)", s)
	}
}

// Type implements pflag.Value.
func (f *Format) Type() string { return "format" }

func (f Format) format(d seahash.Digest) string {
	if f == FormatInt {
		return strconv.FormatUint(d.Uint64(), 10)
	}
	return d.Hex()
}

func (f Format) parse(s string) (seahash.Digest, error) {
	if f == FormatInt {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", seahash.ErrInvalidDigest, s)
		}
		return seahash.Digest(v), nil
	}
	if len(s) != 2*seahash.DigestSize {
		return 0, fmt.Errorf("%w: %q", seahash.ErrInvalidDigest, s)
	}
	return seahash.ParseDigest(s)
}

type seedValue struct{ seed *seahash.Seed }

func (v seedValue) String() string {
	if v.seed == nil {
		return ""
	}
	return v.seed.String()
}

func (v seedValue) Set(s string) error {
	seed, err := seahash.ParseSeed(s)
	if err != nil {
		return err
	}
	*v.seed = seed
	return nil
}

func (seedValue) Type() string { return "a,b,c,d" }

type levelValue struct{ level *slog.Level }

func (v levelValue) String() string {
	if v.level == nil {
		return ""
	}
	return v.level.String()
}

func (v levelValue) Set(s string) error { return v.level.UnmarshalText([]byte(s)) }

func (levelValue) Type() string { return "level" }

// Config holds the parsed command line.
type Config struct {
	Seed          seahash.Seed
	Format        Format
	Check         string
	Ledger        string
	Verify        bool
	Jobs          int
	Rate          int64
	Memory        int64
	Decompress    bool
	MinioEndpoint string
	MinioSecure   bool
	LogLevel      slog.Level
	LogJSON       bool
	MetricsFile   string
	Version       bool
	Sources       []string
}

func newFlagSet(cfg *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("seasum", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	cfg.Seed = seahash.DefaultSeed
	cfg.Format = FormatHex
	cfg.LogLevel = slog.LevelWarn

	fs.Var(seedValue{&cfg.Seed}, "seed", "hash with four comma-separated seed words")
	fs.VarP(&cfg.Format, "format", "f", "digest format: hex or int")
	fs.StringVarP(&cfg.Check, "check", "c", "", "read checksums from `FILE` and verify them (- for stdin)")
	fs.StringVar(&cfg.Ledger, "ledger", "", "record digests in a ledger `PATH` or dynamodb://table/name")
	fs.BoolVar(&cfg.Verify, "verify", false, "verify sources against the ledger instead of recording")
	fs.IntVarP(&cfg.Jobs, "jobs", "j", runtime.GOMAXPROCS(0), "number of sources hashed in parallel")
	fs.Int64Var(&cfg.Rate, "rate", 0, "read throughput limit in bytes per second (0 = unlimited)")
	fs.Int64Var(&cfg.Memory, "memory", 0, "limit for buffered bytes (0 = unlimited)")
	fs.BoolVarP(&cfg.Decompress, "decompress", "d", false, "decode .zst, .lz4 and .gz sources before hashing")
	fs.StringVar(&cfg.MinioEndpoint, "minio-endpoint", "", "MinIO `host:port` for minio:// sources (default $MINIO_ENDPOINT)")
	fs.BoolVar(&cfg.MinioSecure, "minio-secure", false, "use HTTPS for MinIO")
	fs.Var(levelValue{&cfg.LogLevel}, "log-level", "log level: debug, info, warn or error")
	fs.BoolVar(&cfg.LogJSON, "log-json", false, "write logs as JSON")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", "", "write Prometheus metrics to `FILE` on exit")
	fs.BoolVar(&cfg.Version, "version", false, "print version information")
	return fs
}

// usage returns the help text.
func usage() string {
	var cfg Config
	return usageHeader + newFlagSet(&cfg).FlagUsages()
}

// ParseArgs parses the command line. It returns pflag.ErrHelp when help was
// requested and errors wrapping ErrUsage for invalid input.
func ParseArgs(args []string) (Config, error) {
	var cfg Config
	fs := newFlagSet(&cfg)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return cfg, err
		}
		return cfg, fmt.Errorf("%w: %w", err, ErrUsage)
	}
	cfg.Sources = fs.Args()

	switch {
	case cfg.Version:
		return cfg, nil
	case cfg.Jobs < 1:
		return cfg, fmt.Errorf("--jobs must be at least 1: %w", ErrUsage)
	case cfg.Rate < 0 || cfg.Memory < 0:
		return cfg, fmt.Errorf("--rate and --memory must not be negative: %w", ErrUsage)
	case cfg.Verify && cfg.Ledger == "":
		return cfg, fmt.Errorf("--verify requires --ledger: %w", ErrUsage)
	case cfg.Check != "" && len(cfg.Sources) > 0:
		return cfg, fmt.Errorf("--check takes no sources: %w", ErrUsage)
	case cfg.Check != "" && cfg.Ledger != "":
		return cfg, fmt.Errorf("--check and --ledger are mutually exclusive: %w", ErrUsage)
	}
	if len(cfg.Sources) == 0 && cfg.Check == "" {
		cfg.Sources = []string{"-"}
	}
	return cfg, nil
}

// Package cli implements the seasum command.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/seahash"
	"github.com/hupe1980/seahash/blobstore"
	"github.com/hupe1980/seahash/checksum"
	"github.com/hupe1980/seahash/ledger"
	"github.com/hupe1980/seahash/metrics/prometheus"
	"github.com/hupe1980/seahash/resource"
)

// App runs seasum against injectable streams and backends.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	OpenStore  StoreOpener
	OpenLedger LedgerOpener
	Now        func() time.Time
}

// New creates an App wired to the process streams and real backends.
func New() *App {
	return &App{
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		OpenStore:  DefaultStoreOpener,
		OpenLedger: DefaultLedgerOpener,
		Now:        time.Now,
	}
}

// Run executes seasum and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	err := a.run(ctx, args)
	if err != nil {
		fmt.Fprintf(a.Stderr, "seasum: %v\n", err)
		if errors.Is(err, ErrUsage) {
			fmt.Fprint(a.Stderr, "Try 'seasum --help' for more information.\n")
		}
	}
	return ExitCode(err)
}

// session holds the state of one run.
type session struct {
	app    *App
	cfg    Config
	out    *bufio.Writer
	logger *seahash.Logger
	summer *checksum.Summer
	rc     *resource.Controller
	stores map[string]blobstore.BlobStore
}

func (a *App) run(ctx context.Context, args []string) error {
	cfg, err := ParseArgs(args)
	if errors.Is(err, pflag.ErrHelp) {
		_, err = fmt.Fprint(a.Stdout, usage())
		return err
	}
	if err != nil {
		return err
	}
	if cfg.Version {
		_, err = fmt.Fprintln(a.Stdout, GetBuildInfo().String())
		return err
	}

	var logger *seahash.Logger
	if cfg.LogJSON {
		logger = seahash.NewJSONLogger(a.Stderr, cfg.LogLevel)
	} else {
		logger = seahash.NewTextLogger(a.Stderr, cfg.LogLevel)
	}

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   cfg.Memory,
		MaxWorkers:         int64(cfg.Jobs),
		IOLimitBytesPerSec: cfg.Rate,
	})

	opts := []checksum.Option{
		checksum.WithSeed(cfg.Seed),
		checksum.WithLogger(logger),
		checksum.WithController(rc),
	}
	if cfg.Decompress {
		opts = append(opts, checksum.WithDecompress(checksum.DecompressAuto))
	}

	var reg *prom.Registry
	if cfg.MetricsFile != "" {
		reg = prom.NewRegistry()
		collector := prometheus.NewCollector("seasum")
		collector.MustRegister(reg)
		opts = append(opts, checksum.WithMetrics(collector))
	}

	s := &session{
		app:    a,
		cfg:    cfg,
		out:    bufio.NewWriter(a.Stdout),
		logger: logger,
		summer: checksum.New(opts...),
		rc:     rc,
		stores: make(map[string]blobstore.BlobStore),
	}

	if cfg.Check != "" {
		err = s.check(ctx)
	} else {
		err = s.sum(ctx)
	}
	if ferr := s.out.Flush(); err == nil {
		err = ferr
	}

	if reg != nil {
		if werr := prom.WriteToTextfile(cfg.MetricsFile, reg); werr != nil && err == nil {
			err = fmt.Errorf("write metrics: %w", werr)
		}
	}
	return err
}

// parseSources parses raw source names. Standard input can be read only
// once, so stdinUsed reports whether it is already taken.
func (s *session) parseSources(raw []string, stdinUsed bool) ([]Source, error) {
	sources := make([]Source, len(raw))
	for i, r := range raw {
		src, err := ParseSource(r)
		if err != nil {
			return nil, err
		}
		if src.Scheme == schemeStdin {
			if stdinUsed {
				return nil, fmt.Errorf("standard input may be named only once: %w", ErrUsage)
			}
			stdinUsed = true
		}
		sources[i] = src
	}
	return sources, nil
}

// openStores opens one store per bucket referenced by sources.
func (s *session) openStores(ctx context.Context, sources []Source) error {
	for _, src := range sources {
		if src.Scheme == schemeFile || src.Scheme == schemeStdin {
			continue
		}
		if _, ok := s.stores[src.store()]; ok {
			continue
		}
		store, err := s.app.OpenStore(ctx, s.cfg, src.Scheme, src.Bucket)
		if err != nil {
			return fmt.Errorf("open %s: %w", src.store(), err)
		}
		s.stores[src.store()] = store
	}
	return nil
}

// sumAll hashes sources with at most cfg.Jobs in flight and returns the
// results in input order.
func (s *session) sumAll(ctx context.Context, sources []Source) []checksum.Result {
	results := make([]checksum.Result, len(sources))
	for i, src := range sources {
		results[i].Name = src.Raw
	}

	var g errgroup.Group
	for i, src := range sources {
		if err := s.rc.AcquireWorker(ctx); err != nil {
			for j := i; j < len(sources); j++ {
				results[j].Err = err
			}
			break
		}
		g.Go(func() error {
			defer s.rc.ReleaseWorker()
			r := &results[i]
			r.Digest, r.Size, r.Err = s.sumOne(ctx, src)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *session) sumOne(ctx context.Context, src Source) (seahash.Digest, int64, error) {
	switch src.Scheme {
	case schemeStdin:
		return s.summer.SumReader(ctx, s.app.Stdin)
	case schemeFile:
		return s.summer.SumFile(ctx, src.Key)
	default:
		return s.summer.SumBlob(ctx, s.stores[src.store()], src.Key)
	}
}

// report prints a per-source failure without repeating the source name.
func (s *session) report(name string, err error) {
	var serr *checksum.SourceError
	if errors.As(err, &serr) {
		err = serr.Err
	}
	fmt.Fprintf(s.app.Stderr, "seasum: %s: %v\n", name, err)
}

func (s *session) sum(ctx context.Context) error {
	sources, err := s.parseSources(s.cfg.Sources, false)
	if err != nil {
		return err
	}
	if err := s.openStores(ctx, sources); err != nil {
		return err
	}

	var store ledger.Store
	if s.cfg.Ledger != "" {
		if store, err = s.app.OpenLedger(ctx, s.cfg.Ledger); err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
	}

	failed := 0
	for _, r := range s.sumAll(ctx, sources) {
		if r.Err != nil {
			s.report(r.Name, r.Err)
			failed++
			continue
		}
		switch {
		case store == nil:
			fmt.Fprintf(s.out, "%s  %s\n", s.cfg.Format.format(r.Digest), r.Name)
		case s.cfg.Verify:
			if !s.verify(ctx, store, r) {
				failed++
			}
		default:
			if err := store.Put(ctx, ledger.Entry{
				Name:       r.Name,
				Digest:     r.Digest,
				Size:       r.Size,
				Seed:       s.cfg.Seed,
				RecordedAt: s.app.Now().UTC(),
			}); err != nil {
				s.report(r.Name, err)
				failed++
				continue
			}
			fmt.Fprintf(s.out, "%s  %s\n", s.cfg.Format.format(r.Digest), r.Name)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d sources failed: %w", failed, len(sources), ErrFailed)
	}
	return nil
}

// verify checks r against the ledger and prints the verdict.
func (s *session) verify(ctx context.Context, store ledger.Store, r checksum.Result) bool {
	e, err := store.Get(ctx, r.Name)
	if err == nil && e.Seed != s.cfg.Seed {
		err = fmt.Errorf("recorded with seed %s, hashed with %s", e.Seed, s.cfg.Seed)
	}
	if err == nil {
		err = ledger.Verify(ctx, store, r.Name, r.Digest)
	}

	var mismatch *ledger.MismatchError
	switch {
	case errors.As(err, &mismatch):
		s.logger.WithSource(r.Name).LogVerify(ctx, mismatch.Want, mismatch.Got, nil)
		fmt.Fprintf(s.out, "%s: FAILED\n", r.Name)
		return false
	case err != nil:
		s.logger.WithSource(r.Name).LogVerify(ctx, e.Digest, r.Digest, err)
		s.report(r.Name, err)
		return false
	}
	s.logger.WithSource(r.Name).LogVerify(ctx, e.Digest, r.Digest, nil)
	fmt.Fprintf(s.out, "%s: OK\n", r.Name)
	return true
}

type checkLine struct {
	want seahash.Digest
	name string
}

// readCheckFile parses lines of the form "<digest>  <name>" or
// "<digest> *<name>". Blank lines and lines starting with # are skipped.
func (s *session) readCheckFile(r io.Reader, file string) ([]checkLine, int, error) {
	var (
		lines     []checkLine
		malformed int
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for n := 1; sc.Scan(); n++ {
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}
		digest, name, ok := strings.Cut(text, " ")
		if ok && (strings.HasPrefix(name, " ") || strings.HasPrefix(name, "*")) {
			name = name[1:]
		}
		want, err := s.cfg.Format.parse(digest)
		if !ok || name == "" || err != nil {
			fmt.Fprintf(s.app.Stderr, "seasum: %s: %d: improperly formatted checksum line\n", file, n)
			malformed++
			continue
		}
		lines = append(lines, checkLine{want: want, name: name})
	}
	return lines, malformed, sc.Err()
}

func (s *session) check(ctx context.Context) error {
	var r io.Reader = s.app.Stdin
	if s.cfg.Check != "-" {
		f, err := os.Open(s.cfg.Check)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	lines, malformed, err := s.readCheckFile(r, s.cfg.Check)
	if err != nil {
		return fmt.Errorf("read %s: %w", s.cfg.Check, err)
	}
	if len(lines) == 0 {
		return fmt.Errorf("%s: no properly formatted checksum lines found: %w", s.cfg.Check, ErrFailed)
	}

	raw := make([]string, len(lines))
	for i, l := range lines {
		raw[i] = l.name
	}
	sources, err := s.parseSources(raw, s.cfg.Check == "-")
	if err != nil {
		return err
	}
	if err := s.openStores(ctx, sources); err != nil {
		return err
	}

	var mismatched, unreadable int
	for i, r := range s.sumAll(ctx, sources) {
		s.logger.WithSource(r.Name).LogVerify(ctx, lines[i].want, r.Digest, r.Err)
		switch {
		case r.Err != nil:
			s.report(r.Name, r.Err)
			fmt.Fprintf(s.out, "%s: FAILED open or read\n", r.Name)
			unreadable++
		case r.Digest != lines[i].want:
			fmt.Fprintf(s.out, "%s: FAILED\n", r.Name)
			mismatched++
		default:
			fmt.Fprintf(s.out, "%s: OK\n", r.Name)
		}
	}

	if malformed > 0 {
		fmt.Fprintf(s.app.Stderr, "seasum: WARNING: %d line(s) improperly formatted\n", malformed)
	}
	if unreadable > 0 {
		fmt.Fprintf(s.app.Stderr, "seasum: WARNING: %d listed source(s) could not be read\n", unreadable)
	}
	if mismatched > 0 {
		fmt.Fprintf(s.app.Stderr, "seasum: WARNING: %d computed checksum(s) did NOT match\n", mismatched)
	}
	if mismatched+unreadable > 0 {
		return fmt.Errorf("%d of %d checksums failed: %w", mismatched+unreadable, len(lines), ErrFailed)
	}
	return nil
}

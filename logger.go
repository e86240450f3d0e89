package seahash

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with checksum-specific fields.
// The hash core never logs; Logger is used by the checksum service and CLI.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that writes JSON-formatted logs to w.
func NewJSONLogger(w io.Writer, level slog.Leveler) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that writes human-readable logs to w.
func NewTextLogger(w io.Writer, level slog.Leveler) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithSource adds the name of the input being hashed.
func (l *Logger) WithSource(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("source", name),
	}
}

// WithSeed adds the seed words, when they differ from DefaultSeed.
func (l *Logger) WithSeed(seed Seed) *Logger {
	if seed == DefaultSeed {
		return l
	}
	return &Logger{
		Logger: l.Logger.With("seed", []uint64{seed.A, seed.B, seed.C, seed.D}),
	}
}

// LogSum logs a completed checksum. Attach the input name with WithSource.
func (l *Logger) LogSum(ctx context.Context, size int64, path IngestPath, d Digest, err error) {
	if err != nil {
		l.ErrorContext(ctx, "checksum failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "checksum completed",
			"bytes", size,
			"path", path.String(),
			"digest", d.Hex(),
		)
	}
}

// LogVerify logs a verification against a recorded digest.
func (l *Logger) LogVerify(ctx context.Context, want, got Digest, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "verify failed",
			"error", err,
		)
	case want != got:
		l.WarnContext(ctx, "digest mismatch",
			"want", want.Hex(),
			"got", got.Hex(),
		)
	default:
		l.DebugContext(ctx, "digest verified",
			"digest", got.Hex(),
		)
	}
}

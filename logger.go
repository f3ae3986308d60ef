package hashgrid

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with grid-specific context.
// This provides structured logging with consistent field names.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithCellSize adds a cell_size field to the logger.
func (l *Logger) WithCellSize(size float64) *Logger {
	return &Logger{
		Logger: l.Logger.With("cell_size", size),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// debugEnabled reports whether per-mutation logs would be emitted. Callers
// check it before boxing ids into log attributes.
func (l *Logger) debugEnabled() bool {
	return l.Enabled(context.Background(), slog.LevelDebug)
}

// LogInsert logs an insert operation.
func (l *Logger) LogInsert(id any, cells int, err error) {
	if err != nil {
		l.Warn("insert failed",
			"id", id,
			"error", err,
		)
	} else {
		l.Debug("insert completed",
			"id", id,
			"cells", cells,
		)
	}
}

// LogUpdate logs an update operation. moved reports whether the set of
// occupied cells changed.
func (l *Logger) LogUpdate(id any, moved bool, err error) {
	if err != nil {
		l.Warn("update failed",
			"id", id,
			"error", err,
		)
	} else {
		l.Debug("update completed",
			"id", id,
			"moved", moved,
		)
	}
}

// LogRemove logs a remove operation.
func (l *Logger) LogRemove(id any, found bool) {
	l.Debug("remove completed",
		"id", id,
		"found", found,
	)
}

// LogSnapshot logs a snapshot save.
func (l *Logger) LogSnapshot(ctx context.Context, name string, entries, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot saved",
			"name", name,
			"entries", entries,
			"bytes", size,
		)
	}
}

// LogRestore logs a snapshot load.
func (l *Logger) LogRestore(ctx context.Context, name string, entries int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot restore failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot restored",
			"name", name,
			"entries", entries,
		)
	}
}

// LogBatch logs a batch query.
func (l *Logger) LogBatch(ctx context.Context, kind QueryKind, count int, duration time.Duration, err error) {
	if err != nil {
		l.WarnContext(ctx, "batch query aborted",
			"kind", kind.String(),
			"count", count,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "batch query completed",
			"kind", kind.String(),
			"count", count,
			"duration", duration,
		)
	}
}

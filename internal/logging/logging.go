// Package logging wraps slog.Logger with field names used across imgrec.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger wraps slog.Logger with recommender-specific helpers.
type Logger struct {
	*slog.Logger
}

// New creates a Logger with the given handler; nil means a text handler on
// stderr at info level.
func New(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger discards everything.
func NoopLogger() *Logger {
	return New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(1000)}))
}

// ParseLevel maps debug|info|warn|error onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("logging: %w", err)
	}
	return l, nil
}

// FromConfig builds a logger writing to w in the given format (text|json).
func FromConfig(w io.Writer, level, format string) (*Logger, error) {
	if level == "" {
		level = "info"
	}
	l, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(format) {
	case "", "text":
		return NewTextLogger(w, l), nil
	case "json":
		return NewJSONLogger(w, l), nil
	default:
		return nil, fmt.Errorf("logging: unknown format %q", format)
	}
}

// WithKind tags entries with an embedding kind.
func (l *Logger) WithKind(kind string) *Logger {
	return &Logger{Logger: l.Logger.With("kind", kind)}
}

// LogLoad logs a vector store load.
func (l *Logger) LogLoad(ctx context.Context, source string, records int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed", "source", source, "error", err)
		return
	}
	l.InfoContext(ctx, "vectors loaded", "source", source, "records", records)
}

// LogPreprocess logs index construction for one kind.
func (l *Logger) LogPreprocess(ctx context.Context, kind, indexKind string, count, dim int, took time.Duration) {
	l.InfoContext(ctx, "index built",
		"kind", kind,
		"index", indexKind,
		"count", count,
		"dimension", dim,
		"took", took,
	)
}

// LogApproximateIndex warns that queries on kind may miss true neighbours.
func (l *Logger) LogApproximateIndex(ctx context.Context, kind, indexKind string) {
	l.WarnContext(ctx, "index pruning is approximate", "kind", kind, "index", indexKind)
}

// LogStaleIndex logs a prebuilt index that did not match the loaded corpus.
func (l *Logger) LogStaleIndex(ctx context.Context, kind, reason string) {
	l.WarnContext(ctx, "prebuilt index ignored", "kind", kind, "reason", reason)
}

// LogSearch logs a similar-images query.
func (l *Logger) LogSearch(ctx context.Context, id string, k, results int, err error) {
	if err != nil {
		l.DebugContext(ctx, "search failed", "id", id, "k", k, "error", err)
		return
	}
	l.DebugContext(ctx, "search completed", "id", id, "k", k, "results", results)
}

// LogTransition logs a transition query.
func (l *Logger) LogTransition(ctx context.Context, from, to string, candidates, hops int, err error) {
	if err != nil {
		l.DebugContext(ctx, "transition failed", "from", from, "to", to, "error", err)
		return
	}
	l.DebugContext(ctx, "transition completed",
		"from", from,
		"to", to,
		"candidates", candidates,
		"hops", hops,
	)
}

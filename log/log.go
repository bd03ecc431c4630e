package log

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"
)

// Logger is a structured logger whose configuration can be read back and
// derived from. The zero value discards everything, so types holding a
// Logger need no setup to stay quiet.
type Logger struct {
	*slog.Logger
	config
}

// Make returns a [Logger] writing to w with the package defaults and opts.
func Make(w io.Writer, opts ...Option) Logger {
	return fromConfig(makeConfig(w, opts...))
}

func fromConfig(cfg config) Logger {
	return Logger{config: cfg, Logger: slog.New(cfg.handler())}
}

// Wrap returns a Logger configured like l with opts applied on top.
// Attributes added with [Logger.With] are dropped.
func (l Logger) Wrap(opts ...Option) Logger {
	if l.mutex == nil {
		return Make(nil, opts...)
	}

	return fromConfig(read(l, config{}, func(c config) config {
		return c.clone(opts...)
	}))
}

// With returns a Logger adding attrs to every record.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.Logger == nil {
		return l
	}

	cfg := read(l, config{}, func(c config) config { return c.clone() })

	return Logger{config: cfg, Logger: slog.New(l.Handler().WithAttrs(attrs))}
}

// read calls f with the configuration of l held under its read lock, or
// returns zero for the zero Logger.
func read[T any](l Logger, zero T, f func(config) T) T {
	if l.mutex == nil {
		return zero
	}

	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return f(l.config)
}

// Level returns the minimum level written.
func (l Logger) Level() Level {
	return read(l, DefaultLevel, func(c config) Level { return c.level })
}

// Format returns the record format.
func (l Logger) Format() Format {
	return read(l, DefaultFormat, func(c config) Format { return c.format })
}

// Output returns the writer receiving records.
func (l Logger) Output() io.Writer {
	return read(l, io.Discard, func(c config) io.Writer { return c.output })
}

func (l Logger) TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.logContext(ctx, LevelTrace, msg, attrs...)
}

func (l Logger) Trace(msg string, attrs ...slog.Attr) {
	l.logContext(DefaultContextProvider(), LevelTrace, msg, attrs...)
}

func (l Logger) DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.logContext(ctx, LevelDebug, msg, attrs...)
}

func (l Logger) Debug(msg string, attrs ...slog.Attr) {
	l.logContext(DefaultContextProvider(), LevelDebug, msg, attrs...)
}

func (l Logger) InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.logContext(ctx, LevelInfo, msg, attrs...)
}

func (l Logger) Info(msg string, attrs ...slog.Attr) {
	l.logContext(DefaultContextProvider(), LevelInfo, msg, attrs...)
}

func (l Logger) WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.logContext(ctx, LevelWarn, msg, attrs...)
}

func (l Logger) Warn(msg string, attrs ...slog.Attr) {
	l.logContext(DefaultContextProvider(), LevelWarn, msg, attrs...)
}

func (l Logger) ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.logContext(ctx, LevelError, msg, attrs...)
}

func (l Logger) Error(msg string, attrs ...slog.Attr) {
	l.logContext(DefaultContextProvider(), LevelError, msg, attrs...)
}

// logContext writes one record. Every exported method calls it directly, so
// the record's PC is the caller of that method.
func (l Logger) logContext(
	ctx context.Context,
	level Level,
	msg string,
	attrs ...slog.Attr,
) {
	if l.Logger == nil {
		return
	}

	l.mutex.RLock()
	defer l.mutex.RUnlock()

	if !l.Enabled(ctx, slog.Level(level)) {
		return
	}

	var pcs [1]uintptr
	// skip runtime.Callers, logContext and the exported method
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), slog.Level(level), msg, pcs[0])
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}

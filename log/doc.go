// Package log provides the structured logger used for diagnostics.
//
// It wraps [log/slog] with a value-typed [Logger] configured through
// functional options ([WithLevel], [WithFormat], [WithTimeLayout],
// [WithCaller], [WithPretty], [WithOutput]) and adds a [LevelTrace] below
// debug. The zero [Logger] discards everything, so components may carry one
// without checking for nil.
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelDebug))
//	logger.Warn("skipping unknown line", slog.String("line", text))
//
// Package-level functions such as [Warn] and [Error] log through a default
// logger that writes text to standard error; [Config] reconfigures it.
//
// # Output Formats
//
// [FormatText] (default) and [FormatJSON] use the slog handlers. With
// [WithPretty] enabled both are colorized for terminals.
package log

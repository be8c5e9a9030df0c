// Package log provides structured logging based on [log/slog] with an extra
// [LevelTrace] below debug.
//
// The expression engine logs each phase of evaluation (parse, compile,
// cache lookup, execute) at trace level, so a zero [Logger] is a useful
// default: every method on it is a no-op.
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelTrace))
//	env := lang.NewEnvironment(lang.WithLogger(logger))
//
// Loggers are immutable values. Options apply at creation, or to a copy
// with [Logger.Wrap]:
//
//	logger = logger.Wrap(log.WithFormat(log.FormatText), log.WithCaller(true))
//
// The package-level functions write through a default logger that [Config]
// reconfigures; the calc command applies its --log-* flags that way.
//
// # Output
//
// [FormatJSON] (default) and [FormatText] use the slog handlers unless
// [WithPretty] is set (the default). Pretty text is one unquoted key=value
// line per record; pretty JSON is indented with one field per line. Both
// flatten groups into dotted keys and are colored only when the output is
// a terminal.
package log

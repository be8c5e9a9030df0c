// Package cli contains the command line interface for calc.
//
// # Usage
//
//	calc [flags] [eval] [-e expr]... [file]...
//	calc parse [--code] [-e expr]... [file]...
//	calc repl [--history path] [-l file]...
//	calc --version
//	calc init [--force] [--format calc|yaml]
//
// A program is the global --source files, then the command's files, then
// its -e expressions, each starting a new statement. Statements are
// separated by ";". Without any of them, eval and parse read piped stdin.
//
// # Configuration
//
// Flag defaults are read from these files in the user configuration
// directory, when present. Command-line flags take precedence.
//
//   - config.json: flag names as keys
//   - config.yaml: flag names as keys, nested mappings joined with "-"
//   - config: a calc program; each global it defines is a flag value
//
// For example, the calc configuration
//
//	def(#log_level, "debug");
//	def(#log_format, "text")
//
// is equivalent to --log-level=debug --log-format=text.
//
// # Logging Options
//
//   - --log-level: minimum log level (trace, debug, info, warn, error)
//   - --log-format: output format (json, text)
//   - --log-time-layout: timestamp layout name (rfc3339, kitchen, none, ...) or literal layout
//   - --log-caller: include caller information
//   - --log-pretty: colorize output
//
// At trace level the language engine logs every parse, compile and execute
// phase.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: profile kind (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: output directory (default: ~/.cache/calc/pprof)
package cli

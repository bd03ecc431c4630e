// Package cli contains the command line interface for expand.
//
// # Usage
//
// The default command expands a template against the configuration document
// and writes the result:
//
//	expand [flags] <template> <output> [NAME=value ...]
//
// Trailing assignments are read before the configuration, after the CONFIG
// variable naming it, so the configuration can test or override them.
//
// # Commands
//
//   - run: expand a template (default)
//   - get: print the expansion of one name
//   - dump: print the resolved tables as native text, JSON, YAML or TOML
//   - repl: interactive shell with completion and history
//   - init: write the current flags to the settings file
//   - version: print the program version
//
// # Settings
//
// Flags may be given in a settings file under the user configuration
// directory, one assignment per line in the configuration language's
// syntax. The file is read by [resolve]; flags on the command line win.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize output (default when stderr is a terminal)
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o expand .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
//
// # Examples
//
//	# Expand with debug logging
//	expand --log-level=debug site.tmpl site.conf
//
//	# Use another configuration and search directory
//	expand -c web.cfg -p ./templates index.tmpl - MODE=release
//
//	# Inspect the resolved tables
//	expand dump -f yaml
package cli

// Package cli contains the command line interface for yfelo.
//
// # Usage
//
// Templates are rendered by default; the other commands parse, evaluate
// and explore them interactively:
//
//	yfelo page.yf -d data.yaml -s title="'Home'" -o page.html
//	yfelo parse -f json page.yf
//	yfelo eval -d data.yaml "join(keys(site), ', ')"
//	yfelo repl -l expr
//	yfelo init
//
// # Configuration
//
// Flag defaults are read from the config file in the user configuration
// directory, which is itself a template of the default language. Each
// definition it leaves in the root frame sets the flag of the same name,
// with hyphens written as underscores:
//
//	{@def log_level = 'debug'}
//	{@def log_format = 'json'}
//
// The init command writes this file from the current flag values. A JSON
// file of the same name with a ".json" suffix is also read, and every flag
// may be set from an environment variable prefixed with the executable name.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o yfelo .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/yfelo/pprof)
package cli

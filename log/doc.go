// Package log is the leveled logger shared by the yfelo packages and
// command line. It wraps [log/slog] with a Trace level below Debug, text
// or JSON output, optional colorized handlers and functional options.
//
// A zero [Logger] discards everything, so library code can hold one
// without configuration:
//
//	type Engine struct{ logger log.Logger }
//
//	e.logger.TraceContext(ctx, "parse complete", slog.Int("nodes", n))
//
// The package-level functions log through a default logger that the
// command line reconfigures from its flags with [Config]:
//
//	log.Config(log.WithLevel(log.LevelDebug), log.WithFormat(log.FormatText))
//	log.Debug("template loaded", slog.String("path", path))
//
// Timestamps use [WithTimeLayout], which accepts layout names from the
// [time] package ("RFC3339", "Kitchen", "StampMilli", ...), short aliases
// such as "ms", a literal layout, or "none" to omit them.
package log

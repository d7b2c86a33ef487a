// Package cmd implements the yfelo subcommands: render, parse, eval, repl
// and init.
//
// Commands receive a [context.Context] carrying the [kong.Context] of the
// invocation (see [WithContext]) and print to its standard output writer.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file written by init.
	ConfigIdentifier = "config"
)

// Package profile runs an optional [github.com/pkg/profile] session around
// a yfelo command.
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof .
//	yfelo --pprof-mode cpu render page.yf
//	go tool pprof -http=: ~/.cache/yfelo/pprof/cpu.pprof
//
// Without the tag [Modes] is empty and [Profiler.Start] returns a no-op
// [Stopper], so callers never need build constraints of their own. With
// the tag the package also registers the [net/http/pprof] handlers.
package profile

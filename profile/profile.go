package profile

// Tag is the build tag that enables profiling.
const Tag = "pprof"

// Stopper ends a profiling session and flushes its output.
type Stopper interface {
	Stop()
}

// Profiler describes one profiling session. The zero value profiles
// nothing.
type Profiler struct {
	Mode  string // one of [Modes]
	Path  string // output directory; pkg/profile picks a temp dir if empty
	Quiet bool   // suppress the start and stop messages
}

// Option changes one setting of a Profiler.
type Option func(Profiler) Profiler

// New returns a Profiler configured by opts.
func New(opts ...Option) Profiler {
	var p Profiler

	for _, opt := range opts {
		p = opt(p)
	}

	return p
}

func WithMode(mode string) Option {
	return func(p Profiler) Profiler {
		p.Mode = mode

		return p
	}
}

func WithPath(path string) Option {
	return func(p Profiler) Profiler {
		p.Path = path

		return p
	}
}

func WithQuiet(quiet bool) Option {
	return func(p Profiler) Profiler {
		p.Quiet = quiet

		return p
	}
}

// Start begins the session. It returns a no-op Stopper when the mode is
// empty or unknown, or when profiling is not compiled in.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}

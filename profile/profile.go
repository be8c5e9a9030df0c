package profile

import "slices"

// Config selects what to profile and where to write it.
type Config struct {
	// Mode is one of [Modes]. An empty Mode disables profiling.
	Mode string
	// Dir receives the profile. Empty means the working directory.
	Dir string
	// Quiet suppresses the profiler's own log messages.
	Quiet bool
}

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Start begins profiling as configured. Only one session may run per
// process. When profiling is disabled or unavailable, the returned Stopper
// does nothing.
func (c Config) Start() Stopper {
	if !Supported(c.Mode) {
		return nop{}
	}

	return start(c)
}

// Supported reports whether mode names a profile available in this build.
func Supported(mode string) bool {
	return mode != "" && slices.Contains(Modes(), mode)
}

type nop struct{}

func (nop) Stop() {}

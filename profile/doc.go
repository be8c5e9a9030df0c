// Package profile provides optional runtime profiling for the calc command
// through [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag. Without it,
// [Modes] is empty and [Config.Start] returns a no-op.
//
// # Modes
//
//   - allocs, heap, mem: memory profiles
//   - block, mutex:      synchronization profiles
//   - cpu, clock:        CPU and wall-clock profiles
//   - goroutine, thread: goroutine and thread creation profiles
//   - trace:             execution trace
//
// # Usage
//
//	defer profile.Config{Mode: "cpu", Dir: "/tmp/profiles"}.Start().Stop()
//
// From the command line:
//
//	go build -tags pprof .
//	./calc --pprof-mode cpu eval -e 'letrec([f(n): if(n < 2, n, {f(n-1) + f(n-2)})], f 25)'
//	go tool pprof ./calc $XDG_CACHE_HOME/calc/pprof/cpu.pprof
package profile

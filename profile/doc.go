// Package profile provides optional runtime profiling for expand.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	expand --pprof-mode=cpu run template.in out.txt
//	go tool pprof -http=: ~/.cache/expand/pprof/cpu.pprof
//
// Without the tag, [Config.Start] always returns a no-op and the CLI has no
// --pprof-* flags. With it, [net/http/pprof] handlers are also registered on
// [net/http.DefaultServeMux].
//
// The supported modes are listed by [Modes]: allocs, block, clock, cpu,
// goroutine, heap, mem, mutex, thread and trace. Each writes <mode>.pprof
// (or trace.out) into the configured directory through
// [github.com/pkg/profile].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

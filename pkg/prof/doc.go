// Package prof exposes runtime profiling for long-running stream sessions.
//
// It is compiled in only with the "profile" build tag:
//
//	go build -tags profile ./examples/pty-grbl
//
// Without the tag every function is a no-op and [Enabled] is false, so
// callers can keep their profiling hooks unconditionally.
//
// # HTTP
//
// [Register] mounts the net/http/pprof handlers under /debug/pprof/ on a
// caller-owned mux, typically the one serving Prometheus metrics:
//
//	mux := http.NewServeMux()
//	mux.Handle("/metrics", metrics.Handler(reg))
//	prof.Register(mux)
//
// # Files
//
// CPU profiles stream to a file between [StartCPU] and [StopCPU]. Other
// profiles are point-in-time snapshots written by [Write].
package prof

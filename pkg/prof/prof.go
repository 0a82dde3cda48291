//go:build profile

package prof

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	runtimepprof "runtime/pprof"
	"sync"

	"github.com/ardnew/cdcstream/pkg"
)

// Enabled reports whether profiling support is compiled in.
const Enabled = true

// Profiling errors.
var (
	ErrCPUProfileActive = errors.New("cpu profile already active")
	ErrInvalidProfile   = errors.New("invalid profile")
)

var (
	cpuMutex sync.Mutex
	cpuFile  *os.File
)

// Register mounts the pprof handlers on mux.
func Register(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	pkg.LogDebug(pkg.ComponentMetrics, "pprof handlers registered")
}

// StartCPU starts CPU profiling into the file at path.
// Returns [ErrCPUProfileActive] if a profile is already running.
func StartCPU(path string) error {
	cpuMutex.Lock()
	defer cpuMutex.Unlock()

	if cpuFile != nil {
		return ErrCPUProfileActive
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cpu profile: %w", err)
	}
	if err := runtimepprof.StartCPUProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("cpu profile: %w", err)
	}
	cpuFile = f
	pkg.LogInfo(pkg.ComponentMetrics, "cpu profile started", "path", path)
	return nil
}

// StopCPU stops CPU profiling. It does nothing if no profile is running.
func StopCPU() {
	cpuMutex.Lock()
	defer cpuMutex.Unlock()

	if cpuFile == nil {
		return
	}
	runtimepprof.StopCPUProfile()
	cpuFile.Close()
	cpuFile = nil
}

// CPUActive reports whether a CPU profile is running.
func CPUActive() bool {
	cpuMutex.Lock()
	defer cpuMutex.Unlock()
	return cpuFile != nil
}

// Write saves a snapshot of the named runtime profile ("heap",
// "goroutine", "mutex", ...) to path.
func Write(name, path string) error {
	p := runtimepprof.Lookup(name)
	if p == nil {
		return fmt.Errorf("%q: %w", name, ErrInvalidProfile)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%s profile: %w", name, err)
	}
	defer f.Close()

	return p.WriteTo(f, 0)
}

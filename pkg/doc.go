// Package pkg provides shared utilities for the cdcstream packages.
//
// This package contains common functionality used by the ring buffer, the
// stream core and the transports, including:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel errors and the [Fault] enum for advisory stream conditions
//   - Component identifiers for log filtering
//
// # Logging
//
// The logging subsystem wraps [log/slog] with a component attribute:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogInfo(pkg.ComponentStream, "stream ready", "rxSize", 1024)
//
// # Errors
//
// Overflow and write abandonment are advisory. They surface through
// [Fault] values and logs rather than as errors from the hot path:
//
//	if errors.Is(fault.Error(), pkg.ErrOverflow) {
//	    // Report upstream
//	}
package pkg

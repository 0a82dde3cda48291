//go:build !profile

package prof

import "net/http"

// Enabled reports whether profiling support is compiled in.
const Enabled = false

// Register is a no-op without the "profile" tag.
func Register(*http.ServeMux) {}

// StartCPU is a no-op without the "profile" tag.
func StartCPU(string) error { return nil }

// StopCPU is a no-op without the "profile" tag.
func StopCPU() {}

// CPUActive always returns false without the "profile" tag.
func CPUActive() bool { return false }

// Write is a no-op without the "profile" tag.
func Write(string, string) error { return nil }

//go:build !linux

package pty

import "os"

// makeRaw is a no-op where termios ioctls are not wired up; callers get
// the platform's default line discipline.
func makeRaw(*os.File) error {
	return nil
}

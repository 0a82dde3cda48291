package stream

import "github.com/ardnew/cdcstream/pkg"

// Observer receives notifications about stream activity. Methods are
// called synchronously from the goroutine driving the Stream and must not
// call back into it.
type Observer interface {
	// Received is called after each Pump that took n > 0 bytes from the
	// transport. level is the primary buffer count afterwards.
	Received(n, level int)

	// Realtime is called for each byte claimed by the real-time handler.
	Realtime(c byte)

	// Transmitted is called with the number of bytes the transport accepted.
	Transmitted(n int)

	// Suspended is called on entry to ReadSuspended. snapshot reports
	// whether a backup was taken.
	Suspended(snapshot bool)

	// Resumed is called on return to ReadNormal. restored reports whether
	// the backup was copied back into the primary buffer.
	Resumed(restored bool)

	// Fault is called once per overflow episode and once per abandoned flush.
	Fault(f pkg.Fault)
}

// NopObserver implements Observer with no-ops. Embed it to implement only
// the notifications of interest.
type NopObserver struct{}

func (NopObserver) Received(n, level int)   {}
func (NopObserver) Realtime(c byte)         {}
func (NopObserver) Transmitted(n int)       {}
func (NopObserver) Suspended(snapshot bool) {}
func (NopObserver) Resumed(restored bool)   {}
func (NopObserver) Fault(f pkg.Fault)       {}

var _ Observer = NopObserver{}

package stream

import (
	"github.com/ardnew/cdcstream/pkg"
)

// SuspendInput suspends (true) or resumes (false) consumer input.
//
// Suspending makes Read report no data until resumed; it does not touch the
// receive buffer and repeated calls are harmless. Resuming restores the
// snapshot taken when CmdToolAck was received, if any, discarding whatever
// arrived in between, and returns Read to the primary buffer.
//
// Returns whether the primary buffer holds data afterwards, so the caller
// can decide to re-poll immediately.
func (s *Stream) SuspendInput(suspend bool) bool {
	if suspend {
		s.suspend(false)
	} else {
		s.resume()
	}
	return !s.rx.Empty()
}

// ReadState returns the current read state.
func (s *Stream) ReadState() ReadState {
	return s.state
}

// BackupActive reports whether a snapshot is waiting to be restored.
func (s *Stream) BackupActive() bool {
	return s.rx.BackupActive()
}

// snapshot copies the primary buffer into the backup, hides everything
// pending from the consumer and suspends input. Only called when no backup
// is active, so an existing snapshot is never overwritten.
func (s *Stream) snapshot() {
	// Both rings have the same size, CopyFrom cannot fail.
	_ = s.backup.CopyFrom(s.rx)
	s.rx.SetBackupActive(true)
	s.rx.Collapse()

	pkg.LogDebug(pkg.ComponentRedirect, "input snapshot taken",
		"saved", s.backup.Count())

	s.suspend(true)
}

func (s *Stream) suspend(snapshot bool) {
	if s.state == ReadSuspended && !snapshot {
		return
	}
	s.state = ReadSuspended
	pkg.LogDebug(pkg.ComponentRedirect, "input suspended", "snapshot", snapshot)
	s.observer.Suspended(snapshot)
}

func (s *Stream) resume() {
	restored := false
	if s.rx.BackupActive() {
		_ = s.rx.CopyFrom(s.backup)
		s.rx.SetBackupActive(false)
		restored = true
	}

	wasSuspended := s.state == ReadSuspended
	s.state = ReadNormal

	if wasSuspended || restored {
		pkg.LogDebug(pkg.ComponentRedirect, "input resumed",
			"restored", restored,
			"pending", s.rx.Count())
		s.observer.Resumed(restored)
	}
}

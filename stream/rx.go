package stream

import (
	"github.com/ardnew/cdcstream/pkg"
)

// Pump moves received bytes from the transport into the receive buffer.
// Call it on every pass of the real-time loop. It never blocks.
//
// At most RxWindow bytes, and never more than the receive buffer can hold,
// are read per call. Each byte is then classified in order: the redirect
// signal suspends input, real-time commands go to the RealtimeFunc, and
// everything else is buffered.
//
// Returns the number of bytes taken from the transport.
func (s *Stream) Pump() int {
	if s.closed {
		return 0
	}

	avail := s.transport.Available()
	if avail == 0 {
		return 0
	}

	n := min(avail, len(s.window), s.rx.Free())
	if n == 0 {
		return 0
	}
	n = min(s.transport.ReadBytes(s.window[:n]), n)

	for _, c := range s.window[:n] {
		s.receive(c)
	}

	if n > 0 {
		s.observer.Received(n, s.rx.Count())
	}
	return n
}

// receive classifies a single byte.
func (s *Stream) receive(c byte) {
	if c == s.cfg.CmdToolAck && !s.rx.BackupActive() {
		s.snapshot()
		return
	}

	if s.realtime != nil && s.realtime(c) {
		s.observer.Realtime(c)
		return
	}

	if err := s.rx.Push(c); err != nil {
		s.reportOverflow()
	}
}

// reportOverflow reports an overflow once per episode. An episode ends
// with FlushInput.
func (s *Stream) reportOverflow() {
	if s.overflowReported {
		return
	}
	s.overflowReported = true
	pkg.LogWarn(pkg.ComponentRx, "input dropped",
		"size", s.rx.Size(),
		"error", pkg.FaultOverflow.Error())
	s.observer.Fault(pkg.FaultOverflow)
}

// Read returns the next buffered byte. It returns false when no data is
// available, which includes every call made while input is suspended.
func (s *Stream) Read() (byte, bool) {
	if s.state == ReadSuspended {
		return 0, false
	}
	return s.rx.Pop()
}

// AvailableCount returns the number of bytes in the receive buffer.
func (s *Stream) AvailableCount() int {
	return s.rx.Count()
}

// AvailableFree returns the free space in the receive buffer.
func (s *Stream) AvailableFree() int {
	return s.rx.Free()
}

// Overflow reports whether input has been dropped since the last
// FlushInput.
func (s *Stream) Overflow() bool {
	return s.rx.Overflow()
}

// FlushInput discards all pending input, both in the transport and in the
// receive buffer, and clears the overflow condition.
func (s *Stream) FlushInput() {
	s.transport.FlushInput()
	s.rx.Flush()
	s.overflowReported = false
}

// InjectResetSignal discards the receive buffer and leaves CmdReset as the
// only byte, so that the next Read returns it ahead of anything queued.
// A pending snapshot is dropped and suspended input is resumed, otherwise
// the reset would stay hidden and a later resume would overwrite it.
func (s *Stream) InjectResetSignal() {
	dropped := s.rx.BackupActive()
	s.rx.SetBackupActive(false)
	if s.state == ReadSuspended {
		s.state = ReadNormal
		s.observer.Resumed(false)
	}
	s.rx.CancelAndInject(s.cfg.CmdReset)
	pkg.LogDebug(pkg.ComponentRx, "reset signal injected",
		"snapshotDropped", dropped)
}

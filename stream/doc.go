// Package stream implements the buffering core between a USB-CDC style
// [transport.Transport] and a real-time command interpreter.
//
// # Architecture
//
// A [Stream] owns three pieces of state:
//
//   - the primary receive ring, filled by [Stream.Pump] and drained by
//     [Stream.Read]
//   - a backup ring holding a one-deep snapshot of the primary, taken when
//     the redirect signal (CmdToolAck) arrives
//   - a transmit stage that batches text until a line ends
//
// # Receive
//
// The interpreter calls Pump from its real-time loop. Each call reads a
// small batch from the transport and classifies every byte:
//
//	CmdToolAck (no backup pending) -> snapshot, collapse, suspend input
//	claimed by the RealtimeFunc     -> handled out of band, never buffered
//	anything else                   -> pushed; overflow is flagged, not retried
//
// # Redirect
//
// [Stream.SuspendInput] switches Read between the primary buffer and a
// reader that always reports no data. Resuming restores the snapshot, if
// one is pending, so the interpreter continues exactly where it stopped:
//
//	s.SuspendInput(true)            // e.g. on M6 tool change
//	...                             // sender acknowledges with CmdToolAck
//	pending := s.SuspendInput(false)
//
// # Transmit
//
// [Stream.WriteString] stages text and flushes once the text ends with the
// line terminator or the stage passes its flush mark. The flush writes in
// chunks no larger than the transport's reported capacity and calls the
// [PollFunc] whenever the transport has no room. If the poll function
// returns false the remaining bytes are dropped and the stage is reset;
// nothing resumes a partial flush.
//
// # Concurrency
//
// A Stream has no locks. All methods must be called from the goroutine
// running the interpreter's real-time loop. Use [ContextPoll] or
// [RateLimitedPoll] to build a poll function that services that loop
// while a flush waits.
package stream

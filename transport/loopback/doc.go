// Package loopback implements an in-memory [transport.Transport].
//
// The host side of the link is the [Loopback] itself: tests feed received
// bytes with [Loopback.Inject] and inspect transmitted bytes with
// [Loopback.Sent]. The reported write capacity can be fixed or scripted
// per call to exercise flow control.
//
// # Usage
//
//	lb := loopback.New(loopback.WithWriteCapacity(64))
//	lb.Inject([]byte("G0 X1\n"))
//	s, _ := stream.New(lb, stream.DefaultConfig())
//	s.Pump()
//
// All methods are safe for concurrent use, so a test may inject from one
// goroutine while the stream polls from another.
package loopback

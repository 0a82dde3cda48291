// Package transport defines the interface between the stream core and the
// link that carries its bytes.
//
// The [Transport] interface is intentionally small. It mirrors what a USB
// CDC serial peripheral exposes to firmware: a received-byte count, a
// batched read, a write that may accept fewer bytes than offered, the
// current write capacity and a way to drop pending input.
//
// # Design Principles
//
//   - Non-blocking: every method returns immediately
//   - Polled: the stream core asks how much it may read or write
//   - Generic: no assumptions about USB, UARTs or terminals
//
// # Implementations
//
//   - [github.com/ardnew/cdcstream/transport/loopback]: in-memory, scriptable;
//     used by tests and examples
//   - [github.com/ardnew/cdcstream/transport/pty]: a pseudo-terminal master,
//     so host tools can open the slave side like a serial port
package transport

// Package pty implements a [transport.Transport] over a pseudo-terminal.
//
// The stream core drives the master side. The slave side ([PTY.Name]) is
// put in raw mode and can be opened by any host tool that expects a
// serial port, such as a G-code sender pointed at /dev/pts/N instead of
// /dev/ttyACM0.
//
// # Buffering
//
// Two goroutines move bytes between the master file and a pair of ring
// buffers, so that every Transport method returns without blocking:
//
//   - the reader fills the receive ring and stops reading (leaving bytes in
//     the kernel) while the ring is full
//   - the writer drains the transmit ring; WriteCapacity reports its free
//     space, one full-speed packet less one byte by default
//
// # Usage
//
//	p, err := pty.Open()
//	if err != nil { ... }
//	defer p.Close()
//	fmt.Println("connect to", p.Name())
//	s, _ := stream.New(p, stream.DefaultConfig())
package pty

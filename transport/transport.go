package transport

// PacketSize is the bulk endpoint packet size of a full-speed CDC-ACM
// data interface. Transports that have no natural write window report
// their capacity in multiples of this.
const PacketSize = 64

// Transport defines the byte-stream primitives the stream core needs from
// a USB-CDC (or CDC-like) link.
//
// Every method must return without blocking. The stream core polls
// Available and WriteCapacity and never asks for more than they report.
type Transport interface {
	// Available returns the number of received bytes that can be read
	// immediately.
	Available() int

	// ReadBytes reads up to len(buf) received bytes into buf.
	// Returns the number of bytes read.
	ReadBytes(buf []byte) int

	// Write queues data for transmission.
	// Returns the number of bytes accepted.
	Write(data []byte) int

	// WriteCapacity returns the number of bytes Write would accept now.
	WriteCapacity() int

	// FlushInput discards any received bytes not yet read.
	FlushInput()
}

// WriteAll writes data one byte at a time without retrying bytes the
// transport declines. This is the fire-and-forget path for low volume and
// binary output. Returns the number of bytes accepted.
func WriteAll(t Transport, data []byte) int {
	n := 0
	for i := range data {
		n += t.Write(data[i : i+1])
	}
	return n
}

package loopback

import (
	"sync"

	"github.com/ardnew/cdcstream/transport"
)

// DefaultWriteCapacity is the write capacity reported when none is
// configured: one full-speed packet less one byte, as typical CDC device
// stacks report it.
const DefaultWriteCapacity = transport.PacketSize - 1

// Option configures a Loopback.
type Option func(*Loopback)

// WithWriteCapacity fixes the capacity reported by WriteCapacity and
// honored by Write.
func WithWriteCapacity(n int) Option {
	return func(l *Loopback) {
		l.capacity = n
	}
}

// WithCapacityScript makes successive WriteCapacity calls return the given
// values in order. Once exhausted, the fixed capacity is reported.
func WithCapacityScript(caps ...int) Option {
	return func(l *Loopback) {
		l.script = append([]int(nil), caps...)
		l.scripted = true
	}
}

// WithWriteLimit caps the number of bytes a single Write accepts,
// regardless of reported capacity. Zero means no limit.
func WithWriteLimit(n int) Option {
	return func(l *Loopback) {
		l.writeLimit = n
	}
}

// Loopback is an in-memory transport.
type Loopback struct {
	mutex      sync.Mutex
	rx         []byte // host to device
	tx         []byte // device to host
	writes     [][]byte
	capacity   int
	script     []int
	scripted   bool
	window     int // last scripted capacity not yet consumed by Write
	writeLimit int
	capCalls   int
	flushes    int
}

// New creates a loopback transport.
func New(opts ...Option) *Loopback {
	l := &Loopback{capacity: DefaultWriteCapacity}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Inject queues bytes as if the host had sent them.
func (l *Loopback) Inject(data []byte) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.rx = append(l.rx, data...)
}

// Sent returns a copy of everything written so far.
func (l *Loopback) Sent() []byte {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return append([]byte(nil), l.tx...)
}

// Writes returns a copy of each individual Write payload, in order.
func (l *Loopback) Writes() [][]byte {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	out := make([][]byte, len(l.writes))
	for i, w := range l.writes {
		out[i] = append([]byte(nil), w...)
	}
	return out
}

// Reset clears the transmitted bytes and write history.
func (l *Loopback) Reset() {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.tx = l.tx[:0]
	l.writes = nil
}

// SetCapacityScript replaces the capacity script. Useful after a consumer
// has already sampled WriteCapacity during its own setup.
func (l *Loopback) SetCapacityScript(caps ...int) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.script = append([]int(nil), caps...)
	l.scripted = true
}

// SetWriteCapacity changes the fixed write capacity.
func (l *Loopback) SetWriteCapacity(n int) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.capacity = n
}

// CapacityCalls returns how many times WriteCapacity has been called.
func (l *Loopback) CapacityCalls() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.capCalls
}

// Flushes returns how many times FlushInput has been called.
func (l *Loopback) Flushes() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.flushes
}

// Pending returns the number of injected bytes not yet read.
func (l *Loopback) Pending() int {
	return l.Available()
}

// Available implements transport.Transport.
func (l *Loopback) Available() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return len(l.rx)
}

// ReadBytes implements transport.Transport.
func (l *Loopback) ReadBytes(buf []byte) int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	n := copy(buf, l.rx)
	l.rx = l.rx[n:]
	return n
}

// Write implements transport.Transport.
// With a fixed capacity, each call accepts up to that capacity. With a
// capacity script, calls share the window most recently reported by
// WriteCapacity. The write limit, if set, applies to both.
func (l *Loopback) Write(data []byte) int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	limit := l.capacity
	if l.scripted {
		limit = l.window
	}
	n := min(len(data), limit)
	if l.writeLimit > 0 && n > l.writeLimit {
		n = l.writeLimit
	}
	if n <= 0 {
		return 0
	}
	if l.scripted {
		l.window -= n
	}
	l.tx = append(l.tx, data[:n]...)
	l.writes = append(l.writes, append([]byte(nil), data[:n]...))
	return n
}

// WriteCapacity implements transport.Transport.
func (l *Loopback) WriteCapacity() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.capCalls++
	n := l.capacity
	if len(l.script) > 0 {
		n = l.script[0]
		l.script = l.script[1:]
	}
	l.window = n
	return n
}

// FlushInput implements transport.Transport.
func (l *Loopback) FlushInput() {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.rx = l.rx[:0]
	l.flushes++
}

// Compile-time interface check
var _ transport.Transport = (*Loopback)(nil)

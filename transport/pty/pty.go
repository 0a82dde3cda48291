package pty

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	creackpty "github.com/creack/pty"
	"github.com/google/uuid"

	"github.com/ardnew/cdcstream/pkg"
	"github.com/ardnew/cdcstream/ring"
	"github.com/ardnew/cdcstream/transport"
)

// Default ring sizes. The transmit ring matches a full-speed bulk packet.
const (
	DefaultRxSize = 4096
	DefaultTxSize = transport.PacketSize
)

// Option configures a PTY.
type Option func(*options)

type options struct {
	rxSize int
	txSize int
	raw    bool
}

// WithRxSize sets the receive ring size (power of two).
func WithRxSize(n int) Option {
	return func(o *options) { o.rxSize = n }
}

// WithTxSize sets the transmit ring size (power of two).
// WriteCapacity never reports more than n-1.
func WithTxSize(n int) Option {
	return func(o *options) { o.txSize = n }
}

// WithRaw controls whether the slave side is switched to raw mode.
// Enabled by default.
func WithRaw(raw bool) Option {
	return func(o *options) { o.raw = raw }
}

// PTY is a pseudo-terminal transport.
type PTY struct {
	id     string
	master *os.File
	slave  *os.File

	mutex    sync.Mutex
	rxReady  *sync.Cond // signalled when rx has room
	txReady  *sync.Cond // signalled when tx has data
	rx       *ring.Buffer
	tx       *ring.Buffer
	closed   bool
	err      error
	closeErr error

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Open allocates a pseudo-terminal pair and starts the I/O goroutines.
func Open(opts ...Option) (*PTY, error) {
	o := options{rxSize: DefaultRxSize, txSize: DefaultTxSize, raw: true}
	for _, opt := range opts {
		opt(&o)
	}

	rx, err := ring.New(o.rxSize)
	if err != nil {
		return nil, fmt.Errorf("rx ring: %w", err)
	}
	tx, err := ring.New(o.txSize)
	if err != nil {
		return nil, fmt.Errorf("tx ring: %w", err)
	}

	master, slave, err := creackpty.Open()
	if err != nil {
		return nil, fmt.Errorf("open pty: %w", err)
	}

	if o.raw {
		if err := makeRaw(slave); err != nil {
			master.Close()
			slave.Close()
			return nil, fmt.Errorf("raw mode: %w", err)
		}
	}

	p := &PTY{
		id:     uuid.NewString(),
		master: master,
		slave:  slave,
		rx:     rx,
		tx:     tx,
	}
	p.rxReady = sync.NewCond(&p.mutex)
	p.txReady = sync.NewCond(&p.mutex)

	p.wg.Add(2)
	go p.readLoop()
	go p.writeLoop()

	pkg.LogInfo(pkg.ComponentTransport, "pty opened",
		"session", p.id,
		"slave", slave.Name())

	return p, nil
}

// ID returns the session identifier assigned at Open.
func (p *PTY) ID() string {
	return p.id
}

// Name returns the path of the slave device that host tools should open.
func (p *PTY) Name() string {
	return p.slave.Name()
}

// Slave returns the slave side of the pair, mainly for tests.
func (p *PTY) Slave() *os.File {
	return p.slave
}

// Err returns the first I/O error seen by the reader or writer goroutine.
func (p *PTY) Err() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.err
}

// Available implements transport.Transport.
func (p *PTY) Available() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.rx.Count()
}

// ReadBytes implements transport.Transport.
func (p *PTY) ReadBytes(buf []byte) int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	n := 0
	for n < len(buf) {
		c, ok := p.rx.Pop()
		if !ok {
			break
		}
		buf[n] = c
		n++
	}
	if n > 0 {
		p.rxReady.Signal()
	}
	return n
}

// Write implements transport.Transport.
func (p *PTY) Write(data []byte) int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.closed {
		return 0
	}
	n := 0
	for _, c := range data {
		if p.tx.Push(c) != nil {
			break
		}
		n++
	}
	if n > 0 {
		p.txReady.Signal()
	}
	return n
}

// WriteCapacity implements transport.Transport.
func (p *PTY) WriteCapacity() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.closed {
		return 0
	}
	return p.tx.Free()
}

// FlushInput implements transport.Transport.
func (p *PTY) FlushInput() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.rx.Flush()
	p.rxReady.Signal()
}

// Close stops the I/O goroutines and releases both sides of the pair.
func (p *PTY) Close() error {
	p.closeOnce.Do(func() {
		p.mutex.Lock()
		p.closed = true
		p.rxReady.Broadcast()
		p.txReady.Broadcast()
		p.mutex.Unlock()

		err := p.master.Close()
		if serr := p.slave.Close(); err == nil {
			err = serr
		}
		p.wg.Wait()
		p.closeErr = err

		pkg.LogInfo(pkg.ComponentTransport, "pty closed", "session", p.id)
	})
	return p.closeErr
}

// readLoop copies bytes from the master into the receive ring.
func (p *PTY) readLoop() {
	defer p.wg.Done()
	var buf [transport.PacketSize]byte
	for {
		p.mutex.Lock()
		for !p.closed && p.rx.Free() == 0 {
			p.rxReady.Wait()
		}
		room := min(p.rx.Free(), len(buf))
		closed := p.closed
		p.mutex.Unlock()
		if closed {
			return
		}

		n, err := p.master.Read(buf[:room])

		p.mutex.Lock()
		for _, c := range buf[:n] {
			_ = p.rx.Push(c) // room was reserved above
		}
		p.mutex.Unlock()

		if err != nil {
			p.fail(err)
			return
		}
	}
}

// writeLoop drains the transmit ring into the master.
func (p *PTY) writeLoop() {
	defer p.wg.Done()
	var buf [transport.PacketSize]byte
	for {
		p.mutex.Lock()
		for !p.closed && p.tx.Empty() {
			p.txReady.Wait()
		}
		if p.closed {
			p.mutex.Unlock()
			return
		}
		n := 0
		for n < len(buf) {
			c, ok := p.tx.Pop()
			if !ok {
				break
			}
			buf[n] = c
			n++
		}
		p.mutex.Unlock()

		if _, err := p.master.Write(buf[:n]); err != nil {
			p.fail(err)
			return
		}
	}
}

func (p *PTY) fail(err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.closed || errors.Is(err, os.ErrClosed) || errors.Is(err, io.EOF) {
		return
	}
	if p.err == nil {
		p.err = err
		pkg.LogError(pkg.ComponentTransport, "pty I/O failed",
			"session", p.id,
			"error", err)
	}
}

// Compile-time interface check
var _ transport.Transport = (*PTY)(nil)
